package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/adapters/signal"
	"github.com/collabpad/relay/internal/app"
	"github.com/collabpad/relay/internal/config"
	"github.com/collabpad/relay/internal/domain"
	"github.com/collabpad/relay/internal/metrics"
)

// ClientTokenMiddleware tags every client with a long-lived cookie token
// so log lines can be correlated across reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// SetupRouter wires HTTP routes (REST + WS) with the orchestrator.
// - Static UI is served from cfg.StaticPath.
// - REST is under /api/*
// - WebSocket upgrade lives at /ws
func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CollabSessions", store))
	r.Use(ClientTokenMiddleware())

	// Static UI
	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/metrics", metrics.Handler())

	started := time.Now()
	r.GET("/health", func(c *gin.Context) {
		rooms, users := orch.Store.Counts()
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"activeRooms":   rooms,
			"totalUsers":    users,
			"uptimeSeconds": int64(time.Since(started).Seconds()),
		})
	})

	api := r.Group("/api")

	// GET /api/stats — full registry snapshot
	api.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, orch.Store.Stats())
	})

	// GET /api/rooms — list active rooms
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": orch.Store.List()})
	})

	// POST /api/rooms — create (or get) a room through the same store
	// primitive the join path uses.
	api.POST("/rooms", func(c *gin.Context) {
		var req struct {
			RoomID string `json:"roomId"`
		}
		if err := c.BindJSON(&req); err != nil || !domain.ValidRoomID(req.RoomID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
			return
		}
		createdBy := domain.ConnID(c.GetString("client_token"))
		c.JSON(http.StatusOK, orch.Store.CreateOrGet(domain.RoomID(req.RoomID), createdBy))
	})

	// GET /api/rooms/:id — room info
	api.GET("/rooms/:id", func(c *gin.Context) {
		info, ok := orch.Store.Get(domain.RoomID(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, info)
	})

	// DELETE /api/rooms/:id — evict members and drop the room
	api.DELETE("/rooms/:id", func(c *gin.Context) {
		orch.EvictRoom(domain.RoomID(c.Param("id")))
		c.Status(http.StatusNoContent)
	})

	// GET /api/rooms/:id/members — current roster
	api.GET("/rooms/:id/members", func(c *gin.Context) {
		members := orch.Store.Members(domain.RoomID(c.Param("id")))
		if members == nil {
			members = []domain.Member{}
		}
		c.JSON(http.StatusOK, members)
	})

	ctl := signal.NewController(orch, cfg)
	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
