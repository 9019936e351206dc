// Package metrics registers the Prometheus instruments the server
// exports and adapts the scrape handler to gin.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collab_active_connections",
		Help: "Currently open websocket connections.",
	})

	EventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collab_events_handled_total",
		Help: "Inbound websocket events processed, by type.",
	}, []string{"type"})

	RoomsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collab_rooms_swept_total",
		Help: "Empty rooms reclaimed by the periodic sweep.",
	})
)

// Handler exposes Prometheus metrics (mounted at /metrics).
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) { h.ServeHTTP(c.Writer, c.Request) }
}
