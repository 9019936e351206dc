package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/domain"
	"github.com/collabpad/relay/internal/metrics"
)

const writeDeadline = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ping := time.NewTicker(ctl.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ping.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drives the connection: every inbound event is handled to
// completion before the next one is read. On exit the disconnect funnels
// through the same leave path as an explicit leave-room.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, connID domain.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(connID)).Msg("readPump closing")
		cancel()
		ctl.Orch.Disconnect(connID)
		c.Close()
		metrics.ActiveConnections.Dec()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(connID, data)
		}
	}
}

// handleEvent decodes the envelope and dispatches to the typed handler
// for the event kind. Unknown kinds are logged and dropped.
func (ctl *Controller) handleEvent(connID domain.ConnID, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad json")
		return
	}
	metrics.EventsHandled.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case "join-room":
		ctl.handleJoin(connID, data)
	case "leave-room":
		ctl.handleLeave(connID, data)
	case "yjs-update":
		ctl.handleDocUpdate(connID, data)
	case "awareness-update":
		ctl.handleAwareness(connID, data)
	case "cursor-update":
		ctl.handleCursor(connID, data)
	case "typing":
		ctl.handleTyping(connID, data)
	case "request-sync":
		ctl.handleRequestSync(connID, data)
	case "send-sync":
		ctl.handleSendSync(connID, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}
