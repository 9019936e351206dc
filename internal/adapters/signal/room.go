package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/domain"
)

func (ctl *Controller) handleJoin(connID domain.ConnID, data []byte) {
	type joinPayload struct {
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
		UserID   string `json:"userId,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad join payload")
		// Fall through with zero values; the orchestrator rejects the
		// empty room id without mutating anything.
	}
	ctl.Orch.Join(connID, p.RoomID, p.Username, p.UserID)
}

func (ctl *Controller) handleLeave(connID domain.ConnID, data []byte) {
	type leavePayload struct {
		RoomID string `json:"roomId"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad leave payload")
		return
	}
	ctl.Orch.Leave(connID, p.RoomID)
}
