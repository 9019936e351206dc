package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/domain"
)

// Relay handlers decode only the envelope fields they route on; update,
// position and state stay json.RawMessage so the bytes the sender
// produced are the bytes the recipients get.

func (ctl *Controller) handleDocUpdate(connID domain.ConnID, data []byte) {
	type payload struct {
		RoomID string          `json:"roomId"`
		Update json.RawMessage `json:"update"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad yjs-update payload")
		return
	}
	ctl.Orch.RelayDocUpdate(connID, p.RoomID, p.Update)
}

func (ctl *Controller) handleAwareness(connID domain.ConnID, data []byte) {
	type payload struct {
		RoomID string          `json:"roomId"`
		Update json.RawMessage `json:"update"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad awareness-update payload")
		return
	}
	ctl.Orch.RelayAwareness(connID, p.RoomID, p.Update)
}

func (ctl *Controller) handleCursor(connID domain.ConnID, data []byte) {
	type payload struct {
		RoomID   string          `json:"roomId"`
		Position json.RawMessage `json:"position"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad cursor-update payload")
		return
	}
	ctl.Orch.RelayCursor(connID, p.RoomID, p.Position)
}

func (ctl *Controller) handleTyping(connID domain.ConnID, data []byte) {
	type payload struct {
		RoomID   string `json:"roomId"`
		IsTyping bool   `json:"isTyping"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad typing payload")
		return
	}
	ctl.Orch.RelayTyping(connID, p.RoomID, p.IsTyping)
}

func (ctl *Controller) handleRequestSync(connID domain.ConnID, data []byte) {
	type payload struct {
		RoomID string `json:"roomId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad request-sync payload")
		return
	}
	ctl.Orch.RequestSync(connID, p.RoomID)
}

func (ctl *Controller) handleSendSync(connID domain.ConnID, data []byte) {
	type payload struct {
		To     string          `json:"to"`
		RoomID string          `json:"roomId"`
		State  json.RawMessage `json:"state"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad send-sync payload")
		return
	}
	ctl.Orch.SendSync(connID, domain.ConnID(p.To), p.RoomID, p.State)
}
