package app

import (
	"encoding/json"

	"github.com/collabpad/relay/internal/domain"
)

// Relay operations forward opaque payloads between members of a room.
// Payload content is never inspected; update/position/state bytes pass
// through exactly as received so the client-side CRDT keeps its
// semantics.

// RelayDocUpdate fans a document delta out to every other room member.
func (o *Orchestrator) RelayDocUpdate(connID domain.ConnID, roomID string, update json.RawMessage) {
	members := o.Store.Members(domain.RoomID(roomID))
	o.sendEach(members, connID, docUpdateEvent{Type: evDocUpdate, Update: update, From: connID})
}

// RelayAwareness fans ephemeral awareness state out the same way, under
// its own event name.
func (o *Orchestrator) RelayAwareness(connID domain.ConnID, roomID string, update json.RawMessage) {
	members := o.Store.Members(domain.RoomID(roomID))
	o.sendEach(members, connID, docUpdateEvent{Type: evAwareness, Update: update, From: connID})
}

// RelayCursor forwards a cursor position tagged with the sender's own
// presence fields, looked up in the store rather than trusted from the
// payload. A sender who is not a member of the room is a silent no-op.
func (o *Orchestrator) RelayCursor(connID domain.ConnID, roomID string, position json.RawMessage) {
	m, ok := o.Store.MemberOf(domain.RoomID(roomID), connID)
	if !ok {
		return
	}
	members := o.Store.Members(domain.RoomID(roomID))
	o.sendEach(members, connID, cursorEvent{
		Type:     evCursor,
		UserID:   m.UserID,
		Username: m.Username,
		Color:    m.Color,
		Position: position,
	})
}

// RelayTyping forwards a typing signal with the same membership gate as
// RelayCursor.
func (o *Orchestrator) RelayTyping(connID domain.ConnID, roomID string, isTyping bool) {
	m, ok := o.Store.MemberOf(domain.RoomID(roomID), connID)
	if !ok {
		return
	}
	members := o.Store.Members(domain.RoomID(roomID))
	o.sendEach(members, connID, typingEvent{
		Type:     evTyping,
		UserID:   m.UserID,
		Username: m.Username,
		IsTyping: isTyping,
	})
}

// RequestSync asks every other room member for their current document
// state; any already-synced peer may answer with SendSync.
func (o *Orchestrator) RequestSync(connID domain.ConnID, roomID string) {
	members := o.Store.Members(domain.RoomID(roomID))
	o.sendEach(members, connID, syncRequestedEvent{Type: evSyncRequested, From: connID})
}

// SendSync unicasts document state straight to the target connection.
// Membership is deliberately not checked — the target of a sync response
// may not have finished joining yet. Unknown targets are dropped.
func (o *Orchestrator) SendSync(connID, to domain.ConnID, roomID string, state json.RawMessage) {
	o.send(to, receiveSyncEvent{
		Type:   evReceiveSync,
		From:   connID,
		RoomID: domain.RoomID(roomID),
		State:  state,
	})
}
