package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/core"
	"github.com/collabpad/relay/internal/domain"
)

// Orchestrator handles one inbound event at a time per connection and
// composes store mutations with presence fanout. Delivery is best-effort:
// a recipient with a full buffer or closed transport is skipped, never
// reported back to the sender.
type Orchestrator struct {
	Registry *Registry
	Store    *core.Store
}

func NewOrchestrator(registry *Registry, store *core.Store) *Orchestrator {
	return &Orchestrator{Registry: registry, Store: store}
}

// Join handles a join-room event end to end: validate, sanitize, mutate,
// then emit presence events in the order clients rely on — full roster to
// the joiner before anything else, join-success last.
func (o *Orchestrator) Join(connID domain.ConnID, roomID, username, userID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "app.orchestrator").Str("conn", string(connID)).Interface("panic", r).Msg("join handler failed")
			o.send(connID, errorEvent{Type: evError, Message: "Failed to join room"})
		}
	}()

	if !domain.ValidRoomID(roomID) {
		log.Warn().Str("module", "app.orchestrator").Str("conn", string(connID)).Str("room", roomID).Msg("invalid room id")
		o.send(connID, errorEvent{Type: evError, Message: "Invalid room ID"})
		return
	}
	name := domain.SanitizeUsername(username)

	res := o.Store.Join(domain.RoomID(roomID), connID, name, userID)
	if res.Left != nil {
		// Implicit leave of the previously joined room.
		o.notifyLeft(*res.Left)
	}

	roster := roomUsersEvent{Type: evRoomUsers, Users: res.Members}
	o.send(connID, roster)
	o.sendEach(res.Members, connID, userJoinedEvent{Type: evUserJoined, User: res.Member})
	o.sendEach(res.Members, "", roster)
	o.send(connID, joinSuccessEvent{
		Type:      evJoinSuccess,
		RoomID:    domain.RoomID(roomID),
		UserData:  res.Member,
		UserCount: len(res.Members),
	})

	log.Info().Str("module", "app.orchestrator").Str("conn", string(connID)).
		Str("room", roomID).Str("username", name).Int("count", len(res.Members)).Msg("joined room")
}

// Leave handles an explicit leave-room event.
func (o *Orchestrator) Leave(connID domain.ConnID, roomID string) {
	res, ok := o.Store.Remove(domain.RoomID(roomID), connID)
	if !ok {
		return
	}
	o.notifyLeft(res)
	log.Info().Str("module", "app.orchestrator").Str("conn", string(connID)).Str("room", roomID).Msg("left room")
}

// Disconnect funnels a transport-level close through the same leave path
// as an explicit leave, then releases the transport binding.
func (o *Orchestrator) Disconnect(connID domain.ConnID) {
	if res, ok := o.Store.LeaveCurrent(connID); ok {
		o.notifyLeft(res)
		log.Info().Str("module", "app.orchestrator").Str("conn", string(connID)).Str("room", string(res.RoomID)).Msg("disconnected from room")
	}
	o.Registry.Unbind(connID)
}

// EvictRoom removes every member of roomID through regular leaves and
// then drops the room itself. Backs the REST delete endpoint.
func (o *Orchestrator) EvictRoom(roomID domain.RoomID) {
	for _, m := range o.Store.Members(roomID) {
		if res, ok := o.Store.Remove(roomID, m.ConnID); ok {
			o.notifyLeft(res)
		}
	}
	// A member-less room created via REST has nothing to notify.
	o.Store.Delete(roomID)
}

// notifyLeft tells the remaining members who left and hands them the
// updated roster. An emptied room is already gone from the store; there
// is no one left to notify.
func (o *Orchestrator) notifyLeft(res core.LeaveResult) {
	if len(res.Remaining) == 0 {
		return
	}
	o.sendEach(res.Remaining, "", userLeftEvent{
		Type:         evUserLeft,
		ConnectionID: res.Member.ConnID,
		Username:     res.Member.Username,
	})
	o.sendEach(res.Remaining, "", roomUsersEvent{Type: evRoomUsers, Users: res.Remaining})
}

// send marshals v and delivers it to one connection. Unknown or closed
// targets are silent no-ops.
func (o *Orchestrator) send(connID domain.ConnID, v any) {
	conn, ok := o.Registry.Get(connID)
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("marshal outbound event")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Debug().Err(err).Str("module", "app.orchestrator").Str("conn", string(connID)).Msg("dropped outbound event")
	}
}

// sendEach fans v out to every listed member, optionally excluding one
// connection. The payload is marshaled once; per-recipient failures do
// not stop the fanout.
func (o *Orchestrator) sendEach(members []domain.Member, except domain.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("marshal outbound event")
		return
	}
	for _, m := range members {
		if m.ConnID == except {
			continue
		}
		conn, ok := o.Registry.Get(m.ConnID)
		if !ok {
			continue
		}
		if err := conn.TrySend(core.Frame(b)); err != nil {
			log.Debug().Err(err).Str("module", "app.orchestrator").Str("conn", string(m.ConnID)).Msg("dropped outbound event")
		}
	}
}
