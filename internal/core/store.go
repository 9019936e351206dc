package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/domain"
)

// roomEntry pairs room metadata with the member set. Insertion order is
// kept so roster broadcasts stay stable across calls.
type roomEntry struct {
	meta    domain.RoomMetadata
	members map[domain.ConnID]*domain.Member
	order   []domain.ConnID
}

func (e *roomEntry) snapshot() []domain.Member {
	out := make([]domain.Member, 0, len(e.order))
	for _, id := range e.order {
		if m, ok := e.members[id]; ok {
			out = append(out, *m)
		}
	}
	return out
}

// Store is the shared room registry: room id -> members + metadata, plus
// a connection -> room index enforcing that a connection sits in at most
// one room. A single mutex serializes every mutation; snapshots handed
// out for fanout are taken under the same lock as the mutation they
// follow, so broadcasts never see stale membership.
type Store struct {
	mu     sync.Mutex
	rooms  map[domain.RoomID]*roomEntry
	byConn map[domain.ConnID]domain.RoomID
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		rooms:  make(map[domain.RoomID]*roomEntry),
		byConn: make(map[domain.ConnID]domain.RoomID),
		now:    time.Now,
	}
}

// LeaveResult reports one committed membership removal and the
// post-removal roster of the room it happened in.
type LeaveResult struct {
	RoomID      domain.RoomID
	Member      domain.Member
	Remaining   []domain.Member
	RoomDeleted bool
}

// JoinResult reports a committed join: the new member, the post-join
// roster, and the implicit leave from a previously joined room, if any.
type JoinResult struct {
	Member  domain.Member
	Members []domain.Member
	Left    *LeaveResult
}

// Join inserts a member into roomID, creating the room lazily on first
// use. A connection already sitting in another room is removed from it
// first, in the same atomic step. The caller passes an already-sanitized
// username; an empty userID falls back to the connection id.
func (s *Store) Join(roomID domain.RoomID, connID domain.ConnID, username, userID string) JoinResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res JoinResult
	if prev, ok := s.byConn[connID]; ok {
		res.Left = s.removeLocked(prev, connID)
	}

	entry, ok := s.rooms[roomID]
	if !ok {
		entry = &roomEntry{
			meta:    domain.RoomMetadata{CreatedAt: s.now(), CreatedBy: connID},
			members: make(map[domain.ConnID]*domain.Member),
		}
		s.rooms[roomID] = entry
		log.Debug().Str("module", "core.store").Str("room", string(roomID)).Msg("room created")
	}

	if userID == "" {
		userID = string(connID)
	}
	m := &domain.Member{
		ConnID:   connID,
		UserID:   userID,
		Username: username,
		Color:    domain.ColorFor(len(entry.members)),
		JoinedAt: s.now(),
	}
	entry.members[connID] = m
	entry.order = append(entry.order, connID)
	s.byConn[connID] = roomID

	res.Member = *m
	res.Members = entry.snapshot()
	return res
}

// Remove deletes the member from roomID if present. When the room empties
// as a result, the room and its metadata go away in the same step.
func (s *Store) Remove(roomID domain.RoomID, connID domain.ConnID) (LeaveResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.removeLocked(roomID, connID)
	if res == nil {
		return LeaveResult{}, false
	}
	return *res, true
}

// LeaveCurrent removes the connection from whichever room it is in.
// Disconnects funnel through here.
func (s *Store) LeaveCurrent(connID domain.ConnID) (LeaveResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID, ok := s.byConn[connID]
	if !ok {
		return LeaveResult{}, false
	}
	res := s.removeLocked(roomID, connID)
	if res == nil {
		return LeaveResult{}, false
	}
	return *res, true
}

func (s *Store) removeLocked(roomID domain.RoomID, connID domain.ConnID) *LeaveResult {
	entry, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	m, ok := entry.members[connID]
	if !ok {
		return nil
	}
	delete(entry.members, connID)
	for i, id := range entry.order {
		if id == connID {
			entry.order = append(entry.order[:i], entry.order[i+1:]...)
			break
		}
	}
	if s.byConn[connID] == roomID {
		delete(s.byConn, connID)
	}

	res := &LeaveResult{RoomID: roomID, Member: *m}
	if len(entry.members) == 0 {
		delete(s.rooms, roomID)
		res.RoomDeleted = true
		log.Debug().Str("module", "core.store").Str("room", string(roomID)).Msg("room deleted")
	} else {
		res.Remaining = entry.snapshot()
	}
	return res
}

// RoomOf returns the room the connection currently sits in, if any.
func (s *Store) RoomOf(connID domain.ConnID) (domain.RoomID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID, ok := s.byConn[connID]
	return roomID, ok
}

// Members returns the roster of roomID, empty if the room is absent.
func (s *Store) Members(roomID domain.RoomID) []domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return entry.snapshot()
}

// MemberOf looks up the sender's own membership record. Relay handlers
// that tag outbound events with presence fields use this instead of
// trusting the payload.
func (s *Store) MemberOf(roomID domain.RoomID, connID domain.ConnID) (domain.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.rooms[roomID]
	if !ok {
		return domain.Member{}, false
	}
	m, ok := entry.members[connID]
	if !ok {
		return domain.Member{}, false
	}
	return *m, true
}
