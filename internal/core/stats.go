package core

import (
	"sort"
	"time"

	"github.com/collabpad/relay/internal/domain"
)

// UserStat is the per-member slice of the stats payload.
type UserStat struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

type RoomStat struct {
	RoomID    domain.RoomID `json:"roomId"`
	UserCount int           `json:"userCount"`
	Users     []UserStat    `json:"users"`
}

type Stats struct {
	TotalRooms int        `json:"totalRooms"`
	TotalUsers int        `json:"totalUsers"`
	Rooms      []RoomStat `json:"rooms"`
}

// RoomInfo is the read-only room view for the REST API.
type RoomInfo struct {
	RoomID      domain.RoomID       `json:"roomId"`
	MemberCount int                 `json:"memberCount"`
	Meta        domain.RoomMetadata `json:"meta"`
}

// Stats returns a consistent point-in-time view of the whole registry,
// sorted by room id so output is stable.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{TotalRooms: len(s.rooms), Rooms: make([]RoomStat, 0, len(s.rooms))}
	for roomID, entry := range s.rooms {
		rs := RoomStat{RoomID: roomID, UserCount: len(entry.members), Users: make([]UserStat, 0, len(entry.members))}
		for _, id := range entry.order {
			if m, ok := entry.members[id]; ok {
				rs.Users = append(rs.Users, UserStat{ID: m.UserID, Username: m.Username, JoinedAt: m.JoinedAt})
			}
		}
		st.TotalUsers += rs.UserCount
		st.Rooms = append(st.Rooms, rs)
	}
	sort.Slice(st.Rooms, func(i, j int) bool { return st.Rooms[i].RoomID < st.Rooms[j].RoomID })
	return st
}

// Counts returns registry sizes for the health endpoint.
func (s *Store) Counts() (rooms, users int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.rooms {
		users += len(entry.members)
	}
	return len(s.rooms), users
}

// CreateOrGet returns info for an existing room or creates one with fresh
// metadata. The REST room-creation endpoint shares this primitive with
// the join path; a room created here stays empty until someone joins and
// is reclaimed by Sweep otherwise.
func (s *Store) CreateOrGet(roomID domain.RoomID, createdBy domain.ConnID) RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.rooms[roomID]
	if !ok {
		entry = &roomEntry{
			meta:    domain.RoomMetadata{CreatedAt: s.now(), CreatedBy: createdBy},
			members: make(map[domain.ConnID]*domain.Member),
		}
		s.rooms[roomID] = entry
	}
	return RoomInfo{RoomID: roomID, MemberCount: len(entry.members), Meta: entry.meta}
}

// Get returns room info without creating anything.
func (s *Store) Get(roomID domain.RoomID) (RoomInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.rooms[roomID]
	if !ok {
		return RoomInfo{}, false
	}
	return RoomInfo{RoomID: roomID, MemberCount: len(entry.members), Meta: entry.meta}, true
}

// List returns info for every active room, sorted by id.
func (s *Store) List() []RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RoomInfo, 0, len(s.rooms))
	for roomID, entry := range s.rooms {
		out = append(out, RoomInfo{RoomID: roomID, MemberCount: len(entry.members), Meta: entry.meta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}

// Delete drops the room regardless of membership and clears the room
// index of any members still in it. Callers that need to notify those
// members take a roster first.
func (s *Store) Delete(roomID domain.RoomID) []domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	evicted := entry.snapshot()
	for connID := range entry.members {
		if s.byConn[connID] == roomID {
			delete(s.byConn, connID)
		}
	}
	delete(s.rooms, roomID)
	return evicted
}

// Sweep deletes every room with zero members and returns their ids.
// The reactive leave path is the primary cleanup; this guards against
// member-less rooms left behind by the REST creation path or any
// mutation that bypassed atomic removal.
func (s *Store) Sweep() []domain.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted []domain.RoomID
	for roomID, entry := range s.rooms {
		if len(entry.members) == 0 {
			delete(s.rooms, roomID)
			deleted = append(deleted, roomID)
		}
	}
	return deleted
}
