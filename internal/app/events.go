package app

import (
	"encoding/json"

	"github.com/collabpad/relay/internal/domain"
)

// Outbound event names, mirrored by clients.
const (
	evJoinSuccess   = "join-success"
	evRoomUsers     = "room-users"
	evUserJoined    = "user-joined"
	evUserLeft      = "user-left"
	evDocUpdate     = "yjs-update"
	evAwareness     = "awareness-update"
	evCursor        = "cursor-update"
	evTyping        = "user-typing"
	evSyncRequested = "sync-requested"
	evReceiveSync   = "receive-sync"
	evError         = "error"
)

type roomUsersEvent struct {
	Type  string          `json:"type"`
	Users []domain.Member `json:"users"`
}

type userJoinedEvent struct {
	Type string        `json:"type"`
	User domain.Member `json:"user"`
}

type joinSuccessEvent struct {
	Type      string        `json:"type"`
	RoomID    domain.RoomID `json:"roomId"`
	UserData  domain.Member `json:"userData"`
	UserCount int           `json:"userCount"`
}

type userLeftEvent struct {
	Type         string        `json:"type"`
	ConnectionID domain.ConnID `json:"connectionId"`
	Username     string        `json:"username"`
}

// docUpdateEvent carries an opaque CRDT delta. The RawMessage field keeps
// the sender's bytes intact through the relay.
type docUpdateEvent struct {
	Type   string          `json:"type"`
	Update json.RawMessage `json:"update"`
	From   domain.ConnID   `json:"from"`
}

type cursorEvent struct {
	Type     string          `json:"type"`
	UserID   string          `json:"userId"`
	Username string          `json:"username"`
	Color    string          `json:"color"`
	Position json.RawMessage `json:"position"`
}

type typingEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type syncRequestedEvent struct {
	Type string        `json:"type"`
	From domain.ConnID `json:"from"`
}

type receiveSyncEvent struct {
	Type   string          `json:"type"`
	From   domain.ConnID   `json:"from"`
	RoomID domain.RoomID   `json:"roomId"`
	State  json.RawMessage `json:"state"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
