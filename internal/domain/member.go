// Package domain contains entities without logic, just meta-data.
package domain

import "time"

type (
	// ConnID identifies one transport connection. The transport owns the
	// connection itself; everything here only references it by ID.
	ConnID string
	RoomID string
)

// Member is a connection's joined identity within a room. It is created
// once per successful join and never mutated afterwards; the room that
// holds it is its sole owner.
type Member struct {
	ConnID   ConnID    `json:"connectionId"`
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joinedAt"`
}
