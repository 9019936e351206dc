package domain

import "time"

// RoomMetadata lives and dies with its room. If a room is re-created
// under the same id later, the metadata is fresh.
type RoomMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy ConnID    `json:"createdBy"`
}
