package models

import (
	"fmt"
	"time"
)

// Event names emitted on the broadcast channel
const (
	EventRoomStatusUpdate     = "roomStatusUpdate"
	EventRoomCreated          = "roomCreated"
	EventRoomDeleted          = "roomDeleted"
	EventPeriodicStatusUpdate = "periodicStatusUpdate"
	EventBulkUpdateCompleted  = "bulkUpdateCompleted"
	EventUserConnected        = "userConnected"
	EventError                = "error"
)

// Broadcast topics. Every subscriber implicitly belongs to TopicAll;
// floor-scoped topics are joined explicitly.
const TopicAll = "all"

// FloorTopic returns the topic name for a floor's scoped updates
func FloorTopic(floor int) string {
	return fmt.Sprintf("floor-%d", floor)
}

// RoomStatusEvent announces a single room's status change
type RoomStatusEvent struct {
	RoomNumber   string    `json:"roomNumber"`
	Status       Status    `json:"status"`
	LastUpdated  time.Time `json:"lastUpdated"`
	UpdatedBy    *UserRef  `json:"updatedBy,omitempty"`
	IsAutoUpdate bool      `json:"isAutoUpdate,omitempty"`
}

// RoomCreatedEvent announces a newly created room
type RoomCreatedEvent struct {
	Room      *Room    `json:"room"`
	CreatedBy *UserRef `json:"createdBy,omitempty"`
}

// RoomDeletedEvent announces a removed room
type RoomDeletedEvent struct {
	RoomNumber string   `json:"roomNumber"`
	DeletedBy  *UserRef `json:"deletedBy,omitempty"`
}

// RoomSnapshot is one row of a periodic full-status push. Snapshot rows
// are always automated; IsAutoUpdate lets clients tell them apart from
// admin-driven updates without inspecting the event name.
type RoomSnapshot struct {
	RoomNumber   string    `json:"roomNumber"`
	Status       Status    `json:"status"`
	LastUpdated  time.Time `json:"lastUpdated"`
	IsAutoUpdate bool      `json:"isAutoUpdate"`
}
