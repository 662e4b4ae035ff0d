// Package repository defines interfaces for data storage
package repository

import (
	"context"
	"errors"

	"github.com/navikt/roomboard/internal/models"
	"github.com/navikt/roomboard/internal/repository/memory"
	"github.com/navikt/roomboard/internal/repository/redis"
)

// Repository defines the interface for storing and retrieving room records.
// Implementations must provide per-record write atomicity; the engine does
// not layer optimistic concurrency on top.
type Repository interface {
	SaveRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, roomNumber string) (*models.Room, error)
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error)
	DeleteRoom(ctx context.Context, roomNumber string) error
	CountRooms(ctx context.Context, filter models.RoomFilter) (int, error)
}

// IsNotFound reports whether an error from any backend means the room
// does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, redis.ErrNotFound)
}
