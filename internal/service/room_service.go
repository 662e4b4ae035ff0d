// Package service implements the room scheduling engine: status
// mutations, batch coordination, statistics and broadcast notification.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/navikt/roomboard/internal/broadcast"
	"github.com/navikt/roomboard/internal/models"
	"github.com/navikt/roomboard/internal/repository"
	"github.com/navikt/roomboard/internal/utils"
)

// Publisher is the slice of the broadcast registry the service needs.
// A nil publisher disables fan-out, which keeps the service testable in
// isolation.
type Publisher interface {
	Publish(event broadcast.Event)
}

// RoomService provides business logic for working with rooms
type RoomService struct {
	repo      repository.Repository
	publisher Publisher
	validate  *validator.Validate

	// now is swappable for tests exercising clock-dependent paths
	now func() time.Time
}

// NewRoomService creates a new RoomService with the given repository and
// publisher. The publisher may be nil.
func NewRoomService(repo repository.Repository, publisher Publisher) *RoomService {
	return &RoomService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// CreateRoomInput carries the admin-supplied fields for a new room
type CreateRoomInput struct {
	RoomNumber string `json:"roomNumber" validate:"required"`
	Floor      *int   `json:"floor" validate:"required,gte=0,lte=10"`
	Building   string `json:"building"`
	Type       string `json:"type" validate:"required"`
	Capacity   *int   `json:"capacity" validate:"required,gte=0"`
	Equipment  string `json:"equipment" validate:"required"`
}

// UpdateRoomInput carries optional static-field updates; zero values
// leave the field unchanged.
type UpdateRoomInput struct {
	Type      string `json:"type"`
	Building  string `json:"building"`
	Equipment string `json:"equipment"`
	Capacity  *int   `json:"capacity" validate:"omitempty,gte=0"`
}

// StatusUpdate is one status-change request. With both StartTime and
// EndTime set the change targets that schedule interval; otherwise the
// room's current status is overridden immediately.
type StatusUpdate struct {
	RoomNumber string        `json:"roomNumber"`
	Status     models.Status `json:"status"`
	StartTime  string        `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime    string        `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	Purpose    string        `json:"purpose,omitempty"`
}

// BulkResult partitions a batch into per-room successes and failures
type BulkResult struct {
	Successful []BulkSuccess `json:"successful"`
	Errors     []BulkError   `json:"errors"`
}

// BulkSuccess records one applied update with the room's resolved status
type BulkSuccess struct {
	RoomNumber string        `json:"roomNumber"`
	Status     models.Status `json:"status"`
}

// BulkError records one failed update with its reason
type BulkError struct {
	RoomNumber string `json:"roomNumber"`
	Error      string `json:"error"`
}

// Stats summarizes the room inventory by status, floor, type and building
type Stats struct {
	Total       int            `json:"total"`
	Free        int            `json:"free"`
	Occupied    int            `json:"occupied"`
	Reserved    int            `json:"reserved"`
	Maintenance int            `json:"maintenance"`
	ByFloor     map[string]int `json:"byFloor"`
	ByType      map[string]int `json:"byType"`
	ByBuilding  map[string]int `json:"byBuilding"`
}

// ListRooms returns rooms matching the filter with their status resolved
// against the current time.
func (s *RoomService) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	rooms, err := s.repo.ListRooms(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	now := s.now()
	for _, room := range rooms {
		room.CurrentStatus = room.ResolveStatus(now)
	}
	return rooms, nil
}

// GetRoom returns one room with its status resolved against the current time
func (s *RoomService) GetRoom(ctx context.Context, roomNumber string) (*models.Room, error) {
	room, err := s.repo.GetRoom(ctx, roomNumber)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("getting room: %w", err)
	}

	room.CurrentStatus = room.ResolveStatus(s.now())
	return room, nil
}

// GetSchedule returns a room's slot list
func (s *RoomService) GetSchedule(ctx context.Context, roomNumber string) ([]models.TimeSlot, error) {
	room, err := s.GetRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}
	return room.Schedule, nil
}

// GetRoomStatus returns the on-demand status snapshot for one room,
// bypassing the broadcast path.
func (s *RoomService) GetRoomStatus(ctx context.Context, roomNumber string) (*models.RoomStatusEvent, error) {
	room, err := s.GetRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}
	return &models.RoomStatusEvent{
		RoomNumber:  room.RoomNumber,
		Status:      room.CurrentStatus,
		LastUpdated: room.LastUpdated,
		UpdatedBy:   room.UpdatedBy,
	}, nil
}

// CreateRoom creates a room with an empty schedule. Admin only; duplicate
// room numbers are rejected.
func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput, actor *models.Identity) (*models.Room, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.repo.GetRoom(ctx, input.RoomNumber); err == nil {
		return nil, ErrRoomExists
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("checking for existing room: %w", err)
	}

	building := input.Building
	if building == "" {
		building = "Main Building"
	}

	room := &models.Room{
		RoomNumber:    input.RoomNumber,
		Floor:         *input.Floor,
		Building:      building,
		Type:          input.Type,
		Capacity:      *input.Capacity,
		Equipment:     input.Equipment,
		CurrentStatus: models.StatusFree,
		Schedule:      []models.TimeSlot{},
		LastUpdated:   s.now(),
		UpdatedBy:     actor.Ref(),
	}

	if err := s.repo.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}

	s.publish(broadcast.Event{
		Name:   models.EventRoomCreated,
		Topics: []string{models.FloorTopic(room.Floor)},
		Data: models.RoomCreatedEvent{
			Room:      room,
			CreatedBy: actor.Ref(),
		},
	})

	return room, nil
}

// UpdateRoomInfo updates a room's static descriptive fields. Admin only.
func (s *RoomService) UpdateRoomInfo(ctx context.Context, roomNumber string, input UpdateRoomInput, actor *models.Identity) (*models.Room, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	room, err := s.GetRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}

	if input.Type != "" {
		room.Type = input.Type
	}
	if input.Building != "" {
		room.Building = input.Building
	}
	if input.Equipment != "" {
		room.Equipment = input.Equipment
	}
	if input.Capacity != nil {
		room.Capacity = *input.Capacity
	}
	room.LastUpdated = s.now()
	room.UpdatedBy = actor.Ref()

	if err := s.repo.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}
	return room, nil
}

// DeleteRoom removes a room and announces the deletion. Admin only.
func (s *RoomService) DeleteRoom(ctx context.Context, roomNumber string, actor *models.Identity) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	room, err := s.GetRoom(ctx, roomNumber)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRoom(ctx, roomNumber); err != nil {
		if repository.IsNotFound(err) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("deleting room: %w", err)
	}

	s.publish(broadcast.Event{
		Name:   models.EventRoomDeleted,
		Topics: []string{models.FloorTopic(room.Floor)},
		Data: models.RoomDeletedEvent{
			RoomNumber: roomNumber,
			DeletedBy:  actor.Ref(),
		},
	})

	return nil
}

// UpdateStatus applies one status change to a room and broadcasts the
// result. Admin only; the role is checked before any state is read.
func (s *RoomService) UpdateStatus(ctx context.Context, update StatusUpdate, actor *models.Identity) (*models.RoomStatusEvent, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.applyStatusUpdate(ctx, update, actor)
}

// applyStatusUpdate performs the mutate-persist-resolve-broadcast cycle
// for one room without re-checking the caller's role.
func (s *RoomService) applyStatusUpdate(ctx context.Context, update StatusUpdate, actor *models.Identity) (*models.RoomStatusEvent, error) {
	if !update.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	room, err := s.repo.GetRoom(ctx, update.RoomNumber)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("getting room: %w", err)
	}

	now := s.now()
	if update.StartTime != "" && update.EndTime != "" {
		room.UpdateTimeSlot(update.StartTime, update.EndTime, update.Status, actor.Ref(), update.Purpose, now)
	} else {
		room.SetStatus(update.Status, actor.Ref(), now)
	}

	if err := s.repo.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}

	event := &models.RoomStatusEvent{
		RoomNumber:  room.RoomNumber,
		Status:      room.ResolveStatus(now),
		LastUpdated: room.LastUpdated,
		UpdatedBy:   actor.Ref(),
	}

	s.publish(broadcast.Event{
		Name:   models.EventRoomStatusUpdate,
		Topics: []string{models.FloorTopic(room.Floor)},
		Data:   *event,
	})

	return event, nil
}

// ApplyBatch applies a list of status updates sequentially. One bad entry
// never aborts the batch: the failure is recorded and processing
// continues. A broadcast is emitted per successful entry only. Admin
// only; the role is checked once before any entry is processed.
func (s *RoomService) ApplyBatch(ctx context.Context, updates []StatusUpdate, actor *models.Identity) (*BulkResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	result := &BulkResult{
		Successful: []BulkSuccess{},
		Errors:     []BulkError{},
	}

	for _, update := range updates {
		event, err := s.applyStatusUpdate(ctx, update, actor)
		if err != nil {
			log.Printf("bulk update failed for room %s: %v", utils.SanitizeLogString(update.RoomNumber), err)
			result.Errors = append(result.Errors, BulkError{
				RoomNumber: update.RoomNumber,
				Error:      batchErrorMessage(err),
			})
			continue
		}
		result.Successful = append(result.Successful, BulkSuccess{
			RoomNumber: event.RoomNumber,
			Status:     event.Status,
		})
	}

	return result, nil
}

// batchErrorMessage maps engine errors to the per-entry failure strings
// returned in a bulk result.
func batchErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, ErrInvalidStatus):
		return "Invalid status"
	default:
		return err.Error()
	}
}

// GetStats computes room statistics: totals, per-status counts and
// groupings by floor, type and building. Counts use the stored status
// override, matching the store-level aggregation of the admin dashboard.
func (s *RoomService) GetStats(ctx context.Context) (*Stats, error) {
	rooms, err := s.repo.ListRooms(ctx, models.RoomFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	stats := &Stats{
		ByFloor:    make(map[string]int),
		ByType:     make(map[string]int),
		ByBuilding: make(map[string]int),
	}

	for _, room := range rooms {
		stats.Total++
		switch room.CurrentStatus {
		case models.StatusFree:
			stats.Free++
		case models.StatusOccupied:
			stats.Occupied++
		case models.StatusReserved:
			stats.Reserved++
		case models.StatusMaintenance:
			stats.Maintenance++
		}

		floorName := fmt.Sprintf("Floor %d", room.Floor)
		if room.Floor == 0 {
			floorName = "Ground Floor"
		}
		stats.ByFloor[floorName]++
		stats.ByType[room.Type]++
		stats.ByBuilding[room.Building]++
	}

	return stats, nil
}

// Snapshot resolves the current status of every room for a periodic push
func (s *RoomService) Snapshot(ctx context.Context) ([]models.RoomSnapshot, error) {
	rooms, err := s.repo.ListRooms(ctx, models.RoomFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	now := s.now()
	snapshot := make([]models.RoomSnapshot, 0, len(rooms))
	for _, room := range rooms {
		snapshot = append(snapshot, models.RoomSnapshot{
			RoomNumber:   room.RoomNumber,
			Status:       room.ResolveStatus(now),
			LastUpdated:  room.LastUpdated,
			IsAutoUpdate: true,
		})
	}
	return snapshot, nil
}

// publish forwards an event to the broadcast channel when one is wired
func (s *RoomService) publish(event broadcast.Event) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
