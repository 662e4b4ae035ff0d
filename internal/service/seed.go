package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/navikt/roomboard/internal/models"
)

// DefaultRooms returns the default campus room inventory used to seed an
// empty store.
func DefaultRooms() []models.Room {
	return []models.Room{
		// Ground floor
		{RoomNumber: "G01", Floor: 0, Building: "Main Building", Type: "Lecture Theatre", Capacity: 200, Equipment: "Projector, microphone system, tiered seating"},
		{RoomNumber: "G02", Floor: 0, Building: "Main Building", Type: "Assembly Hall", Capacity: 300, Equipment: "Stage, sound system, lighting"},
		{RoomNumber: "G03", Floor: 0, Building: "Main Building", Type: "Cafeteria", Capacity: 150, Equipment: "Kitchen facilities, dining tables"},
		{RoomNumber: "G04", Floor: 0, Building: "Main Building", Type: "Library", Capacity: 100, Equipment: "Reading areas, computer terminals"},
		{RoomNumber: "G05", Floor: 0, Building: "Main Building", Type: "Computer Lab", Capacity: 30, Equipment: "30 PCs, projector, network access"},

		// First floor
		{RoomNumber: "101", Floor: 1, Building: "Main Building", Type: "Lecture Theatre", Capacity: 120, Equipment: "Interactive whiteboard, projector, audio system"},
		{RoomNumber: "102", Floor: 1, Building: "Main Building", Type: "Seminar Room", Capacity: 25, Equipment: "Modular tables, whiteboard"},
		{RoomNumber: "103", Floor: 1, Building: "Main Building", Type: "Computer Lab", Capacity: 25, Equipment: "25 workstations, software suite"},
		{RoomNumber: "104", Floor: 1, Building: "Main Building", Type: "Physics Laboratory", Capacity: 20, Equipment: "Laboratory benches, scientific equipment"},
		{RoomNumber: "105", Floor: 1, Building: "Main Building", Type: "Chemistry Laboratory", Capacity: 24, Equipment: "Fume cupboards, safety equipment"},
		{RoomNumber: "106", Floor: 1, Building: "Main Building", Type: "Study Room", Capacity: 12, Equipment: "Study desks, quiet environment"},

		// Second floor
		{RoomNumber: "201", Floor: 2, Building: "Main Building", Type: "Lecture Theatre", Capacity: 80, Equipment: "Smart board, video conferencing"},
		{RoomNumber: "202", Floor: 2, Building: "Main Building", Type: "Seminar Room", Capacity: 20, Equipment: "Flexible seating, presentation screen"},
		{RoomNumber: "203", Floor: 2, Building: "Main Building", Type: "IT Laboratory", Capacity: 18, Equipment: "High-spec computers, development software"},
		{RoomNumber: "204", Floor: 2, Building: "Main Building", Type: "Conference Room", Capacity: 16, Equipment: "Video conferencing, presentation facilities"},
		{RoomNumber: "205", Floor: 2, Building: "Main Building", Type: "Language Laboratory", Capacity: 24, Equipment: "Audio equipment, language software"},
		{RoomNumber: "206", Floor: 2, Building: "Main Building", Type: "Multimedia Room", Capacity: 30, Equipment: "Interactive displays, media equipment"},

		// Third floor
		{RoomNumber: "301", Floor: 3, Building: "Main Building", Type: "Research Laboratory", Capacity: 15, Equipment: "Specialized research equipment"},
		{RoomNumber: "302", Floor: 3, Building: "Main Building", Type: "Programming Department", Capacity: 10, Equipment: "Faculty offices, meeting space"},
		{RoomNumber: "303", Floor: 3, Building: "Main Building", Type: "Meeting Room", Capacity: 8, Equipment: "Conference table, video link"},
		{RoomNumber: "304", Floor: 3, Building: "Main Building", Type: "Dean's Office", Capacity: 6, Equipment: "Executive office, reception area"},
		{RoomNumber: "305", Floor: 3, Building: "Main Building", Type: "Server Room", Capacity: 0, Equipment: "IT infrastructure, climate control"},
		{RoomNumber: "306", Floor: 3, Building: "Main Building", Type: "Vice-Chancellor's Office", Capacity: 8, Equipment: "Executive suite, meeting area"},
		{RoomNumber: "307", Floor: 3, Building: "Main Building", Type: "Council Chamber", Capacity: 40, Equipment: "Formal meeting setup, recording facilities"},
		{RoomNumber: "308", Floor: 3, Building: "Main Building", Type: "Teaching Resource Centre", Capacity: 20, Equipment: "Educational materials, printing facilities"},
		{RoomNumber: "309", Floor: 3, Building: "Main Building", Type: "Design Studio", Capacity: 25, Equipment: "Drawing tables, design software"},
	}
}

// SeedDefaultRooms populates an empty store with the default inventory.
// A store that already holds rooms is left untouched.
func (s *RoomService) SeedDefaultRooms(ctx context.Context) error {
	count, err := s.repo.CountRooms(ctx, models.RoomFilter{})
	if err != nil {
		return fmt.Errorf("counting rooms: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, room := range DefaultRooms() {
		room.CurrentStatus = models.StatusFree
		room.Schedule = []models.TimeSlot{}
		room.LastUpdated = now
		if err := s.repo.SaveRoom(ctx, &room); err != nil {
			return fmt.Errorf("seeding room %s: %w", room.RoomNumber, err)
		}
	}

	log.Printf("seeded %d default rooms", len(DefaultRooms()))
	return nil
}
