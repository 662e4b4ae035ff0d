// Package models defines the core data types for rooms, schedules and identities
package models

import (
	"time"
)

// Status represents the occupancy state of a room or time slot
type Status string

const (
	StatusFree        Status = "free"
	StatusOccupied    Status = "occupied"
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

// AllStatuses lists every valid status value
var AllStatuses = []Status{StatusFree, StatusOccupied, StatusReserved, StatusMaintenance}

// IsValid reports whether s is one of the four allowed status values
func (s Status) IsValid() bool {
	switch s {
	case StatusFree, StatusOccupied, StatusReserved, StatusMaintenance:
		return true
	}
	return false
}

// UserRef is a display-only snapshot of the identity that touched a record.
// It is never used for authorization; deleting the referenced user must not
// affect the room record.
type UserRef struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// TimeSlot is a daily-recurring interval within a room's schedule.
// StartTime and EndTime are wall-clock "HH:MM" strings with no date or
// timezone component.
type TimeSlot struct {
	StartTime  string   `json:"startTime"`
	EndTime    string   `json:"endTime"`
	Status     Status   `json:"status"`
	ReservedBy *UserRef `json:"reservedBy,omitempty"`
	Purpose    string   `json:"purpose,omitempty"`
}

// Covers reports whether the slot contains the given "HH:MM" clock value,
// inclusive on both bounds. Lexicographic comparison is correct for
// zero-padded HH:MM strings.
func (ts *TimeSlot) Covers(clock string) bool {
	return ts.StartTime <= clock && clock <= ts.EndTime
}

// Room is a schedulable physical space. CurrentStatus holds the last
// explicit override and acts as the fallback when no schedule slot covers
// the current time.
type Room struct {
	RoomNumber    string     `json:"roomNumber"`
	Floor         int        `json:"floor"`
	Building      string     `json:"building"`
	Type          string     `json:"type"`
	Capacity      int        `json:"capacity"`
	Equipment     string     `json:"equipment"`
	CurrentStatus Status     `json:"currentStatus"`
	Schedule      []TimeSlot `json:"schedule"`
	LastUpdated   time.Time  `json:"lastUpdated"`
	UpdatedBy     *UserRef   `json:"updatedBy,omitempty"`
}

// ClockOf truncates a time to its "HH:MM" wall-clock representation
func ClockOf(t time.Time) string {
	return t.Format("15:04")
}

// ResolveStatus derives the room's effective status at the given time.
// The schedule is scanned in insertion order and the first slot covering
// the current clock time wins; overlapping slots are permitted and the
// earlier insertion takes precedence. With no matching slot the stored
// CurrentStatus override applies.
func (r *Room) ResolveStatus(now time.Time) Status {
	clock := ClockOf(now)
	for i := range r.Schedule {
		if r.Schedule[i].Covers(clock) {
			return r.Schedule[i].Status
		}
	}
	return r.CurrentStatus
}

// SetStatus applies an immediate status override without touching the
// schedule.
func (r *Room) SetStatus(status Status, actor *UserRef, now time.Time) {
	r.CurrentStatus = status
	r.LastUpdated = now
	r.UpdatedBy = actor
}

// UpdateTimeSlot upserts the slot for the exact (startTime, endTime) pair.
// An existing slot for the pair is overwritten in place, so repeating the
// same update never duplicates slots. ReservedBy is set only for reserved
// slots and cleared otherwise. When the interval covers the current clock
// time the fast-path CurrentStatus override is updated as well, keeping it
// consistent with the active slot.
func (r *Room) UpdateTimeSlot(startTime, endTime string, status Status, actor *UserRef, purpose string, now time.Time) {
	var reservedBy *UserRef
	if status == StatusReserved {
		reservedBy = actor
	}

	updated := false
	for i := range r.Schedule {
		if r.Schedule[i].StartTime == startTime && r.Schedule[i].EndTime == endTime {
			r.Schedule[i].Status = status
			r.Schedule[i].ReservedBy = reservedBy
			r.Schedule[i].Purpose = purpose
			updated = true
			break
		}
	}
	if !updated {
		r.Schedule = append(r.Schedule, TimeSlot{
			StartTime:  startTime,
			EndTime:    endTime,
			Status:     status,
			ReservedBy: reservedBy,
			Purpose:    purpose,
		})
	}

	r.LastUpdated = now
	r.UpdatedBy = actor

	if clock := ClockOf(now); startTime <= clock && clock <= endTime {
		r.CurrentStatus = status
	}
}
