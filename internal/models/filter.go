package models

// RoomFilter narrows room listings. Nil/empty fields match everything.
// Status filters on the stored CurrentStatus override, mirroring a
// store-level query; callers wanting the resolved status filter after
// resolution.
type RoomFilter struct {
	Floor    *int
	Building string
	Type     string
	Status   Status
}

// Matches reports whether a room satisfies every set filter field
func (f RoomFilter) Matches(room *Room) bool {
	if f.Floor != nil && room.Floor != *f.Floor {
		return false
	}
	if f.Building != "" && room.Building != f.Building {
		return false
	}
	if f.Type != "" && room.Type != f.Type {
		return false
	}
	if f.Status != "" && room.CurrentStatus != f.Status {
		return false
	}
	return true
}
