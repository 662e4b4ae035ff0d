package service

import "errors"

// Error taxonomy surfaced by the room service. Transport layers map these
// onto status codes; anything else is an internal error and is logged
// without leaking detail to the caller.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room with this number already exists")
	ErrInvalidStatus = errors.New("invalid status")
	ErrForbidden     = errors.New("admin access required")
	ErrValidation    = errors.New("invalid input")
)
