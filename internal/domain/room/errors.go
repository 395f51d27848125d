package room

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomNumberMissing = errors.New("room number is required")
)
