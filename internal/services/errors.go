package services

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrNotAMember       = errors.New("not a member of this room")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidToken     = errors.New("invalid or expired token")
)
