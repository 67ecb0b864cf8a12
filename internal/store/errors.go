package store

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCalendar = errors.New("invalid calendar")
)
