package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("version conflict")
	ErrUnknownDriver = errors.New("unknown store driver")
)
