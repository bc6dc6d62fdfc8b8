package service

import "errors"

var (
	// ErrValidation marks a request the service refuses to act on.
	ErrValidation = errors.New("invalid request")
	// ErrNotFound marks a reference to a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrConcurrentUpdate marks an update that lost to another writer.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
