package filter

import "errors"

// ErrInvalidFilter is returned when raw query input cannot be decoded.
var ErrInvalidFilter = errors.New("invalid filter")
