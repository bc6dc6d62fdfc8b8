package validation

import "errors"

// ErrInvalid is returned, wrapped with details, when input fails validation.
var ErrInvalid = errors.New("validation failed")
