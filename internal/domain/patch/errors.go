package patch

import "errors"

// Sentinel errors for merge failures.
var (
	ErrImmutableField = errors.New("immutable field")
	ErrValidation     = errors.New("invalid patch value")
)
