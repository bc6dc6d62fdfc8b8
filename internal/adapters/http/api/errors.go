package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/IbrahimAli333/LaunchCircle-New/internal/app"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/patch"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// Error codes carried in the "code" field of error bodies.
const (
	codeValidation       = "validation_error"
	codeImmutableField   = "immutable_field"
	codeMalformedJSON    = "malformed_json"
	codeBodyTooLarge     = "body_too_large"
	codeInvalidIfMatch   = "invalid_if_match"
	codeNotFound         = "not_found"
	codeConcurrentUpdate = "concurrent_update"
	codeInternal         = "internal_error"
)

// ErrBadRequest marks request data rejected before reaching the service.
var ErrBadRequest = errors.New("bad request")

// writeServiceError maps service error kinds to status codes. notFound is
// the detail used for 404 answers.
func writeServiceError(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, patch.ErrImmutableField):
		writeError(w, http.StatusBadRequest, codeImmutableField, err.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, notFound)
	case errors.Is(err, service.ErrConcurrentUpdate):
		writeError(w, http.StatusConflict, codeConcurrentUpdate, "the record was modified concurrently; reload and retry")
	default:
		log.Error(ctx, "request failed",
			logger.String("request_id", RequestIDFrom(ctx)),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
