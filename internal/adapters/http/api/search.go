package api

import (
	"net/http"

	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// SearchHandler serves the combined directory search.
type SearchHandler struct {
	deps   SearchDependencies
	logger logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, log logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, logger: log}
}

// HandleSearch handles GET /api/search.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Search(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
