package api

import (
	"context"
	"net/http"

	service "github.com/IbrahimAli333/LaunchCircle-New/internal/app"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) (service.Stats, error)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
	logger        logger.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider, log logger.Logger) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, logger: log}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsProvider.GetStats(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
