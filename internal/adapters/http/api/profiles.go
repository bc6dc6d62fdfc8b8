package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/export"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

const userNotFound = "User not found"

// ProfilesHandler serves /api/users.
type ProfilesHandler struct {
	deps   ProfileDependencies
	logger logger.Logger
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfileDependencies, log logger.Logger) *ProfilesHandler {
	return &ProfilesHandler{deps: deps, logger: log}
}

// HandleList handles GET /api/users?role=&location=&skills=...
func (h *ProfilesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.deps.ListProfiles(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HandleCreate handles POST /api/users.
func (h *ProfilesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.ProfileCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.deps.CreateProfile(r.Context(), in)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	w.Header().Set("ETag", etag(p.Version))
	writeJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /api/users/{id}.
func (h *ProfilesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, userNotFound)
		return
	}
	w.Header().Set("ETag", etag(p.Version))
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PUT /api/users/{id}. The body is a sparse patch;
// an optional If-Match header pins the expected version.
func (h *ProfilesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ifMatch, err := parseIfMatch(r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidIfMatch, err.Error())
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	p, err := h.deps.UpdateProfile(r.Context(), r.PathValue("id"), body, ifMatch)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, userNotFound)
		return
	}
	w.Header().Set("ETag", etag(p.Version))
	writeJSON(w, http.StatusOK, p)
}

// HandleExport handles GET /api/users/export.
func (h *ProfilesHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	b, err := h.deps.ExportProfiles(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	writeFile(w, "profiles.xlsx", b)
}

func etag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}

// parseIfMatch accepts a quoted or bare version, optionally weak. An empty
// header or "*" yields 0, meaning no precondition.
func parseIfMatch(h string) (int64, error) {
	h = strings.TrimSpace(h)
	if h == "" || h == "*" {
		return 0, nil
	}
	v := strings.Trim(strings.TrimPrefix(h, "W/"), `"`)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: If-Match must carry a profile version, got %q", ErrBadRequest, h)
	}
	return n, nil
}

func writeFile(w http.ResponseWriter, name string, b []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
