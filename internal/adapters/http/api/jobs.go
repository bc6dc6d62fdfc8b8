package api

import (
	"net/http"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

const jobNotFound = "Job not found"

// JobsHandler serves /api/jobs and job applications.
type JobsHandler struct {
	deps   JobDependencies
	logger logger.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies, log logger.Logger) *JobsHandler {
	return &JobsHandler{deps: deps, logger: log}
}

// HandleList handles GET /api/jobs?role=&location=&skills=&work_style=...
func (h *JobsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.deps.ListJobs(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// HandleCreate handles POST /api/jobs.
func (h *JobsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.JobPostCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	j, err := h.deps.CreateJob(r.Context(), in)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

// HandleGet handles GET /api/jobs/{id}.
func (h *JobsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	j, err := h.deps.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, jobNotFound)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// HandleApply handles POST /api/jobs/{id}/apply.
func (h *JobsHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var in model.ApplicationCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := h.deps.Apply(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, jobNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleListApplications handles GET /api/jobs/{id}/applications.
func (h *JobsHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.deps.ListApplications(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, jobNotFound)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleExport handles GET /api/jobs/export.
func (h *JobsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	b, err := h.deps.ExportJobs(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err, "")
		return
	}
	writeFile(w, "jobs.xlsx", b)
}
