// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/search"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// API identity reported by /api/info.
const (
	Name    = "LaunchCircle API"
	Version = "0.3.0"
)

const defaultMaxBodyBytes = 1 << 20

// ProfileDependencies covers the profile endpoints.
type ProfileDependencies interface {
	CreateProfile(ctx context.Context, in model.ProfileCreate) (model.Profile, error)
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	UpdateProfile(ctx context.Context, id string, doc []byte, ifMatch int64) (model.Profile, error)
	ListProfiles(ctx context.Context, raw url.Values) ([]model.Profile, error)
	ExportProfiles(ctx context.Context, raw url.Values) ([]byte, error)
}

// JobDependencies covers the job post and application endpoints.
type JobDependencies interface {
	CreateJob(ctx context.Context, in model.JobPostCreate) (model.JobPost, error)
	GetJob(ctx context.Context, id string) (model.JobPost, error)
	ListJobs(ctx context.Context, raw url.Values) ([]model.JobPost, error)
	ExportJobs(ctx context.Context, raw url.Values) ([]byte, error)
	Apply(ctx context.Context, jobID string, in model.ApplicationCreate) (model.Application, error)
	ListApplications(ctx context.Context, jobID string) ([]model.Application, error)
}

// SearchDependencies covers the combined search endpoint.
type SearchDependencies interface {
	Search(ctx context.Context, raw url.Values) (search.Result, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProfileDependencies
	JobDependencies
	SearchDependencies
	StatsProvider
}

// Server wires HTTP routes for the directory API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	profilesHandler *ProfilesHandler
	jobsHandler     *JobsHandler
	searchHandler   *SearchHandler

	logger       logger.Logger
	origins      []string
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and internal errors.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllowedOrigins sets the CORS allow list. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps, s.logger)
	s.profilesHandler = NewProfilesHandler(deps, s.logger)
	s.jobsHandler = NewJobsHandler(deps, s.logger)
	s.searchHandler = NewSearchHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /api/health", "health", s.healthHandler.HandleHealth)
	route("GET /api/info", "info", s.healthHandler.HandleInfo)
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /api/users", "users", s.profilesHandler.HandleList)
	route("POST /api/users", "users", s.profilesHandler.HandleCreate)
	route("GET /api/users/export", "users_export", s.profilesHandler.HandleExport)
	route("GET /api/users/{id}", "user", s.profilesHandler.HandleGet)
	route("PUT /api/users/{id}", "user", s.profilesHandler.HandleUpdate)

	route("GET /api/jobs", "jobs", s.jobsHandler.HandleList)
	route("POST /api/jobs", "jobs", s.jobsHandler.HandleCreate)
	route("GET /api/jobs/export", "jobs_export", s.jobsHandler.HandleExport)
	route("GET /api/jobs/{id}", "job", s.jobsHandler.HandleGet)
	route("POST /api/jobs/{id}/apply", "job_apply", s.jobsHandler.HandleApply)
	route("GET /api/jobs/{id}/applications", "job_applications", s.jobsHandler.HandleListApplications)

	route("GET /api/search", "search", s.searchHandler.HandleSearch)

	// Authentication is served elsewhere.
	route("/api/auth/", "auth", handleNotFound)
	mux.HandleFunc("/", handleNotFound)
}

// Registrar attaches extra routes, such as the API docs, to a mux.
type Registrar func(ctx context.Context, mux *http.ServeMux)

// Handler returns the routes of s and extra wrapped in the standard
// middleware chain.
func (s *Server) Handler(ctx context.Context, extra ...Registrar) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	for _, register := range extra {
		register(ctx, mux)
	}
	return Chain(mux,
		RequestID,
		AccessLog(s.logger),
		Recover(s.logger),
		CORS(s.origins),
		BodyLimit(s.maxBodyBytes),
	)
}

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Detail: detail, Code: code})
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, "Not Found")
}

// decodeJSON reads the request body into v and answers malformed or
// oversized bodies itself. It reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, codeMalformedJSON, fmt.Sprintf("malformed JSON body: %v", err))
		return false
	}
	return true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBodyTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, codeMalformedJSON, "unreadable request body")
		return nil, false
	}
	return body, true
}
