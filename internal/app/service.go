// Package service provides the directory service behind the HTTP API. It
// ties the store, the search orchestrator, the update merger and the event
// pipeline together.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/events"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/export"
	eventqueue "github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/queue"
	workerpool "github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/worker"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/repository"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/dedupe"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/patch"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/search"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/validation"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
)

const tracerName = "launchcircle.app"

// Collection labels for metrics.
const (
	collectionProfiles     = "profiles"
	collectionJobs         = "jobs"
	collectionApplications = "applications"
)

// Stats is a snapshot of the service for monitoring.
type Stats struct {
	Started      bool   `json:"started"`
	Driver       string `json:"driver"`
	Profiles     int    `json:"profiles"`
	Jobs         int    `json:"jobs"`
	Applications int    `json:"applications"`
	WorkerCount  int    `json:"worker_count"`
	QueueSize    int    `json:"queue_size"`
	QueueLength  int    `json:"queue_length"`
	DedupeSize   int64  `json:"dedupe_size"`
	Published    int64  `json:"events_published"`
}

// Service implements the API dependencies for the directory.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	search    *search.Orchestrator
	deduper   dedupe.Deduper
	queue     *eventqueue.InMemoryQueue
	emitter   *events.Emitter
	publisher workerpool.Publisher
	pool      *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	updateRetries int
	storeTimeout  time.Duration

	started bool

	logger logger.Logger
	tracer trace.Tracer
}

// New constructs a Service over store. Events are only emitted after Start.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:         store,
		publisher:     events.NopPublisher{},
		workerCount:   runtime.NumCPU(),
		queueSize:     10_000,
		dedupeSize:    50_000,
		updateRetries: 3,
		storeTimeout:  2 * time.Second,
		tracer:        otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.search = search.New(store, store, search.WithLogger(s.logger.Named("search")))
	return s
}

// Start builds the event pipeline and launches the publishing workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.emitter = events.NewEmitter(s.deduper, s.queue, s.logger.Named("emitter"))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.publisher,
		workerpool.WithLogger(s.logger.Named("worker-pool")),
	)
	// Workers outlive ctx; Stop drains the queue before they exit.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "directory service started",
		logger.String("driver", s.store.Driver()),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains pending events and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.started {
		if err := s.pool.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		s.started = false
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	s.logger.Info(ctx, "directory service stopped")
	return errors.Join(errs...)
}

// CreateProfile validates in and stores a new profile.
func (s *Service) CreateProfile(ctx context.Context, in model.ProfileCreate) (_ model.Profile, err error) { //nolint:gocritic // hugeParam: payloads are values
	ctx, span := s.tracer.Start(ctx, "CreateProfile")
	defer func() { endSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	p, err := s.store.InsertProfile(sctx, in.Profile())
	if err != nil {
		return model.Profile{}, storeErr("insert profile", err)
	}

	span.SetAttributes(attribute.String("profile.id", p.ID))
	metrics.RecordEntityCreated(collectionProfiles)
	s.emit(ctx, model.EventProfileCreated, p.ID, p)
	return p, nil
}

// GetProfile returns the profile with the given id.
func (s *Service) GetProfile(ctx context.Context, id string) (_ model.Profile, err error) {
	ctx, span := s.tracer.Start(ctx, "GetProfile", trace.WithAttributes(attribute.String("profile.id", id)))
	defer func() { endSpan(span, err) }()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	p, err := s.store.GetProfile(sctx, id)
	if err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}
	return p, nil
}

// UpdateProfile merges the JSON patch doc into the profile. A non-zero
// ifMatch must equal the stored version.
func (s *Service) UpdateProfile(ctx context.Context, id string, doc []byte, ifMatch int64) (_ model.Profile, err error) {
	ctx, span := s.tracer.Start(ctx, "UpdateProfile", trace.WithAttributes(attribute.String("profile.id", id)))
	defer func() { endSpan(span, err) }()

	p, err := patch.Parse(doc)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := patch.CheckImmutable(p); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := validation.Patch(doc); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	for attempt := 0; attempt <= s.updateRetries; attempt++ {
		updated, err := s.tryUpdate(ctx, id, p, ifMatch)
		if err == nil {
			span.SetAttributes(attribute.Int("update.attempts", attempt+1))
			metrics.RecordProfileMerge()
			s.emit(ctx, model.EventProfileUpdated, updated.ID, updated)
			return updated, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return model.Profile{}, err
		}
		metrics.RecordUpdateConflict()
		if ifMatch != 0 {
			return model.Profile{}, fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
		}
		s.logger.Debug(ctx, "profile update conflict, retrying",
			logger.String("id", id),
			logger.Int("attempt", attempt+1),
		)
	}
	return model.Profile{}, fmt.Errorf("%w: %w", ErrConcurrentUpdate, repository.ErrConflict)
}

// tryUpdate runs one read, merge and versioned write cycle.
func (s *Service) tryUpdate(ctx context.Context, id string, p patch.Patch, ifMatch int64) (model.Profile, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	current, err := s.store.GetProfile(sctx, id)
	if err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}
	if ifMatch != 0 && current.Version != ifMatch {
		return model.Profile{}, fmt.Errorf("version %d, want %d: %w", current.Version, ifMatch, repository.ErrConflict)
	}
	merged, err := patch.Merge(current, p)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	updated, err := s.store.ReplaceProfile(sctx, merged, current.Version)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.Profile{}, err
		}
		return model.Profile{}, storeErr("replace profile", err)
	}
	return updated, nil
}

// ListProfiles returns the profiles matching the raw filter parameters.
func (s *Service) ListProfiles(ctx context.Context, raw url.Values) (_ []model.Profile, err error) {
	ctx, span := s.tracer.Start(ctx, "ListProfiles")
	defer func() { endSpan(span, err) }()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	out, err := s.search.Profiles(sctx, raw)
	span.SetAttributes(attribute.Int("search.matches", len(out)))
	return out, err
}

// CreateJob validates in and stores a new job post.
func (s *Service) CreateJob(ctx context.Context, in model.JobPostCreate) (_ model.JobPost, err error) { //nolint:gocritic // hugeParam: payloads are values
	ctx, span := s.tracer.Start(ctx, "CreateJob")
	defer func() { endSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return model.JobPost{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	owner, err := s.store.GetProfile(sctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.JobPost{}, fmt.Errorf("%w: owner not found", ErrValidation)
		}
		return model.JobPost{}, storeErr("get owner", err)
	}
	if owner.Role != model.RoleJobProvider && owner.Role != model.RoleFounder {
		return model.JobPost{}, fmt.Errorf("%w: only job providers or founders can create job posts", ErrValidation)
	}

	j, err := s.store.InsertJob(sctx, in.JobPost())
	if err != nil {
		return model.JobPost{}, storeErr("insert job", err)
	}

	span.SetAttributes(attribute.String("job.id", j.ID))
	metrics.RecordEntityCreated(collectionJobs)
	s.emit(ctx, model.EventJobCreated, j.ID, j)
	j.OwnerName = model.StringPtr(owner.Name)
	return j, nil
}

// GetJob returns the job post with the given id.
func (s *Service) GetJob(ctx context.Context, id string) (_ model.JobPost, err error) {
	ctx, span := s.tracer.Start(ctx, "GetJob", trace.WithAttributes(attribute.String("job.id", id)))
	defer func() { endSpan(span, err) }()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	j, err := s.store.GetJob(sctx, id)
	if err != nil {
		return model.JobPost{}, storeErr("get job", err)
	}
	if owner, err := s.store.GetProfile(sctx, j.OwnerID); err == nil {
		j.OwnerName = model.StringPtr(owner.Name)
	}
	return j, nil
}

// ListJobs returns the job posts matching the raw filter parameters.
func (s *Service) ListJobs(ctx context.Context, raw url.Values) (_ []model.JobPost, err error) {
	ctx, span := s.tracer.Start(ctx, "ListJobs")
	defer func() { endSpan(span, err) }()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	out, err := s.search.Jobs(sctx, raw)
	span.SetAttributes(attribute.Int("search.matches", len(out)))
	if err != nil {
		return out, err
	}
	return out, s.fillOwnerNames(sctx, out)
}

// Search applies one filter to profiles and job posts.
func (s *Service) Search(ctx context.Context, raw url.Values) (_ search.Result, err error) {
	ctx, span := s.tracer.Start(ctx, "Search")
	defer func() { endSpan(span, err) }()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	res, err := s.search.Search(sctx, raw)
	span.SetAttributes(
		attribute.Int("search.profiles", len(res.Profiles)),
		attribute.Int("search.jobs", len(res.Jobs)),
	)
	if err != nil {
		return res, err
	}
	return res, s.fillOwnerNames(sctx, res.Jobs)
}

// profileNames maps profile ids to names.
func (s *Service) profileNames(ctx context.Context) (map[string]string, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, storeErr("list profiles", err)
	}
	names := make(map[string]string, len(profiles))
	for i := range profiles {
		names[profiles[i].ID] = profiles[i].Name
	}
	return names, nil
}

func (s *Service) fillOwnerNames(ctx context.Context, jobs []model.JobPost) error {
	if len(jobs) == 0 {
		return nil
	}
	names, err := s.profileNames(ctx)
	if err != nil {
		return err
	}
	for i := range jobs {
		if n, ok := names[jobs[i].OwnerID]; ok {
			jobs[i].OwnerName = model.StringPtr(n)
		}
	}
	return nil
}

// Apply records an application to jobID.
func (s *Service) Apply(ctx context.Context, jobID string, in model.ApplicationCreate) (_ model.Application, err error) {
	ctx, span := s.tracer.Start(ctx, "Apply", trace.WithAttributes(attribute.String("job.id", jobID)))
	defer func() { endSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return model.Application{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if in.JobPostID != jobID {
		return model.Application{}, fmt.Errorf("%w: job_post_id mismatch", ErrValidation)
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	job, err := s.store.GetJob(sctx, jobID)
	if err != nil {
		return model.Application{}, storeErr("get job", err)
	}
	applicant, err := s.store.GetProfile(sctx, in.ApplicantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Application{}, fmt.Errorf("%w: applicant not found", ErrValidation)
		}
		return model.Application{}, storeErr("get applicant", err)
	}
	if applicant.Role == model.RoleJobProvider {
		return model.Application{}, fmt.Errorf("%w: job providers cannot apply to roles", ErrValidation)
	}

	a, err := s.store.InsertApplication(sctx, model.Application{
		JobPostID:   jobID,
		ApplicantID: applicant.ID,
		Status:      model.StatusApplied,
		CoverLetter: in.CoverLetter,
	})
	if err != nil {
		return model.Application{}, storeErr("insert application", err)
	}

	metrics.RecordEntityCreated(collectionApplications)
	s.emit(ctx, model.EventApplicationSubmitted, a.ID, a)
	a.ApplicantName = model.StringPtr(applicant.Name)
	a.JobTitle = model.StringPtr(job.Title)
	return a, nil
}

// ListApplications returns the applications to jobID in creation order.
func (s *Service) ListApplications(ctx context.Context, jobID string) (_ []model.Application, err error) {
	ctx, span := s.tracer.Start(ctx, "ListApplications", trace.WithAttributes(attribute.String("job.id", jobID)))
	defer func() { endSpan(span, err) }()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	out, err := s.store.ListApplications(sctx, jobID)
	if err != nil {
		return []model.Application{}, storeErr("list applications", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	names, err := s.profileNames(sctx)
	if err != nil {
		return []model.Application{}, err
	}
	var title *string
	if job, err := s.store.GetJob(sctx, jobID); err == nil {
		title = model.StringPtr(job.Title)
	}
	for i := range out {
		if n, ok := names[out[i].ApplicantID]; ok {
			out[i].ApplicantName = model.StringPtr(n)
		}
		out[i].JobTitle = title
	}
	return out, nil
}

// ExportProfiles renders the matching profiles as an XLSX workbook.
func (s *Service) ExportProfiles(ctx context.Context, raw url.Values) ([]byte, error) {
	profiles, err := s.ListProfiles(ctx, raw)
	if err != nil {
		return nil, err
	}
	b, err := export.Profiles(profiles)
	if err != nil {
		return nil, fmt.Errorf("export profiles: %w", err)
	}
	metrics.RecordExport(collectionProfiles)
	return b, nil
}

// ExportJobs renders the matching job posts as an XLSX workbook.
func (s *Service) ExportJobs(ctx context.Context, raw url.Values) ([]byte, error) {
	jobs, err := s.ListJobs(ctx, raw)
	if err != nil {
		return nil, err
	}
	b, err := export.Jobs(jobs)
	if err != nil {
		return nil, fmt.Errorf("export jobs: %w", err)
	}
	metrics.RecordExport(collectionJobs)
	return b, nil
}

// GetStats returns service statistics and refreshes the entity gauges.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	counts, err := s.store.Counts(sctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count records: %w", err)
	}

	stats := Stats{
		Started:      s.started,
		Driver:       s.store.Driver(),
		Profiles:     counts.Profiles,
		Jobs:         counts.Jobs,
		Applications: counts.Applications,
		WorkerCount:  s.workerCount,
		QueueSize:    s.queueSize,
	}
	if s.started {
		stats.QueueLength = s.queue.Len()
		stats.DedupeSize = s.deduper.Size()
		stats.Published = s.pool.Processed()
	}

	metrics.UpdateEntityCount(collectionProfiles, counts.Profiles)
	metrics.UpdateEntityCount(collectionJobs, counts.Jobs)
	metrics.UpdateEntityCount(collectionApplications, counts.Applications)
	return stats, nil
}

// emit queues an event for the write that just committed. Failures are
// logged and never reach the caller.
func (s *Service) emit(ctx context.Context, typ model.EventType, subjectID string, payload any) {
	s.mu.RLock()
	em := s.emitter
	s.mu.RUnlock()
	if em == nil {
		return
	}
	e, err := model.NewEvent(typ, subjectID, payload)
	if err != nil {
		s.logger.Warn(ctx, "event not built", logger.String("type", string(typ)), logger.Error(err))
		return
	}
	em.Emit(ctx, e)
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeErr maps repository misses onto ErrNotFound.
func storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
