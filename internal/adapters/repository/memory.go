package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
)

// DriverMemory names the in-memory backend.
const DriverMemory = "memory"

// MemoryStore keeps every collection in process memory. All reads return
// copies, so callers never share state with the store.
type MemoryStore struct {
	opts options

	mu           sync.RWMutex
	profiles     []model.Profile
	profileIdx   map[string]int
	jobs         []model.JobPost
	jobIdx       map[string]int
	applications []model.Application
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{
		opts:       o,
		profileIdx: make(map[string]int),
		jobIdx:     make(map[string]int),
	}
}

func observe(driver, op string, start time.Time) {
	metrics.RecordRepositoryLatency(driver, op, float64(time.Since(start).Microseconds())/1000.0)
}

// Driver implements Store.
func (s *MemoryStore) Driver() string { return DriverMemory }

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// InsertProfile implements ProfileStore.
func (s *MemoryStore) InsertProfile(_ context.Context, p model.Profile) (model.Profile, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(DriverMemory, "insert_profile", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := p.Clone()
	if rec.ID == "" {
		rec.ID = s.opts.newID()
	}
	if _, exists := s.profileIdx[rec.ID]; exists {
		return model.Profile{}, fmt.Errorf("profile %s: %w", rec.ID, ErrConflict)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.opts.now()
	}
	rec.Version = 1

	s.profileIdx[rec.ID] = len(s.profiles)
	s.profiles = append(s.profiles, rec)
	return rec.Clone(), nil
}

// GetProfile implements ProfileStore.
func (s *MemoryStore) GetProfile(_ context.Context, id string) (model.Profile, error) {
	defer observe(DriverMemory, "get_profile", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.profileIdx[id]
	if !ok {
		return model.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return s.profiles[i].Clone(), nil
}

// ListProfiles implements ProfileStore.
func (s *MemoryStore) ListProfiles(_ context.Context) ([]model.Profile, error) {
	defer observe(DriverMemory, "list_profiles", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out, nil
}

// ReplaceProfile implements ProfileStore.
func (s *MemoryStore) ReplaceProfile(_ context.Context, p model.Profile, expected int64) (model.Profile, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(DriverMemory, "replace_profile", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.profileIdx[p.ID]
	if !ok {
		return model.Profile{}, fmt.Errorf("profile %s: %w", p.ID, ErrNotFound)
	}
	current := s.profiles[i]
	if current.Version != expected {
		return model.Profile{}, fmt.Errorf("profile %s at version %d, expected %d: %w", p.ID, current.Version, expected, ErrConflict)
	}

	rec := p.Clone()
	rec.CreatedAt = current.CreatedAt
	rec.Version = current.Version + 1
	s.profiles[i] = rec
	return rec.Clone(), nil
}

// InsertJob implements JobStore.
func (s *MemoryStore) InsertJob(_ context.Context, j model.JobPost) (model.JobPost, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(DriverMemory, "insert_job", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := j.Clone()
	if rec.ID == "" {
		rec.ID = s.opts.newID()
	}
	if _, exists := s.jobIdx[rec.ID]; exists {
		return model.JobPost{}, fmt.Errorf("job %s: %w", rec.ID, ErrConflict)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.opts.now()
	}

	s.jobIdx[rec.ID] = len(s.jobs)
	s.jobs = append(s.jobs, rec)
	return rec.Clone(), nil
}

// GetJob implements JobStore.
func (s *MemoryStore) GetJob(_ context.Context, id string) (model.JobPost, error) {
	defer observe(DriverMemory, "get_job", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.jobIdx[id]
	if !ok {
		return model.JobPost{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return s.jobs[i].Clone(), nil
}

// ListJobs implements JobStore.
func (s *MemoryStore) ListJobs(_ context.Context) ([]model.JobPost, error) {
	defer observe(DriverMemory, "list_jobs", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.JobPost, len(s.jobs))
	for i, j := range s.jobs {
		out[i] = j.Clone()
	}
	return out, nil
}

// InsertApplication implements ApplicationStore.
func (s *MemoryStore) InsertApplication(_ context.Context, a model.Application) (model.Application, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(DriverMemory, "insert_application", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := a.Clone()
	if rec.ID == "" {
		rec.ID = s.opts.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.opts.now()
	}
	if rec.Status == "" {
		rec.Status = model.StatusApplied
	}
	s.applications = append(s.applications, rec)
	return rec.Clone(), nil
}

// ListApplications implements ApplicationStore.
func (s *MemoryStore) ListApplications(_ context.Context, jobID string) ([]model.Application, error) {
	defer observe(DriverMemory, "list_applications", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Application{}
	for _, a := range s.applications {
		if a.JobPostID == jobID {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

// Counts implements Store.
func (s *MemoryStore) Counts(_ context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Counts{
		Profiles:     len(s.profiles),
		Jobs:         len(s.jobs),
		Applications: len(s.applications),
	}, nil
}
