// Package repository stores profiles, job posts and applications.
package repository

import (
	"context"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

// ProfileStore persists profiles. Lists are in creation order.
type ProfileStore interface {
	// InsertProfile assigns id (when empty), created_at and version 1.
	InsertProfile(ctx context.Context, p model.Profile) (model.Profile, error)
	// GetProfile returns ErrNotFound for unknown ids.
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	// ReplaceProfile writes p only if the stored version equals expected and
	// returns the record with its version bumped. A stale version yields
	// ErrConflict.
	ReplaceProfile(ctx context.Context, p model.Profile, expected int64) (model.Profile, error)
}

// JobStore persists job posts. Job posts are immutable once inserted.
type JobStore interface {
	InsertJob(ctx context.Context, j model.JobPost) (model.JobPost, error)
	GetJob(ctx context.Context, id string) (model.JobPost, error)
	ListJobs(ctx context.Context) ([]model.JobPost, error)
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	InsertApplication(ctx context.Context, a model.Application) (model.Application, error)
	ListApplications(ctx context.Context, jobID string) ([]model.Application, error)
}

// Counts is a snapshot of collection sizes.
type Counts struct {
	Profiles     int `json:"profiles"`
	Jobs         int `json:"jobs"`
	Applications int `json:"applications"`
}

// Store is the full persistence surface used by the service.
type Store interface {
	ProfileStore
	JobStore
	ApplicationStore

	Counts(ctx context.Context) (Counts, error)
	// Driver names the backend, e.g. "memory" or "sqlite".
	Driver() string
	Close() error
}
