// Package search applies one resolved filter to the profile and job collections.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/filter"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/match"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
)

// Collection labels used in logs and metrics.
const (
	CollectionProfiles = "profiles"
	CollectionJobs     = "jobs"
)

// ProfileLister lists every profile in creation order.
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]model.Profile, error)
}

// JobLister lists every job post in creation order.
type JobLister interface {
	ListJobs(ctx context.Context) ([]model.JobPost, error)
}

// Result holds the matches of a combined search. Both slices are non-nil.
type Result struct {
	Profiles []model.Profile `json:"profiles"`
	Jobs     []model.JobPost `json:"jobs"`
}

// Orchestrator resolves raw filters and evaluates them against the store.
type Orchestrator struct {
	profiles ProfileLister
	jobs     JobLister
	log      logger.Logger
}

// New creates an Orchestrator over the given listers.
func New(profiles ProfileLister, jobs JobLister, opts ...Option) *Orchestrator {
	o := &Orchestrator{profiles: profiles, jobs: jobs}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get().Named("search")
	}
	return o
}

// resolve returns ok=false when raw cannot be decoded; callers then answer
// with empty results.
func (o *Orchestrator) resolve(ctx context.Context, raw url.Values) (filter.Spec, bool, error) {
	spec, err := filter.Resolve(raw)
	if err == nil {
		return spec, true, nil
	}
	if errors.Is(err, filter.ErrInvalidFilter) {
		metrics.RecordInvalidFilter()
		o.log.Warn(ctx, "filter degraded to empty result", logger.Error(err))
		return nil, false, nil
	}
	return nil, false, err
}

// Profiles returns the profiles matching raw.
func (o *Orchestrator) Profiles(ctx context.Context, raw url.Values) ([]model.Profile, error) {
	spec, ok, err := o.resolve(ctx, raw)
	if err != nil || !ok {
		return []model.Profile{}, err
	}
	return o.matchProfiles(ctx, spec)
}

// Jobs returns the job posts matching raw.
func (o *Orchestrator) Jobs(ctx context.Context, raw url.Values) ([]model.JobPost, error) {
	spec, ok, err := o.resolve(ctx, raw)
	if err != nil || !ok {
		return []model.JobPost{}, err
	}
	return o.matchJobs(ctx, spec)
}

// Search resolves raw once and evaluates it against both collections concurrently.
func (o *Orchestrator) Search(ctx context.Context, raw url.Values) (Result, error) {
	res := Result{Profiles: []model.Profile{}, Jobs: []model.JobPost{}}

	spec, ok, err := o.resolve(ctx, raw)
	if err != nil || !ok {
		return res, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := o.matchProfiles(gCtx, spec)
		if err != nil {
			return err
		}
		res.Profiles = out
		return nil
	})
	g.Go(func() error {
		out, err := o.matchJobs(gCtx, spec)
		if err != nil {
			return err
		}
		res.Jobs = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{Profiles: []model.Profile{}, Jobs: []model.JobPost{}}, err
	}
	return res, nil
}

func (o *Orchestrator) matchProfiles(ctx context.Context, spec filter.Spec) ([]model.Profile, error) {
	start := time.Now()
	all, err := o.profiles.ListProfiles(ctx)
	if err != nil {
		return []model.Profile{}, fmt.Errorf("list profiles: %w", err)
	}
	out := match.Filter(all, spec)
	metrics.RecordSearch(CollectionProfiles, float64(time.Since(start).Microseconds())/1000.0, len(out))
	return out, nil
}

func (o *Orchestrator) matchJobs(ctx context.Context, spec filter.Spec) ([]model.JobPost, error) {
	start := time.Now()
	all, err := o.jobs.ListJobs(ctx)
	if err != nil {
		return []model.JobPost{}, fmt.Errorf("list jobs: %w", err)
	}
	out := match.Filter(all, spec)
	metrics.RecordSearch(CollectionJobs, float64(time.Since(start).Microseconds())/1000.0, len(out))
	return out, nil
}
