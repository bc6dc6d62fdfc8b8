package loadcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/filter"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/match"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/search"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// checkQueries returns the filter queries verified after submission. Every
// query is scoped to the run tag.
func checkQueries(tag string) []url.Values {
	scoped := func(kv ...string) url.Values {
		q := url.Values{"experience": {tag}}
		for i := 0; i+1 < len(kv); i += 2 {
			q.Add(kv[i], kv[i+1])
		}
		return q
	}

	queries := []url.Values{scoped()}
	for _, r := range model.Roles() {
		queries = append(queries, scoped("role", string(r)))
	}
	return append(queries,
		scoped("location", "new york"),
		scoped("skills", "go,python"),
		scoped("skills", "React", "skills", "design"),
		scoped("work_style", "REMOTE"),
		scoped("availability", "weekends"),
		scoped("role", string(model.RoleFounder), "skills", "fundraising", "location", "remote"),
	)
}

// expectedCount applies q to the profiles the service accepted.
func expectedCount(profiles []model.Profile, q url.Values) (int, error) {
	spec, err := filter.Resolve(q)
	if err != nil {
		return 0, err
	}
	return len(match.Filter(profiles, spec)), nil
}

// verifyResults compares /api/users and /api/search counts with local
// matching over the accepted profiles.
func verifyResults(ctx context.Context, config *Config, tag string, payloads []*Payload, stats *Stats) ([]Check, error) {
	log := logger.Get()
	log.Info(ctx, "verifying filter results")

	profiles := make([]model.Profile, 0, len(payloads))
	for _, p := range payloads {
		if p.Profile != nil {
			profiles = append(profiles, *p.Profile)
		}
	}

	client := newHTTPClient(config.Timeout)
	var checks []Check
	for _, q := range checkQueries(tag) {
		expected, err := expectedCount(profiles, q)
		if err != nil {
			return checks, fmt.Errorf("resolve %s: %w", q.Encode(), err)
		}

		var listed []model.Profile
		users, err := fetch(ctx, client, config.BaseURL+"/api/users?"+q.Encode(), &listed)
		if err != nil {
			return checks, err
		}
		var found search.Result
		combined, err := fetch(ctx, client, config.BaseURL+"/api/search?"+q.Encode(), &found)
		if err != nil {
			return checks, err
		}

		users.Expected, users.Got = expected, len(listed)
		combined.Expected, combined.Got = expected, len(found.Profiles)
		for _, c := range []Check{users, combined} {
			stats.ChecksRun++
			if !c.Passed() {
				stats.ChecksFailed++
				log.Warn(ctx, "count mismatch",
					logger.String("path", c.Path), logger.String("query", c.Query),
					logger.Int("expected", c.Expected), logger.Int("got", c.Got))
			} else if config.Verbose {
				log.Info(ctx, "check passed", logger.String("path", c.Path),
					logger.String("query", c.Query), logger.Int("count", c.Got))
			}
			checks = append(checks, c)
		}
	}

	log.Info(ctx, "verification completed",
		logger.Int("checks", stats.ChecksRun), logger.Int("failed", stats.ChecksFailed))
	return checks, nil
}

func fetch(ctx context.Context, client *HTTPClient, rawURL string, out any) (Check, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Check{}, err
	}
	status, err := client.Get(ctx, rawURL, out)
	if err != nil {
		return Check{}, fmt.Errorf("GET %s: %w", u.Path, err)
	}
	if status != http.StatusOK {
		return Check{}, fmt.Errorf("GET %s: unexpected status %d", u.Path, status)
	}
	return Check{Path: u.Path, Query: u.RawQuery}, nil
}
