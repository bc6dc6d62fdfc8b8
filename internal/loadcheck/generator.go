package loadcheck

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// Attribute pools sampled by the generator. Filter checks are built from
// the same pools so every query has a chance to match.
var (
	locations    = []string{"New York, NY", "San Francisco, CA", "Austin, TX", "Remote", "London, UK"}
	skillPool    = []string{"Go", "Python", "React", "Next.js", "PostgreSQL", "Fundraising", "Design", "Kubernetes"}
	workStyles   = []string{"remote", "hybrid", "onsite"}
	availability = []string{"Full-time", "Part-time", "Evenings"}
)

const maxSkillCount = 3

// randomIndex returns a uniform index in [0,n) using crypto/rand.
func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func pick(pool []string) string { return pool[randomIndex(len(pool))] }

// newRunTag returns a short token that scopes verification to this run.
func newRunTag() string {
	return "lc" + strings.ReplaceAll(uuid.NewString(), "-", "")[:tagLength]
}

// experienceFor embeds the run tag in the experience field, which the
// directory filters by substring.
func experienceFor(tag string, years int) string {
	return fmt.Sprintf("%d years %s", years, tag)
}

// generateProfiles builds NumProfiles payloads tagged with tag.
func generateProfiles(ctx context.Context, config *Config, tag string, stats *Stats) ([]*Payload, error) {
	logger.Get().Info(ctx, "generating profiles", logger.Int("profiles", config.NumProfiles), logger.String("tag", tag))

	roles := model.Roles()
	payloads := make([]*Payload, config.NumProfiles)
	for i := range payloads {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		payloads[i] = generateSingleProfile(i, tag, roles, config.InvalidEvery)
	}
	stats.ProfilesGenerated = len(payloads)
	return payloads, nil
}

func generateSingleProfile(i int, tag string, roles []model.Role, invalidEvery int) *Payload {
	skills := make([]string, 0, maxSkillCount)
	seen := map[string]bool{}
	for n := 1 + randomIndex(maxSkillCount); len(skills) < n; {
		s := pick(skillPool)
		if !seen[s] {
			seen[s] = true
			skills = append(skills, s)
		}
	}

	req := model.ProfileCreate{
		Name:         fmt.Sprintf("Load Check %s #%d", tag, i),
		Email:        model.StringPtr(fmt.Sprintf("%s+%d@example.com", tag, i)),
		Role:         roles[i%len(roles)],
		Skills:       skills,
		Location:     model.StringPtr(pick(locations)),
		Availability: model.StringPtr(pick(availability)),
		Experience:   model.StringPtr(experienceFor(tag, 1+randomIndex(15))),
		Preferences:  map[string]string{"work_style": pick(workStyles)},
	}

	p := &Payload{Index: i, Request: req}
	if invalidEvery > 0 && i%invalidEvery == invalidEvery-1 {
		p.Request.Name = "   "
		p.Invalid = true
	}
	return p
}
