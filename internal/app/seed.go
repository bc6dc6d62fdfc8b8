package service

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFixture struct {
	Profiles     []seedProfile     `yaml:"profiles"`
	Jobs         []seedJob         `yaml:"jobs"`
	Applications []seedApplication `yaml:"applications"`
}

type seedProfile struct {
	Key                 string            `yaml:"key"`
	Name                string            `yaml:"name"`
	Email               string            `yaml:"email"`
	Role                model.Role        `yaml:"role"`
	Headline            string            `yaml:"headline"`
	Bio                 string            `yaml:"bio"`
	Experience          string            `yaml:"experience"`
	Startups            string            `yaml:"startups"`
	Portfolio           []string          `yaml:"portfolio"`
	ResumeURL           string            `yaml:"resume_url"`
	LookingForCofounder bool              `yaml:"looking_for_cofounder"`
	Availability        string            `yaml:"availability"`
	Skills              []string          `yaml:"skills"`
	Location            string            `yaml:"location"`
	TimeZone            string            `yaml:"time_zone"`
	Preferences         map[string]string `yaml:"preferences"`
}

func (p seedProfile) create() model.ProfileCreate { //nolint:gocritic // hugeParam: fixture rows are values
	return model.ProfileCreate{
		Name:                p.Name,
		Email:               optional(p.Email),
		Role:                p.Role,
		Skills:              p.Skills,
		Location:            optional(p.Location),
		TimeZone:            optional(p.TimeZone),
		Availability:        optional(p.Availability),
		Headline:            optional(p.Headline),
		Bio:                 optional(p.Bio),
		Experience:          optional(p.Experience),
		Startups:            optional(p.Startups),
		ResumeURL:           optional(p.ResumeURL),
		Portfolio:           p.Portfolio,
		LookingForCofounder: p.LookingForCofounder,
		Preferences:         p.Preferences,
	}
}

type seedJob struct {
	Key          string     `yaml:"key"`
	Owner        string     `yaml:"owner"`
	Title        string     `yaml:"title"`
	Headline     string     `yaml:"headline"`
	Description  string     `yaml:"description"`
	Role         model.Role `yaml:"role"`
	Skills       []string   `yaml:"skills"`
	Location     string     `yaml:"location"`
	TimeZone     string     `yaml:"time_zone"`
	WorkStyle    string     `yaml:"work_style"`
	Availability string     `yaml:"availability"`
	Timeline     string     `yaml:"timeline"`
	Compensation string     `yaml:"compensation"`
}

func (j seedJob) create(ownerID string) model.JobPostCreate { //nolint:gocritic // hugeParam: fixture rows are values
	return model.JobPostCreate{
		Title:        j.Title,
		Role:         j.Role,
		OwnerID:      ownerID,
		Skills:       j.Skills,
		Location:     optional(j.Location),
		TimeZone:     optional(j.TimeZone),
		WorkStyle:    optional(j.WorkStyle),
		Availability: optional(j.Availability),
		Timeline:     optional(j.Timeline),
		Compensation: optional(j.Compensation),
		Headline:     optional(j.Headline),
		Description:  optional(j.Description),
	}
}

type seedApplication struct {
	Job         string `yaml:"job"`
	Applicant   string `yaml:"applicant"`
	CoverLetter string `yaml:"cover_letter"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return model.StringPtr(s)
}

// Seed loads the demo fixture when the directory has no profiles. It
// reports whether anything was written.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "Seed")
	defer span.End()

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: count records: %w", err)
	}
	if counts.Profiles > 0 {
		s.logger.Debug(ctx, "directory not empty, skipping seed", logger.Int("profiles", counts.Profiles))
		return false, nil
	}

	var fx seedFixture
	if err := yaml.Unmarshal(seedYAML, &fx); err != nil {
		return false, fmt.Errorf("seed: decode fixture: %w", err)
	}

	profileIDs := make(map[string]string, len(fx.Profiles))
	for _, sp := range fx.Profiles {
		p, err := s.CreateProfile(ctx, sp.create())
		if err != nil {
			return false, fmt.Errorf("seed profile %s: %w", sp.Key, err)
		}
		profileIDs[sp.Key] = p.ID
	}

	jobIDs := make(map[string]string, len(fx.Jobs))
	for _, sj := range fx.Jobs {
		owner, ok := profileIDs[sj.Owner]
		if !ok {
			return false, fmt.Errorf("seed job %s: unknown owner %q", sj.Key, sj.Owner)
		}
		j, err := s.CreateJob(ctx, sj.create(owner))
		if err != nil {
			return false, fmt.Errorf("seed job %s: %w", sj.Key, err)
		}
		jobIDs[sj.Key] = j.ID
	}

	for _, sa := range fx.Applications {
		in := model.ApplicationCreate{
			JobPostID:   jobIDs[sa.Job],
			ApplicantID: profileIDs[sa.Applicant],
			CoverLetter: optional(sa.CoverLetter),
		}
		if _, err := s.Apply(ctx, in.JobPostID, in); err != nil {
			return false, fmt.Errorf("seed application %s/%s: %w", sa.Job, sa.Applicant, err)
		}
	}

	s.logger.Info(ctx, "seeded directory",
		logger.Int("profiles", len(fx.Profiles)),
		logger.Int("jobs", len(fx.Jobs)),
		logger.Int("applications", len(fx.Applications)),
	)
	return true, nil
}
