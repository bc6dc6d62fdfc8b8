package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringList decodes either a JSON array of strings or a single
// comma-joined string.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected an array of strings or a comma separated string")
	}
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

// ProfileCreate is the payload for creating a profile.
type ProfileCreate struct {
	Name                string            `json:"name" validate:"required,notblank"`
	Email               *string           `json:"email" validate:"omitempty,email"`
	Role                Role              `json:"role" validate:"required,role"`
	Skills              StringList        `json:"skills"`
	Location            *string           `json:"location"`
	TimeZone            *string           `json:"time_zone"`
	Availability        *string           `json:"availability"`
	Headline            *string           `json:"headline"`
	Bio                 *string           `json:"bio"`
	Experience          *string           `json:"experience"`
	Startups            *string           `json:"startups"`
	ResumeURL           *string           `json:"resume_url"`
	ProfilePhoto        *string           `json:"profile_photo"`
	Portfolio           StringList        `json:"portfolio"`
	LookingForCofounder bool              `json:"looking_for_cofounder"`
	Preferences         map[string]string `json:"preferences"`
}

// Profile builds a profile with defaults applied. Identity fields are left
// for the store layer.
func (c ProfileCreate) Profile() Profile {
	skills := []string(c.Skills)
	if skills == nil {
		skills = []string{}
	}
	portfolio := []string(c.Portfolio)
	if portfolio == nil {
		portfolio = []string{}
	}
	return Profile{
		Name:                c.Name,
		Email:               c.Email,
		Role:                c.Role,
		Skills:              skills,
		Location:            c.Location,
		TimeZone:            c.TimeZone,
		Availability:        c.Availability,
		Headline:            c.Headline,
		Bio:                 c.Bio,
		Experience:          c.Experience,
		Startups:            c.Startups,
		ResumeURL:           c.ResumeURL,
		ProfilePhoto:        c.ProfilePhoto,
		Portfolio:           portfolio,
		LookingForCofounder: c.LookingForCofounder,
		Preferences:         c.Preferences,
	}
}

// JobPostCreate is the payload for publishing a job.
type JobPostCreate struct {
	Title        string     `json:"title" validate:"required,notblank"`
	Role         Role       `json:"role" validate:"required,role"`
	OwnerID      string     `json:"owner_id" validate:"required"`
	Skills       StringList `json:"skills"`
	Location     *string    `json:"location"`
	TimeZone     *string    `json:"time_zone"`
	WorkStyle    *string    `json:"work_style"`
	Availability *string    `json:"availability"`
	Timeline     *string    `json:"timeline"`
	Compensation *string    `json:"compensation"`
	Headline     *string    `json:"headline"`
	Description  *string    `json:"description"`
}

// JobPost builds a job post with defaults applied.
func (c JobPostCreate) JobPost() JobPost {
	skills := []string(c.Skills)
	if skills == nil {
		skills = []string{}
	}
	return JobPost{
		Title:        c.Title,
		Role:         c.Role,
		OwnerID:      c.OwnerID,
		Skills:       skills,
		Location:     c.Location,
		TimeZone:     c.TimeZone,
		WorkStyle:    c.WorkStyle,
		Availability: c.Availability,
		Timeline:     c.Timeline,
		Compensation: c.Compensation,
		Headline:     c.Headline,
		Description:  c.Description,
	}
}

// ApplicationCreate is the payload for applying to a job.
type ApplicationCreate struct {
	JobPostID   string  `json:"job_post_id" validate:"required"`
	ApplicantID string  `json:"applicant_id" validate:"required"`
	CoverLetter *string `json:"cover_letter"`
}
