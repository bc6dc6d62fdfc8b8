// Package patch merges sparse update documents into profiles.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

// Patch holds only the keys a client supplied, with their raw JSON values.
type Patch map[string]json.RawMessage

// Parse decodes a JSON object into a Patch.
func Parse(doc []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if p == nil {
		p = Patch{}
	}
	return p, nil
}

var immutable = []string{"id", "created_at", "version"}

// CheckImmutable fails when p names a field clients cannot change.
func CheckImmutable(p Patch) error {
	var hit []string
	for _, k := range immutable {
		if _, ok := p[k]; ok {
			hit = append(hit, k)
		}
	}
	if len(hit) > 0 {
		return fmt.Errorf("%w: %s", ErrImmutableField, strings.Join(hit, ", "))
	}
	return nil
}

type setter func(p *model.Profile, raw json.RawMessage) error

func text(field func(*model.Profile) **string) setter {
	return func(p *model.Profile, raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*field(p) = &s
		return nil
	}
}

func list(field func(*model.Profile) *[]string) setter {
	return func(p *model.Profile, raw json.RawMessage) error {
		var l model.StringList
		if err := json.Unmarshal(raw, &l); err != nil {
			return err
		}
		out := []string(l)
		if out == nil {
			out = []string{}
		}
		*field(p) = out
		return nil
	}
}

var setters = map[string]setter{
	"name": func(p *model.Profile, raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return errEmptyName
		}
		p.Name = s
		return nil
	},
	"role": func(p *model.Profile, raw json.RawMessage) error {
		var r model.Role
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		if !r.Valid() {
			return fmt.Errorf("%q is not a known role", r)
		}
		p.Role = r
		return nil
	},
	"looking_for_cofounder": func(p *model.Profile, raw json.RawMessage) error {
		return json.Unmarshal(raw, &p.LookingForCofounder)
	},
	"preferences": func(p *model.Profile, raw json.RawMessage) error {
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
		p.Preferences = m
		return nil
	},
	"email":         text(func(p *model.Profile) **string { return &p.Email }),
	"location":      text(func(p *model.Profile) **string { return &p.Location }),
	"time_zone":     text(func(p *model.Profile) **string { return &p.TimeZone }),
	"availability":  text(func(p *model.Profile) **string { return &p.Availability }),
	"headline":      text(func(p *model.Profile) **string { return &p.Headline }),
	"bio":           text(func(p *model.Profile) **string { return &p.Bio }),
	"experience":    text(func(p *model.Profile) **string { return &p.Experience }),
	"startups":      text(func(p *model.Profile) **string { return &p.Startups }),
	"resume_url":    text(func(p *model.Profile) **string { return &p.ResumeURL }),
	"profile_photo": text(func(p *model.Profile) **string { return &p.ProfilePhoto }),
	"skills":        list(func(p *model.Profile) *[]string { return &p.Skills }),
	"portfolio":     list(func(p *model.Profile) *[]string { return &p.Portfolio }),
}

var (
	null         = []byte("null")
	errEmptyName = errors.New("must not be empty")
)

// Merge applies p to current and returns the merged profile. current is not
// modified. Present keys replace whole values, absent or null keys preserve
// them, and unknown keys are ignored. Merge never writes anywhere.
func Merge(current model.Profile, p Patch) (model.Profile, error) {
	if err := CheckImmutable(p); err != nil {
		return model.Profile{}, err
	}

	// Sorted so that error messages are stable.
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := current.Clone()
	for _, k := range keys {
		set, ok := setters[k]
		if !ok {
			continue
		}
		raw := bytes.TrimSpace(p[k])
		if len(raw) == 0 || bytes.Equal(raw, null) {
			continue
		}
		if err := set(&out, raw); err != nil {
			return model.Profile{}, fmt.Errorf("%w: %s: %w", ErrValidation, k, err)
		}
	}
	return out, nil
}
