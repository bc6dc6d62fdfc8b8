// Package filter resolves raw query parameters into a typed match specification.
package filter

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

// Kind selects how a constraint is evaluated.
type Kind string

// Constraint kinds.
const (
	KindExact        Kind = "exact"
	KindSubstring    Kind = "substring"
	KindSetIntersect Kind = "set-intersect"
)

// Cardinality says whether a parameter takes one value or many.
type Cardinality int

// Cardinalities.
const (
	One Cardinality = iota
	Many
)

// Param describes one recognized query parameter.
type Param struct {
	Name        string
	Field       string
	Kind        Kind
	Cardinality Cardinality
}

// Schema lists the recognized parameters in evaluation order.
var Schema = []Param{
	{Name: "role", Field: model.FieldRole, Kind: KindExact, Cardinality: One},
	{Name: "location", Field: model.FieldLocation, Kind: KindSubstring, Cardinality: One},
	{Name: "skills", Field: model.FieldSkills, Kind: KindSetIntersect, Cardinality: Many},
	{Name: "work_style", Field: model.FieldWorkStyle, Kind: KindSubstring, Cardinality: One},
	{Name: "availability", Field: model.FieldAvailability, Kind: KindSubstring, Cardinality: One},
	{Name: "experience", Field: model.FieldExperience, Kind: KindSubstring, Cardinality: One},
}

// Constraint is one resolved field predicate. Value is used by single-valued
// kinds, Values by set-intersect.
type Constraint struct {
	Field  string
	Kind   Kind
	Value  string
	Values []string
}

// Spec is a conjunction of constraints. The empty Spec matches everything.
type Spec []Constraint

// Fields returns the constrained field names in order.
func (s Spec) Fields() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Field
	}
	return out
}

// Resolve turns raw query values into a Spec. Empty values impose no
// constraint, single-valued parameters keep their last occurrence and
// unknown parameters are ignored.
func Resolve(raw url.Values) (Spec, error) {
	spec := Spec{}
	for _, p := range Schema {
		values := raw[p.Name]
		for _, v := range values {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidFilter, p.Name)
			}
		}
		if len(values) == 0 {
			continue
		}

		switch p.Cardinality {
		case Many:
			tokens := Tokens(values)
			if len(tokens) == 0 {
				continue
			}
			spec = append(spec, Constraint{Field: p.Field, Kind: p.Kind, Values: tokens})
		default:
			last := strings.TrimSpace(values[len(values)-1])
			if last == "" {
				continue
			}
			spec = append(spec, Constraint{Field: p.Field, Kind: p.Kind, Value: last})
		}
	}
	return spec, nil
}

// Tokens flattens repeated and comma-joined values into trimmed, non-empty
// tokens in input order. Duplicates are kept.
func Tokens(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
