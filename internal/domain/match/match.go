// Package match evaluates a filter.Spec against directory entities.
package match

import (
	"strings"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/filter"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

type evaluator func(attr model.Attribute, c filter.Constraint) bool

var evaluators = map[filter.Kind]evaluator{
	filter.KindExact:        exact,
	filter.KindSubstring:    substring,
	filter.KindSetIntersect: intersects,
}

// Matches reports whether entity satisfies every constraint in spec.
// Constraints of an unknown kind never match.
func Matches(entity model.Attributed, spec filter.Spec) bool {
	for _, c := range spec {
		eval, ok := evaluators[c.Kind]
		if !ok || !eval(entity.Attribute(c.Field), c) {
			return false
		}
	}
	return true
}

// Filter returns the items matching spec in their original order.
// The result is never nil.
func Filter[T model.Attributed](items []T, spec filter.Spec) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(it, spec) {
			out = append(out, it)
		}
	}
	return out
}

func exact(attr model.Attribute, c filter.Constraint) bool {
	return attr.Present && attr.Text == c.Value
}

func substring(attr model.Attribute, c filter.Constraint) bool {
	if !attr.Present || attr.Text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(attr.Text), strings.ToLower(c.Value))
}

func intersects(attr model.Attribute, c filter.Constraint) bool {
	if !attr.Present || len(attr.List) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(attr.List))
	for _, s := range attr.List {
		have[normalize(s)] = struct{}{}
	}
	for _, want := range c.Values {
		if _, ok := have[normalize(want)]; ok {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
