package service

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/chargemap/internal/station"
)

// UnknownValueError reports a filter value that matches no option.
type UnknownValueError struct {
	Dimension  station.Dimension
	Value      string
	Suggestion string
}

func (e *UnknownValueError) Error() string {
	msg := fmt.Sprintf("unknown %s %q", strings.ToLower(e.Dimension.Label()), e.Value)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Resolve maps user-typed values onto the known options of d. An exact match
// wins, then a case-insensitive one. Duplicates are collapsed; input order is
// kept.
func Resolve(d station.Dimension, inputs, options []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		match, ok := lookupOption(in, options)
		if !ok {
			return nil, &UnknownValueError{Dimension: d, Value: in, Suggestion: Suggest(in, options)}
		}
		if !seen[match] {
			seen[match] = true
			out = append(out, match)
		}
	}
	return out, nil
}

func lookupOption(in string, options []string) (string, bool) {
	for _, o := range options {
		if o == in {
			return o, true
		}
	}
	for _, o := range options {
		if strings.EqualFold(o, in) {
			return o, true
		}
	}
	return "", false
}

// Suggest returns the option closest to in by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func Suggest(in string, options []string) string {
	needle := strings.ToLower(in)
	best, bestDist := "", -1
	for _, o := range options {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(o))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = o, dist
		}
	}
	limit := len([]rune(in))/3 + 1
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
