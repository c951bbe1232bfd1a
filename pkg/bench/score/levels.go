// Package score gates solved samples by tool-call success and grades the
// eligible ones through a judge model, fanning requests out concurrently.
package score

import (
	"fmt"
	"strings"
)

// Level is one grade category, e.g. "I" or "C"
type Level string

// Scale is the caller-declared grade ordering, worst first. The ordering is
// authoritative; nothing in this package falls back to alphabetic order.
type Scale []Level

// NewScale validates a worst-to-best level ordering
func NewScale(levels ...Level) (Scale, error) {
	if len(levels) < 2 {
		return nil, fmt.Errorf("grade scale needs at least two levels, got %d", len(levels))
	}
	seen := make(map[Level]bool, len(levels))
	for _, l := range levels {
		if l == "" {
			return nil, fmt.Errorf("grade scale contains an empty level")
		}
		if seen[l] {
			return nil, fmt.Errorf("grade scale contains duplicate level '%s'", l)
		}
		seen[l] = true
	}
	return Scale(levels), nil
}

func (s Scale) Worst() Level { return s[0] }
func (s Scale) Best() Level  { return s[len(s)-1] }

// Index returns the position of a level in the scale, or -1 when absent.
// Matching is case-insensitive since judges are inconsistent about casing.
func (s Scale) Index(l Level) int {
	for i, candidate := range s {
		if strings.EqualFold(string(candidate), string(l)) {
			return i
		}
	}
	return -1
}

func (s Scale) Contains(l Level) bool { return s.Index(l) >= 0 }

// Canonical returns the scale's own spelling of a level
func (s Scale) Canonical(l Level) (Level, bool) {
	i := s.Index(l)
	if i < 0 {
		return "", false
	}
	return s[i], true
}

func (s Scale) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = string(l)
	}
	return strings.Join(parts, " < ")
}
