// Package scope provides the per-sample execution context: an isolated
// key-value arena written by setup code, shared with the bound tool during
// the conversation, read by teardown code, and destroyed at sample end.
package scope

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

var errScopeDestroyed = errors.New("scope already destroyed")

// Scope is exclusively owned by the sample currently solving. It is not
// safe for concurrent use and never shared across samples or models.
type Scope struct {
	values    map[string]any
	destroyed bool
}

func New() *Scope {
	return &Scope{values: make(map[string]any)}
}

func (s *Scope) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Scope) Set(key string, value any) {
	s.values[key] = value
}

func (s *Scope) Delete(key string) {
	delete(s.values, key)
}

func (s *Scope) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the stored keys in sorted order for deterministic output
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Scope) Len() int {
	return len(s.values)
}

// Snapshot copies the current values for read-only use in an eval env
func (s *Scope) Snapshot() map[string]any {
	snap := make(map[string]any, len(s.values))
	for k, v := range s.values {
		snap[k] = v
	}
	return snap
}

// Destroy disposes the scope. Further Run calls fail.
func (s *Scope) Destroyed() bool {
	return s.destroyed
}

func (s *Scope) Destroy() {
	s.values = nil
	s.destroyed = true
}

// CodeError reports a setup/teardown program failure with its source line
type CodeError struct {
	Line int
	Expr string
	Err  error
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("code execution failed at line %d (%q): %v", e.Line, e.Expr, e.Err)
}

func (e *CodeError) Unwrap() error { return e.Err }
