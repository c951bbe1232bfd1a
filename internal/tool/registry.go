// Package tool provides the factory registry that resolves a sample's tool
// reference into a concrete tool bound to the sample's scope, plus the
// builtin tool factories shipped with the harness.
package tool

import (
	"fmt"
	"sort"

	"github.com/fpt/go-toolbench/pkg/bench"
	"github.com/fpt/go-toolbench/pkg/bench/scope"
	pkgLogger "github.com/fpt/go-toolbench/pkg/logger"
	"github.com/fpt/go-toolbench/pkg/message"
)

// Constructor builds a tool instance bound to the given scope, exposed under
// the given display name.
type Constructor func(sc *scope.Scope, name message.ToolName) message.Tool

// ResolutionError reports a tool reference that no registered factory serves
type ResolutionError struct {
	Factory string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no tool factory registered for '%s'", e.Factory)
}

type entry struct {
	construct Constructor
	aliasable bool
}

// Registry maps factory names to tool constructors. Factories registered as
// non-aliasable keep their canonical name even when a sample requests an
// alias; the mismatch is logged, not fatal.
type Registry struct {
	factories map[string]entry
	logger    *pkgLogger.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]entry),
		logger:    pkgLogger.NewComponentLogger("tool-registry"),
	}
}

// Register adds a factory under its canonical name. Re-registering a name
// replaces the previous constructor.
func (r *Registry) Register(factory string, aliasable bool, construct Constructor) {
	r.factories[factory] = entry{construct: construct, aliasable: aliasable}
}

// Factories returns the registered factory names in sorted order
func (r *Registry) Factories() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the tool a sample references, bound to the sample's scope.
// When the sample requests an alias the tool is exposed under that name if
// the factory supports renaming; otherwise the canonical name is kept and a
// warning is logged.
func (r *Registry) Resolve(spec bench.ToolSpec, sc *scope.Scope) (message.Tool, error) {
	ent, ok := r.factories[spec.Factory]
	if !ok {
		return nil, &ResolutionError{Factory: spec.Factory}
	}

	name := message.ToolName(spec.Factory)
	if spec.Alias != "" {
		if ent.aliasable {
			name = message.ToolName(spec.Alias)
		} else {
			r.logger.Warn("Tool factory does not support aliasing, keeping canonical name",
				"factory", spec.Factory, "alias", spec.Alias)
		}
	}

	return ent.construct(sc, name), nil
}
