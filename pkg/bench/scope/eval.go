package scope

import (
	"strings"

	"github.com/expr-lang/expr"
)

// Run evaluates a setup/teardown program against the scope. The program is a
// sequence of newline-separated expressions; each line is evaluated in order
// with `set`, `get`, `del`, and `has` bound to the scope alongside the
// current values. Blank lines and `#` comments are skipped. The first
// failing line aborts with a CodeError carrying the line number.
//
// This is a restricted evaluator, not a sandboxed interpreter: expressions
// cannot perform I/O or reach process state, which is what keeps the scope
// boundary honest.
func (s *Scope) Run(program string) error {
	if s.destroyed {
		return &CodeError{Line: 0, Expr: "", Err: errScopeDestroyed}
	}

	for i, line := range strings.Split(program, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Rebuild the env each line so keys set earlier are visible
		if _, err := expr.Eval(trimmed, s.evalEnv()); err != nil {
			return &CodeError{Line: i + 1, Expr: trimmed, Err: err}
		}
	}
	return nil
}

// Eval evaluates a single expression against the current values without the
// mutating helpers. Used by tools that compute over the scope.
func (s *Scope) Eval(expression string) (any, error) {
	if s.destroyed {
		return nil, errScopeDestroyed
	}
	return expr.Eval(expression, s.Snapshot())
}

func (s *Scope) evalEnv() map[string]any {
	env := s.Snapshot()
	env["set"] = func(key string, value any) any {
		s.Set(key, value)
		return value
	}
	env["get"] = func(key string) any {
		v, _ := s.Get(key)
		return v
	}
	env["del"] = func(key string) bool {
		ok := s.Has(key)
		s.Delete(key)
		return ok
	}
	env["has"] = func(key string) bool {
		return s.Has(key)
	}
	return env
}
