package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/fpt/go-toolbench/pkg/bench/scope"
	"github.com/fpt/go-toolbench/pkg/message"
	"github.com/gnboorse/centipede"
)

const cspSolveTimeout = 30 * time.Second

// newCSPSolver builds the constraint solver tool on the centipede library.
// The factory is registered non-aliasable: the canonical name is baked into
// judge instructions for reasoning datasets, so samples cannot rename it.
func newCSPSolver(_ *scope.Scope, name message.ToolName) message.Tool {
	return newDefinition(name,
		"Solve a constraint satisfaction problem with backtracking search. Supply variable domains and constraints; returns an assignment or reports unsatisfiability.",
		[]message.ToolArgument{
			{Name: "variables", Description: "JSON object mapping variable names to integer domains, e.g. '{\"X\":[1,2,3],\"Y\":[1,2,3]}'", Required: true, Type: "string"},
			{Name: "constraints", Description: "JSON array of constraints: 'X != Y', 'X < Y', 'X = 3', 'AllUnique([X,Y,Z])', or arithmetic like '2*X + Y = 10'", Required: true, Type: "string"},
		},
		func(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
			variablesJSON, ok := args.String("variables")
			if !ok {
				return message.NewToolResultError("variables parameter is required and must be a string"), nil
			}
			constraintsJSON, ok := args.String("constraints")
			if !ok {
				return message.NewToolResultError("constraints parameter is required and must be a string"), nil
			}

			ctx, cancel := context.WithTimeout(ctx, cspSolveTimeout)
			defer cancel()

			out, err := solveCSP(ctx, variablesJSON, constraintsJSON)
			if err != nil {
				return message.NewToolResultError(fmt.Sprintf("failed to solve CSP: %v", err)), nil
			}
			return message.NewToolResultText(out), nil
		})
}

func solveCSP(ctx context.Context, variablesJSON, constraintsJSON string) (string, error) {
	var domains map[string][]int
	if err := json.Unmarshal([]byte(variablesJSON), &domains); err != nil {
		return "", fmt.Errorf("failed to parse variables JSON: %v", err)
	}
	var constraintStrs []string
	if err := json.Unmarshal([]byte(constraintsJSON), &constraintStrs); err != nil {
		return "", fmt.Errorf("failed to parse constraints JSON: %v", err)
	}

	// Sorted variable order keeps the search deterministic
	names := make([]string, 0, len(domains))
	for name := range domains {
		names = append(names, name)
	}
	sort.Strings(names)

	var variables centipede.Variables[int]
	for _, name := range names {
		variables = append(variables, centipede.NewVariable(centipede.VariableName(name), centipede.Domain[int](domains[name])))
	}

	var constraints centipede.Constraints[int]
	for _, s := range constraintStrs {
		c, err := parseConstraint(strings.TrimSpace(s))
		if err != nil {
			return "", fmt.Errorf("failed to parse constraint '%s': %v", s, err)
		}
		constraints = append(constraints, c...)
	}

	solver := centipede.NewBackTrackingCSPSolver(variables, constraints)

	// centipede panics on some unsatisfiable inputs; treat that as no solution
	solved, err := func() (solved bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				solved = false
				err = nil
			}
		}()
		return solver.Solve(ctx)
	}()
	if err != nil {
		return "", err
	}

	if !solved {
		return "NO SOLUTION: the constraints are unsatisfiable over the given domains.", nil
	}

	var b strings.Builder
	b.WriteString("SOLUTION:\n")
	for _, v := range solver.State.Vars {
		if v.Empty {
			fmt.Fprintf(&b, "- %s = UNASSIGNED\n", v.Name)
		} else {
			fmt.Fprintf(&b, "- %s = %v\n", v.Name, v.Value)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func parseConstraint(s string) (centipede.Constraints[int], error) {
	if strings.HasPrefix(s, "AllUnique(") && strings.HasSuffix(s, ")") {
		inner := strings.Trim(s[len("AllUnique("):len(s)-1], "[]")
		var vars []centipede.VariableName
		for _, name := range strings.Split(inner, ",") {
			vars = append(vars, centipede.VariableName(strings.TrimSpace(name)))
		}
		return centipede.AllUnique[int](vars...), nil
	}

	// Longer operators first so '!=' is not split at '='
	for _, op := range []string{"!=", "<=", ">=", "=", "<", ">"} {
		idx := strings.Index(s, op)
		if idx < 0 {
			continue
		}
		left := strings.TrimSpace(s[:idx])
		right := strings.TrimSpace(s[idx+len(op):])
		if left == "" || right == "" {
			continue
		}
		return centipede.Constraints[int]{compareConstraint(left, op, right)}, nil
	}

	return nil, fmt.Errorf("unsupported constraint format: %s", s)
}

// compareConstraint evaluates both sides as arithmetic expressions over the
// assigned variables and compares them. centipede's built-in ordering
// constraints misbehave under arc consistency, so a custom constraint
// function covers every operator uniformly.
func compareConstraint(left, op, right string) centipede.Constraint[int] {
	vars := extractVariableNames(left, right)
	return centipede.Constraint[int]{
		Vars: vars,
		ConstraintFunction: func(variables *centipede.Variables[int]) bool {
			env := make(map[string]any, len(vars))
			for _, name := range vars {
				v := variables.Find(name)
				if v.Empty {
					// Unassigned variables never fail a constraint
					return true
				}
				env[string(name)] = v.Value
			}

			lv, err := evalIntExpr(left, env)
			if err != nil {
				return false
			}
			rv, err := evalIntExpr(right, env)
			if err != nil {
				return false
			}

			switch op {
			case "=":
				return lv == rv
			case "!=":
				return lv != rv
			case "<":
				return lv < rv
			case "<=":
				return lv <= rv
			case ">":
				return lv > rv
			case ">=":
				return lv >= rv
			}
			return false
		},
	}
}

func extractVariableNames(expressions ...string) centipede.VariableNames {
	seen := make(map[string]bool)
	var names centipede.VariableNames
	for _, e := range expressions {
		words := strings.FieldsFunc(e, func(c rune) bool {
			return strings.ContainsRune("+-*/() ", c)
		})
		for _, w := range words {
			if w == "" || seen[w] {
				continue
			}
			if _, err := strconv.Atoi(w); err == nil {
				continue
			}
			seen[w] = true
			names = append(names, centipede.VariableName(w))
		}
	}
	return names
}

func evalIntExpr(expression string, env map[string]any) (int, error) {
	if v, err := strconv.Atoi(expression); err == nil {
		return v, nil
	}
	result, err := expr.Eval(expression, env)
	if err != nil {
		return 0, err
	}
	switch v := result.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("expression result is not a number: %v", result)
}
