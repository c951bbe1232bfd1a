package tool

import (
	"context"
	"strings"
	"testing"
)

func TestSolveCSP(t *testing.T) {
	ctx := context.Background()

	t.Run("SimpleInequality", func(t *testing.T) {
		out, err := solveCSP(ctx, `{"X":[1,2],"Y":[1,2]}`, `["X != Y"]`)
		if err != nil {
			t.Fatalf("solveCSP failed: %v", err)
		}
		if !strings.HasPrefix(out, "SOLUTION:") {
			t.Fatalf("Expected a solution, got:\n%s", out)
		}
	})

	t.Run("AllUnique", func(t *testing.T) {
		out, err := solveCSP(ctx,
			`{"A":[1,2,3],"B":[1,2,3],"C":[1,2,3]}`,
			`["AllUnique([A, B, C])"]`)
		if err != nil {
			t.Fatalf("solveCSP failed: %v", err)
		}
		if !strings.HasPrefix(out, "SOLUTION:") {
			t.Fatalf("Expected a solution, got:\n%s", out)
		}
		for _, name := range []string{"- A =", "- B =", "- C ="} {
			if !strings.Contains(out, name) {
				t.Errorf("Expected assignment for %q in:\n%s", name, out)
			}
		}
	})

	t.Run("EqualityPinsValue", func(t *testing.T) {
		out, err := solveCSP(ctx, `{"X":[1,2,3]}`, `["X = 2"]`)
		if err != nil {
			t.Fatalf("solveCSP failed: %v", err)
		}
		if !strings.Contains(out, "X = 2") {
			t.Errorf("Expected X pinned to 2, got:\n%s", out)
		}
	})

	t.Run("ArithmeticConstraint", func(t *testing.T) {
		out, err := solveCSP(ctx,
			`{"X":[1,2,3,4],"Y":[1,2,3,4]}`,
			`["2*X + Y = 10", "X < Y"]`)
		if err != nil {
			t.Fatalf("solveCSP failed: %v", err)
		}
		// Only X=3, Y=4 satisfies both
		if !strings.Contains(out, "X = 3") || !strings.Contains(out, "Y = 4") {
			t.Errorf("Expected X=3 Y=4, got:\n%s", out)
		}
	})

	t.Run("Ordering", func(t *testing.T) {
		out, err := solveCSP(ctx, `{"X":[1,2],"Y":[1,2]}`, `["X > Y"]`)
		if err != nil {
			t.Fatalf("solveCSP failed: %v", err)
		}
		if !strings.Contains(out, "X = 2") || !strings.Contains(out, "Y = 1") {
			t.Errorf("Expected X=2 Y=1, got:\n%s", out)
		}
	})

	t.Run("Unsatisfiable", func(t *testing.T) {
		out, err := solveCSP(ctx, `{"X":[1],"Y":[1]}`, `["X != Y"]`)
		if err != nil {
			t.Fatalf("solveCSP failed: %v", err)
		}
		if !strings.HasPrefix(out, "NO SOLUTION") {
			t.Errorf("Expected unsatisfiability report, got:\n%s", out)
		}
	})

	t.Run("BadVariablesJSON", func(t *testing.T) {
		if _, err := solveCSP(ctx, `not json`, `["X != Y"]`); err == nil {
			t.Error("Expected error for malformed variables JSON")
		}
	})

	t.Run("BadConstraintsJSON", func(t *testing.T) {
		if _, err := solveCSP(ctx, `{"X":[1]}`, `not json`); err == nil {
			t.Error("Expected error for malformed constraints JSON")
		}
	})

	t.Run("UnsupportedConstraint", func(t *testing.T) {
		if _, err := solveCSP(ctx, `{"X":[1]}`, `["X ~ 1"]`); err == nil {
			t.Error("Expected error for unsupported constraint format")
		}
	})
}

func TestParseConstraintOperatorSplit(t *testing.T) {
	// '!=' must not be split at its '=' character
	constraints, err := parseConstraint("X != Y")
	if err != nil {
		t.Fatalf("parseConstraint failed: %v", err)
	}
	if len(constraints) != 1 {
		t.Fatalf("Expected one constraint, got %d", len(constraints))
	}
	vars := constraints[0].Vars
	if len(vars) != 2 || vars[0] != "X" || vars[1] != "Y" {
		t.Errorf("Expected vars [X Y], got %v", vars)
	}
}

func TestExtractVariableNames(t *testing.T) {
	names := extractVariableNames("2*X + Y", "10")
	if len(names) != 2 || names[0] != "X" || names[1] != "Y" {
		t.Errorf("Expected [X Y], got %v", names)
	}
}
