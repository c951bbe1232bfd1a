package score

import "testing"

func TestNewScale(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		scale, err := NewScale("I", "P", "C")
		if err != nil {
			t.Fatalf("NewScale failed: %v", err)
		}
		if scale.Worst() != "I" || scale.Best() != "C" {
			t.Errorf("Expected worst=I best=C, got worst=%s best=%s", scale.Worst(), scale.Best())
		}
	})

	t.Run("TooFewLevels", func(t *testing.T) {
		if _, err := NewScale("I"); err == nil {
			t.Error("Expected error for single-level scale")
		}
	})

	t.Run("EmptyLevel", func(t *testing.T) {
		if _, err := NewScale("I", "", "C"); err == nil {
			t.Error("Expected error for empty level")
		}
	})

	t.Run("DuplicateLevel", func(t *testing.T) {
		if _, err := NewScale("I", "P", "I"); err == nil {
			t.Error("Expected error for duplicate level")
		}
	})
}

func TestScaleOrderingIsAuthoritative(t *testing.T) {
	// Deliberately not alphabetic: Z is the worst level here
	scale, err := NewScale("Z", "A", "M")
	if err != nil {
		t.Fatalf("NewScale failed: %v", err)
	}
	if scale.Worst() != "Z" {
		t.Errorf("Expected declared order to win over alphabetic, worst=%s", scale.Worst())
	}
	if scale.Index("M") != 2 {
		t.Errorf("Expected M at index 2, got %d", scale.Index("M"))
	}
}

func TestScaleIndexCaseInsensitive(t *testing.T) {
	scale, _ := NewScale("I", "P", "C")

	if scale.Index("c") != 2 {
		t.Errorf("Expected lowercase match at index 2, got %d", scale.Index("c"))
	}
	if scale.Index("X") != -1 {
		t.Errorf("Expected -1 for unknown level, got %d", scale.Index("X"))
	}

	canonical, ok := scale.Canonical("p")
	if !ok || canonical != "P" {
		t.Errorf("Expected canonical spelling P, got %s (ok=%v)", canonical, ok)
	}
}

func TestScaleString(t *testing.T) {
	scale, _ := NewScale("I", "P", "C")
	if got := scale.String(); got != "I < P < C" {
		t.Errorf("Expected 'I < P < C', got %q", got)
	}
}
