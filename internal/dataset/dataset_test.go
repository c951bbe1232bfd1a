package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSample(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write sample file: %v", err)
	}
}

const validSample = `id: probe-1
type: retrieval
tool:
  name: context_probe
input:
  prompt: What city is stored?
  setup: set("city", "Osaka")
  teardown: del("city")
target: The stored city is Osaka.
metadata:
  difficulty: easy
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "b.yaml", validSample)
	writeSample(t, dir, "a.yml", `id: probe-0
tool:
  name: calculator
  alias: math_helper
input:
  prompt: Compute it.
  setup: set("rate", 2)
  teardown: del("rate")
target: The result is 4.
`)

	samples, err := Load(dir, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(samples))
	}

	// Sorted by id
	if samples[0].ID != "probe-0" || samples[1].ID != "probe-1" {
		t.Errorf("Expected id order [probe-0 probe-1], got [%s %s]", samples[0].ID, samples[1].ID)
	}

	first := samples[0]
	if first.Tool.Factory != "calculator" || first.Tool.Alias != "math_helper" {
		t.Errorf("Expected tool calculator/math_helper, got %+v", first.Tool)
	}

	second := samples[1]
	if second.Type != "retrieval" {
		t.Errorf("Expected type retrieval, got %s", second.Type)
	}
	if second.Input.Setup == "" || second.Input.Teardown == "" {
		t.Errorf("Expected setup and teardown loaded, got %+v", second.Input)
	}
	if second.Metadata["difficulty"] != "easy" {
		t.Errorf("Expected metadata difficulty=easy, got %v", second.Metadata)
	}
}

func TestLoadMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "bad.yaml", `id: probe-1
tool:
  name: context_probe
input:
  prompt: What city is stored?
  setup: set("city", "Osaka")
target: The stored city is Osaka.
`)

	_, err := Load(dir, Options{})
	if err == nil {
		t.Fatal("Expected error for missing teardown")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if valErr.Field != FieldInputTeardown {
		t.Errorf("Expected failing field %s, got %s", FieldInputTeardown, valErr.Field)
	}
}

func TestLoadDuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.yaml", validSample)
	writeSample(t, dir, "b.yaml", validSample)

	_, err := Load(dir, Options{})
	if err == nil {
		t.Fatal("Expected error for duplicate id")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if valErr.Field != FieldID {
		t.Errorf("Expected failing field id, got %s", valErr.Field)
	}
}

func TestLoadFieldRemap(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "legacy.yaml", `case_id: legacy-1
tool:
  name: context_probe
prompt: What city is stored?
prepare: set("city", "Osaka")
cleanup: del("city")
expected: The stored city is Osaka.
`)

	samples, err := Load(dir, Options{
		FieldMap: map[string]string{
			FieldID:            "case_id",
			FieldInputPrompt:   "prompt",
			FieldInputSetup:    "prepare",
			FieldInputTeardown: "cleanup",
			FieldTarget:        "expected",
		},
	})
	if err != nil {
		t.Fatalf("Load with field map failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(samples))
	}
	s := samples[0]
	if s.ID != "legacy-1" || s.Target != "The stored city is Osaka." {
		t.Errorf("Expected remapped fields, got %+v", s)
	}
	if s.Input.Setup != `set("city", "Osaka")` {
		t.Errorf("Expected remapped setup, got %q", s.Input.Setup)
	}
}

func TestLoadCustomRequiredList(t *testing.T) {
	dir := t.TempDir()
	// No setup/teardown, allowed by the narrowed required list
	writeSample(t, dir, "minimal.yaml", `id: min-1
tool:
  name: context_probe
input:
  prompt: Answer directly.
target: Fine.
`)

	samples, err := Load(dir, Options{
		Required: []string{FieldID, FieldToolName, FieldInputPrompt, FieldTarget},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 1 || samples[0].ID != "min-1" {
		t.Errorf("Expected minimal sample to load, got %+v", samples)
	}
}

func TestLoadIgnoresNonYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.yaml", validSample)
	writeSample(t, dir, "README.md", "# not a sample")

	samples, err := Load(dir, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("Expected only the YAML file to load, got %d samples", len(samples))
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "broken.yaml", "id: [unclosed")

	_, err := Load(dir, Options{})
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
}
