// Package dataset loads evaluation samples from a directory of YAML
// documents, one sample per file.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fpt/go-toolbench/pkg/bench"
)

// ValidationError reports a sample document that fails the field contract.
// Loading is fail-fast: the first invalid document aborts the whole load.
type ValidationError struct {
	File  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid sample %s: field '%s': %s", e.File, e.Field, e.Msg)
}

// Canonical field paths used in remapping and required-field lists
const (
	FieldID            = "id"
	FieldType          = "type"
	FieldToolName      = "tool.name"
	FieldToolAlias     = "tool.alias"
	FieldInputPrompt   = "input.prompt"
	FieldInputSetup    = "input.setup"
	FieldInputTeardown = "input.teardown"
	FieldTarget        = "target"
	FieldMetadata      = "metadata"
)

// DefaultRequired is the required-field list used when the configuration
// does not override it
var DefaultRequired = []string{
	FieldID,
	FieldToolName,
	FieldInputPrompt,
	FieldInputSetup,
	FieldInputTeardown,
	FieldTarget,
}

// Options controls how documents are read. FieldMap remaps a canonical field
// path to the key actually used in the documents, so datasets produced by
// other tooling load without rewriting.
type Options struct {
	FieldMap map[string]string
	Required []string
}

// Load reads every .yaml/.yml file under dir as one sample and returns the
// samples sorted by id. Ids must be unique across the dataset.
func Load(dir string, opts Options) ([]bench.Sample, error) {
	required := opts.Required
	if len(required) == 0 {
		required = DefaultRequired
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := strings.ToLower(info.Name())
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan dataset directory %s: %w", dir, err)
	}
	sort.Strings(files)

	samples := make([]bench.Sample, 0, len(files))
	seen := make(map[string]string, len(files))

	for _, file := range files {
		sample, err := loadSampleFile(file, opts.FieldMap, required)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[sample.ID]; dup {
			return nil, &ValidationError{
				File:  file,
				Field: FieldID,
				Msg:   fmt.Sprintf("duplicate id '%s' (already used by %s)", sample.ID, prev),
			}
		}
		seen[sample.ID] = file
		samples = append(samples, sample)
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].ID < samples[j].ID })
	return samples, nil
}

func loadSampleFile(file string, fieldMap map[string]string, required []string) (bench.Sample, error) {
	var sample bench.Sample

	data, err := os.ReadFile(file)
	if err != nil {
		return sample, fmt.Errorf("failed to read sample file %s: %w", file, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return sample, &ValidationError{File: file, Field: "", Msg: fmt.Sprintf("not valid YAML: %v", err)}
	}

	get := func(canonical string) (string, bool) {
		path := canonical
		if mapped, ok := fieldMap[canonical]; ok && mapped != "" {
			path = mapped
		}
		return lookupString(doc, path)
	}

	for _, field := range required {
		if v, ok := get(field); !ok || v == "" {
			return sample, &ValidationError{File: file, Field: field, Msg: "required field missing or empty"}
		}
	}

	sample.ID, _ = get(FieldID)
	sample.Type, _ = get(FieldType)
	sample.Tool.Factory, _ = get(FieldToolName)
	sample.Tool.Alias, _ = get(FieldToolAlias)
	sample.Input.Prompt, _ = get(FieldInputPrompt)
	sample.Input.Setup, _ = get(FieldInputSetup)
	sample.Input.Teardown, _ = get(FieldInputTeardown)
	sample.Target, _ = get(FieldTarget)

	metaPath := FieldMetadata
	if mapped, ok := fieldMap[FieldMetadata]; ok && mapped != "" {
		metaPath = mapped
	}
	if meta, ok := lookupMap(doc, metaPath); ok {
		sample.Metadata = meta
	}

	return sample, nil
}

// lookupString resolves a dotted path into nested maps and returns the leaf
// as a string
func lookupString(doc map[string]any, path string) (string, bool) {
	v, ok := lookup(doc, path)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", s), true
	}
}

func lookupMap(doc map[string]any, path string) (map[string]any, bool) {
	v, ok := lookup(doc, path)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func lookup(doc map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = doc
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
