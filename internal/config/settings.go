// Package config loads the harness settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	DefaultEpochs           = 1
	DefaultDelayMs          = 0
	DefaultJudgeConcurrency = 4
	DefaultJudgeTimeoutSecs = 120
)

// DefaultGradeLevels orders grades worst to best
var DefaultGradeLevels = []string{"I", "P", "C"}

// Settings is the top-level harness configuration
type Settings struct {
	Task         string          `json:"task"`
	Name         string          `json:"name,omitempty"`
	Epochs       int             `json:"epochs,omitempty"`
	SystemPrompt string          `json:"system_prompt,omitempty"`
	DelayMs      int             `json:"delay_ms,omitempty"`
	LogLevel     string          `json:"log_level,omitempty"`
	Models       []ModelSettings `json:"models"`
	Judge        JudgeSettings   `json:"judge"`
	Grades       []string        `json:"grades,omitempty"`
	Dataset      DatasetSettings `json:"dataset"`
}

// ModelSettings describes one model under evaluation
type ModelSettings struct {
	Name      string `json:"name"`                 // display name in the result table
	Backend   string `json:"backend"`              // "anthropic", "openai", "gemini", or "ollama"
	Model     string `json:"model"`                // backend model identifier
	MaxTokens int    `json:"max_tokens,omitempty"` // 0 = backend default
}

// JudgeSettings describes the grading model
type JudgeSettings struct {
	Backend      string `json:"backend"`
	Model        string `json:"model"`
	MaxTokens    int    `json:"max_tokens,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Concurrency  int    `json:"concurrency,omitempty"`
	TimeoutSecs  int    `json:"timeout_seconds,omitempty"`
}

// DatasetSettings describes where and how samples are loaded
type DatasetSettings struct {
	Dir      string            `json:"dir"`
	FieldMap map[string]string `json:"field_map,omitempty"`
	Required []string          `json:"required,omitempty"`
}

// DefaultJudgeInstructions is used when the settings file gives none
const DefaultJudgeInstructions = `You are grading whether a model's response matches an expected observation.
Compare the response against the expected observation on substance, not wording.`

// LoadSettings reads and validates a settings file
func LoadSettings(configPath string) (*Settings, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	applyDefaults(&settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func applyDefaults(settings *Settings) {
	if settings.Epochs <= 0 {
		settings.Epochs = DefaultEpochs
	}
	if settings.DelayMs < 0 {
		settings.DelayMs = DefaultDelayMs
	}
	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}
	if len(settings.Grades) == 0 {
		settings.Grades = DefaultGradeLevels
	}
	if settings.Judge.Instructions == "" {
		settings.Judge.Instructions = DefaultJudgeInstructions
	}
	if settings.Judge.Concurrency <= 0 {
		settings.Judge.Concurrency = DefaultJudgeConcurrency
	}
	if settings.Judge.TimeoutSecs <= 0 {
		settings.Judge.TimeoutSecs = DefaultJudgeTimeoutSecs
	}
}

// Validate checks the settings for contradictions before any model client
// is constructed
func (s *Settings) Validate() error {
	if s.Task == "" {
		return fmt.Errorf("settings: task name is required")
	}
	if len(s.Models) == 0 {
		return fmt.Errorf("settings: at least one model is required")
	}
	seen := make(map[string]bool, len(s.Models))
	for i, m := range s.Models {
		if m.Name == "" {
			return fmt.Errorf("settings: models[%d] has no name", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("settings: duplicate model name '%s'", m.Name)
		}
		seen[m.Name] = true
		if m.Backend == "" || m.Model == "" {
			return fmt.Errorf("settings: model '%s' needs both backend and model", m.Name)
		}
	}
	if s.Judge.Backend == "" || s.Judge.Model == "" {
		return fmt.Errorf("settings: judge needs both backend and model")
	}
	if s.Dataset.Dir == "" {
		return fmt.Errorf("settings: dataset dir is required")
	}
	if len(s.Grades) < 2 {
		return fmt.Errorf("settings: grades need at least two levels, worst first")
	}
	return nil
}
