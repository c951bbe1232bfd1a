// Package client constructs model clients by backend name.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fpt/go-toolbench/pkg/bench/domain"
	"github.com/fpt/go-toolbench/pkg/client/anthropic"
	"github.com/fpt/go-toolbench/pkg/client/gemini"
	"github.com/fpt/go-toolbench/pkg/client/ollama"
	"github.com/fpt/go-toolbench/pkg/client/openai"
)

// NewClient builds a tool-calling client for the given backend. Supported
// backends: "anthropic", "openai", "gemini", "ollama".
func NewClient(ctx context.Context, backend, model string, maxTokens int) (domain.ToolCallingLLM, error) {
	switch strings.ToLower(backend) {
	case "anthropic":
		return anthropic.NewAnthropicClient(model, maxTokens)
	case "openai":
		return openai.NewOpenAIClient(model, maxTokens)
	case "gemini":
		return gemini.NewGeminiClient(ctx, model, maxTokens)
	case "ollama":
		return ollama.NewOllamaClient(model, maxTokens)
	default:
		return nil, fmt.Errorf("unsupported backend '%s' (want anthropic, openai, gemini, or ollama)", backend)
	}
}
