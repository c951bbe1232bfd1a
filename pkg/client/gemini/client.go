// Package gemini implements the model client for Gemini models via the
// Google GenAI API.
package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/fpt/go-toolbench/pkg/bench/domain"
	"github.com/fpt/go-toolbench/pkg/message"
)

const defaultMaxTokens = 8192

// GeminiCore holds the shared API client resources
type GeminiCore struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGeminiCore(ctx context.Context, model string, maxTokens int) (*GeminiCore, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &GeminiCore{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// GeminiClient implements domain.ToolCallingLLM for Gemini models
type GeminiClient struct {
	*GeminiCore
	toolManager domain.ToolManager
}

func NewGeminiClient(ctx context.Context, model string, maxTokens int) (domain.ToolCallingLLM, error) {
	core, err := NewGeminiCore(ctx, model, maxTokens)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{GeminiCore: core}, nil
}

func (c *GeminiClient) SetToolManager(toolManager domain.ToolManager) {
	c.toolManager = toolManager
}

func (c *GeminiClient) ModelID() string {
	return c.model
}

// Chat sends the conversation and returns either a plain assistant message
// or the first function call the model requested
func (c *GeminiClient) Chat(ctx context.Context, messages []message.Message) (message.Message, error) {
	contents, systemInstruction := toGeminiContents(messages)

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(c.maxTokens),
	}
	if systemInstruction != nil {
		config.SystemInstruction = systemInstruction
	}
	if c.toolManager != nil {
		if tools := toGeminiTools(c.toolManager.GetTools()); len(tools) > 0 {
			config.Tools = tools
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from Gemini")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			call := part.FunctionCall
			return message.NewToolCallMessage(
				message.ToolName(call.Name),
				message.ToolArgumentValues(call.Args),
			), nil
		}
		text += part.Text
	}

	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}
	return message.NewChatMessage(message.MessageTypeAssistant, text), nil
}
