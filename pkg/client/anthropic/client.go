// Package anthropic implements the model client for Claude models via the
// Anthropic API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/fpt/go-toolbench/pkg/bench/domain"
	"github.com/fpt/go-toolbench/pkg/message"
)

const defaultMaxTokens = 8192

// AnthropicCore holds the shared API client resources
type AnthropicCore struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewAnthropicCore(model string, maxTokens int) (*AnthropicCore, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicCore{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// AnthropicClient implements domain.ToolCallingLLM for Claude models
type AnthropicClient struct {
	*AnthropicCore
	toolManager domain.ToolManager
}

func NewAnthropicClient(model string, maxTokens int) (domain.ToolCallingLLM, error) {
	core, err := NewAnthropicCore(model, maxTokens)
	if err != nil {
		return nil, err
	}
	return &AnthropicClient{AnthropicCore: core}, nil
}

func (c *AnthropicClient) SetToolManager(toolManager domain.ToolManager) {
	c.toolManager = toolManager
}

func (c *AnthropicClient) ModelID() string {
	return c.model
}

// Chat sends the conversation and returns either a plain assistant message
// or the first tool call the model requested
func (c *AnthropicClient) Chat(ctx context.Context, messages []message.Message) (message.Message, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages:  toAnthropicMessages(messages),
	}
	if system := systemText(messages); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if c.toolManager != nil {
		params.Tools = toAnthropicTools(c.toolManager.GetTools())
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}
	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("no content in Anthropic response")
	}

	var content string
	for _, contentBlock := range msg.Content {
		switch variant := contentBlock.AsAny().(type) {
		case anthropic.TextBlock:
			content += variant.Text
		case anthropic.ToolUseBlock:
			toolArgs := make(map[string]any)
			if variant.Input != nil {
				if err := json.Unmarshal(variant.Input, &toolArgs); err != nil {
					return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
				}
			}
			return message.NewToolCallMessageWithID(
				variant.ID,
				message.ToolName(variant.Name),
				message.ToolArgumentValues(toolArgs),
				time.Now(),
			), nil
		}
	}

	return message.NewChatMessage(message.MessageTypeAssistant, content), nil
}
