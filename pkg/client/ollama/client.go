// Package ollama implements the model client for locally served models via
// the Ollama API.
package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/fpt/go-toolbench/pkg/bench/domain"
	"github.com/fpt/go-toolbench/pkg/message"
)

const defaultMaxTokens = 4096

// OllamaCore holds the shared API client resources
type OllamaCore struct {
	client    *api.Client
	model     string
	maxTokens int
}

func NewOllamaCore(model string, maxTokens int) (*OllamaCore, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OllamaCore{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// OllamaClient implements domain.ToolCallingLLM for Ollama served models
type OllamaClient struct {
	*OllamaCore
	toolManager domain.ToolManager
}

func NewOllamaClient(model string, maxTokens int) (domain.ToolCallingLLM, error) {
	core, err := NewOllamaCore(model, maxTokens)
	if err != nil {
		return nil, err
	}
	return &OllamaClient{OllamaCore: core}, nil
}

func (c *OllamaClient) SetToolManager(toolManager domain.ToolManager) {
	c.toolManager = toolManager
}

func (c *OllamaClient) ModelID() string {
	return c.model
}

// Chat sends the conversation and returns either a plain assistant message
// or the first tool call the model requested. Responses stream from the
// server; streaming stops as soon as a tool call arrives.
func (c *OllamaClient) Chat(ctx context.Context, messages []message.Message) (message.Message, error) {
	chatRequest := &api.ChatRequest{
		Model:    c.model,
		Messages: toOllamaMessages(messages),
		Options: map[string]any{
			"temperature": 0.1,
			"num_predict": c.maxTokens,
		},
	}

	if c.toolManager != nil {
		if tools := toOllamaTools(c.toolManager.GetTools()); len(tools) > 0 {
			chatRequest.Tools = tools
		}
	}

	var content strings.Builder
	var toolCalls []api.ToolCall
	done := make(chan struct{})

	err := c.client.Chat(ctx, chatRequest, func(resp api.ChatResponse) error {
		select {
		case <-done:
			return fmt.Errorf("streaming cancelled")
		default:
		}

		content.WriteString(resp.Message.Content)
		toolCalls = append(toolCalls, resp.Message.ToolCalls...)
		if len(resp.Message.ToolCalls) > 0 {
			close(done)
		}
		return nil
	})
	if err != nil && !strings.Contains(err.Error(), "streaming cancelled") {
		return nil, fmt.Errorf("ollama chat error: %w", err)
	}

	if len(toolCalls) > 0 {
		call := toolCalls[0]
		return message.NewToolCallMessage(
			message.ToolName(call.Function.Name),
			message.ToolArgumentValues(call.Function.Arguments),
		), nil
	}

	return message.NewChatMessage(message.MessageTypeAssistant, content.String()), nil
}
