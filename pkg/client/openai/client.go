// Package openai implements the model client for GPT models via the OpenAI
// chat completions API.
package openai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/fpt/go-toolbench/pkg/bench/domain"
	"github.com/fpt/go-toolbench/pkg/message"
)

const defaultMaxTokens = 8192

// OpenAICore holds the shared API client resources
type OpenAICore struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAICore(model string, maxTokens int) (*OpenAICore, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	// Custom base URL covers Azure OpenAI and compatible gateways
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)

	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAICore{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// OpenAIClient implements domain.ToolCallingLLM for GPT models
type OpenAIClient struct {
	*OpenAICore
	toolManager domain.ToolManager
}

func NewOpenAIClient(model string, maxTokens int) (domain.ToolCallingLLM, error) {
	core, err := NewOpenAICore(model, maxTokens)
	if err != nil {
		return nil, err
	}
	return &OpenAIClient{OpenAICore: core}, nil
}

func (c *OpenAIClient) SetToolManager(toolManager domain.ToolManager) {
	c.toolManager = toolManager
}

func (c *OpenAIClient) ModelID() string {
	return c.model
}

// Chat sends the conversation and returns either a plain assistant message
// or the first tool call the model requested
func (c *OpenAIClient) Chat(ctx context.Context, messages []message.Message) (message.Message, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            toOpenAIMessages(messages),
		Model:               shared.ChatModel(c.model),
		MaxCompletionTokens: openai.Int(int64(c.maxTokens)),
	}
	if c.toolManager != nil {
		if tools := toOpenAITools(c.toolManager.GetTools()); len(tools) > 0 {
			params.Tools = tools
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	choice := completion.Choices[0]
	if len(choice.Message.ToolCalls) > 0 {
		toolCall := choice.Message.ToolCalls[0]
		return message.NewToolCallMessageWithID(
			toolCall.ID,
			message.ToolName(toolCall.Function.Name),
			parseToolArguments(toolCall.Function.Arguments),
			time.Now(),
		), nil
	}

	return message.NewChatMessage(message.MessageTypeAssistant, choice.Message.Content), nil
}
