package domain

import (
	"context"
	"errors"

	"github.com/fpt/go-toolbench/pkg/message"
)

var ErrInvalidClientType = errors.New("invalid client type for tool calling")

// LLM represents the base language model interface for basic chat functionality
type LLM interface {
	// Chat sends the conversation so far to the model and returns its next turn
	Chat(ctx context.Context, messages []message.Message) (message.Message, error)
}

// ToolCallingLLM extends LLM with tool calling capabilities
type ToolCallingLLM interface {
	LLM

	// SetToolManager sets the tool manager whose tools are advertised on the next call
	SetToolManager(toolManager ToolManager)
}

// ModelIdentifier is an optional extension that clients can implement to
// return a stable identifier for the underlying model, used for result labeling.
type ModelIdentifier interface {
	ModelID() string
}
