package bench

import (
	"context"
	"fmt"

	"github.com/fpt/go-toolbench/pkg/bench/domain"
	pkgLogger "github.com/fpt/go-toolbench/pkg/logger"
	"github.com/fpt/go-toolbench/pkg/message"
)

// DefaultMaxTurns bounds the tool-call loop of a single Send
const DefaultMaxTurns = 10

// Handle drives one conversation against a model client. It owns the tools
// registered for the current sample and the optional system prompt, and
// produces a transcript per Send.
//
// A handle is cheap to clone; clones share the underlying client but carry
// their own tool set and system prompt, so one clone per sample keeps tool
// bindings isolated.
type Handle struct {
	llm          domain.ToolCallingLLM
	systemPrompt string
	tools        *toolSet
	maxTurns     int
	logger       *pkgLogger.Logger
}

// NewHandle wraps a tool-calling client in a conversation handle
func NewHandle(llm domain.ToolCallingLLM) *Handle {
	return &Handle{
		llm:      llm,
		tools:    newToolSet(),
		maxTurns: DefaultMaxTurns,
		logger:   pkgLogger.NewComponentLogger("handle"),
	}
}

// WithMaxTurns overrides the tool-call loop bound
func (h *Handle) WithMaxTurns(n int) *Handle {
	if n > 0 {
		h.maxTurns = n
	}
	return h
}

// Clone returns a handle sharing the client but with a fresh, empty tool set
// and the same system prompt
func (h *Handle) Clone() *Handle {
	return &Handle{
		llm:          h.llm,
		systemPrompt: h.systemPrompt,
		tools:        newToolSet(),
		maxTurns:     h.maxTurns,
		logger:       h.logger,
	}
}

// SetSystemPrompt attaches a system turn sent ahead of every prompt
func (h *Handle) SetSystemPrompt(text string) {
	h.systemPrompt = text
}

// RegisterTool exposes a bound tool to the model for subsequent Sends
func (h *Handle) RegisterTool(t message.Tool) {
	h.tools.add(t)
}

// ModelID reports the underlying client's model identifier when available
func (h *Handle) ModelID() string {
	if id, ok := h.llm.(domain.ModelIdentifier); ok {
		return id.ModelID()
	}
	return ""
}

// Send runs one turn-exchange: the prompt goes out, tool calls are executed
// synchronously as the model makes them, and the loop ends when the model
// produces a plain assistant turn. Tool execution failures are returned to
// the model as in-band error results rather than aborting the exchange.
func (h *Handle) Send(ctx context.Context, prompt string) (*message.Transcript, error) {
	transcript := message.NewTranscript()

	if h.systemPrompt != "" {
		transcript.Append(message.NewChatMessage(message.MessageTypeSystem, h.systemPrompt))
	}
	transcript.Append(message.NewChatMessage(message.MessageTypeUser, prompt))

	// Tool-free handles (the judge) skip this so concurrent Sends never
	// touch shared client state.
	if h.tools.len() > 0 {
		h.llm.SetToolManager(h.tools)
	}

	for range h.maxTurns {
		resp, err := h.llm.Chat(ctx, transcript.Turns)
		if err != nil {
			return transcript, fmt.Errorf("failed to get response from model client: %w", err)
		}

		switch resp := resp.(type) {
		case *message.ChatMessage:
			transcript.Append(resp)
			return transcript, nil

		case *message.ToolCallMessage:
			transcript.Append(resp)
			transcript.Append(h.executeToolCall(ctx, resp))

		default:
			return transcript, fmt.Errorf("unexpected response type: %T", resp)
		}
	}

	return transcript, fmt.Errorf("exceeded maximum turn limit (%d) without a final response", h.maxTurns)
}

// LastTurnText extracts the final assistant text from a transcript
func (h *Handle) LastTurnText(transcript *message.Transcript) string {
	if transcript == nil {
		return ""
	}
	return transcript.LastAssistantText()
}

func (h *Handle) executeToolCall(ctx context.Context, call *message.ToolCallMessage) *message.ToolResultMessage {
	h.logger.Debug("Running tool", "tool", call.ToolName(), "call_id", call.ID())

	result, err := h.tools.CallTool(ctx, call.ToolName(), call.ToolArguments())
	if err != nil {
		// Surface the failure to the model in-band; the model may recover
		return message.NewToolResultMessage(call.ID(), call.ToolName(), "", err.Error())
	}
	if result.Error != "" {
		return message.NewToolResultMessage(call.ID(), call.ToolName(), "", result.Error)
	}
	return message.NewToolResultMessage(call.ID(), call.ToolName(), result.Text, "")
}

// toolSet is the per-handle tool manager advertised to the model client
type toolSet struct {
	tools map[message.ToolName]message.Tool
}

func newToolSet() *toolSet {
	return &toolSet{tools: make(map[message.ToolName]message.Tool)}
}

func (s *toolSet) add(t message.Tool) {
	s.tools[t.Name()] = t
}

func (s *toolSet) len() int { return len(s.tools) }

func (s *toolSet) GetTool(name message.ToolName) (message.Tool, bool) {
	t, ok := s.tools[name]
	return t, ok
}

func (s *toolSet) GetTools() map[message.ToolName]message.Tool {
	return s.tools
}

func (s *toolSet) CallTool(ctx context.Context, name message.ToolName, args message.ToolArgumentValues) (message.ToolResult, error) {
	t, ok := s.tools[name]
	if !ok {
		return message.NewToolResultError(fmt.Sprintf("tool '%s' not found", name)), nil
	}
	return t.Handler()(ctx, args)
}
