package message

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the role of a conversation turn
type MessageType string

const (
	MessageTypeUser       MessageType = "user"
	MessageTypeAssistant  MessageType = "assistant"
	MessageTypeSystem     MessageType = "system"
	MessageTypeToolCall   MessageType = "tool_call"
	MessageTypeToolResult MessageType = "tool_result"
)

func (t MessageType) String() string {
	return string(t)
}

// Message represents a single turn in a model conversation
type Message interface {
	Type() MessageType
	Content() string
	Timestamp() time.Time
}

// ChatMessage is a plain text turn (user, assistant, or system)
type ChatMessage struct {
	msgType   MessageType
	content   string
	timestamp time.Time
}

func NewChatMessage(msgType MessageType, content string) *ChatMessage {
	return &ChatMessage{
		msgType:   msgType,
		content:   content,
		timestamp: time.Now(),
	}
}

func (m *ChatMessage) Type() MessageType    { return m.msgType }
func (m *ChatMessage) Content() string      { return m.content }
func (m *ChatMessage) Timestamp() time.Time { return m.timestamp }

// ToolCallMessage records the model requesting a tool invocation
type ToolCallMessage struct {
	id        string
	toolName  ToolName
	toolArgs  ToolArgumentValues
	timestamp time.Time
}

func NewToolCallMessage(name ToolName, args ToolArgumentValues) *ToolCallMessage {
	return NewToolCallMessageWithID(uuid.NewString(), name, args, time.Now())
}

// NewToolCallMessageWithID keeps the provider-assigned call ID so results pair up
func NewToolCallMessageWithID(id string, name ToolName, args ToolArgumentValues, ts time.Time) *ToolCallMessage {
	return &ToolCallMessage{
		id:        id,
		toolName:  name,
		toolArgs:  args,
		timestamp: ts,
	}
}

func (m *ToolCallMessage) Type() MessageType                 { return MessageTypeToolCall }
func (m *ToolCallMessage) Content() string                   { return fmt.Sprintf("[tool call: %s]", m.toolName) }
func (m *ToolCallMessage) Timestamp() time.Time              { return m.timestamp }
func (m *ToolCallMessage) ID() string                        { return m.id }
func (m *ToolCallMessage) ToolName() ToolName                { return m.toolName }
func (m *ToolCallMessage) ToolArguments() ToolArgumentValues { return m.toolArgs }

// ToolResultMessage records the outcome of one tool invocation.
// Error is non-empty when the invocation failed; the text is still surfaced
// to the model in-band so the conversation can continue.
type ToolResultMessage struct {
	callID    string
	toolName  ToolName
	result    string
	errText   string
	timestamp time.Time
}

func NewToolResultMessage(callID string, name ToolName, result, errText string) *ToolResultMessage {
	return &ToolResultMessage{
		callID:    callID,
		toolName:  name,
		result:    result,
		errText:   errText,
		timestamp: time.Now(),
	}
}

func (m *ToolResultMessage) Type() MessageType    { return MessageTypeToolResult }
func (m *ToolResultMessage) Timestamp() time.Time { return m.timestamp }
func (m *ToolResultMessage) CallID() string       { return m.callID }
func (m *ToolResultMessage) ToolName() ToolName   { return m.toolName }
func (m *ToolResultMessage) Error() string        { return m.errText }
func (m *ToolResultMessage) IsError() bool        { return m.errText != "" }

func (m *ToolResultMessage) Content() string {
	if m.errText != "" {
		return "Error: " + m.errText
	}
	return m.result
}
