package message

import "context"

// ToolName is the display name a tool is exposed under
type ToolName string

func (n ToolName) String() string { return string(n) }

// ToolArgument describes one parameter of a tool's argument schema
type ToolArgument struct {
	Name        string
	Description string
	Required    bool
	Type        string // "string", "number", "boolean", "array", "object"
}

// ToolArgumentValues holds the decoded arguments of one tool call
type ToolArgumentValues map[string]any

// String returns the named argument as a string when present
func (v ToolArgumentValues) String(name string) (string, bool) {
	s, ok := v[name].(string)
	return s, ok
}

// ToolResult is the structured outcome of executing a tool
type ToolResult struct {
	Text  string
	Error string
}

func NewToolResultText(text string) ToolResult {
	return ToolResult{Text: text}
}

func NewToolResultError(errText string) ToolResult {
	return ToolResult{Error: errText}
}

// ToolHandler executes a tool call with decoded arguments
type ToolHandler func(ctx context.Context, args ToolArgumentValues) (ToolResult, error)

// Tool is a callable capability with a display name, description, and
// argument schema. The display name may differ from the factory the tool
// was constructed from when an alias is in effect.
type Tool interface {
	Name() ToolName
	Description() string
	Arguments() []ToolArgument
	Handler() ToolHandler
}
