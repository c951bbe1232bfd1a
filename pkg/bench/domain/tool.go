package domain

import (
	"context"

	"github.com/fpt/go-toolbench/pkg/message"
)

// ToolManager exposes a set of tools to a model client and executes calls
// against them.
type ToolManager interface {
	GetTool(name message.ToolName) (message.Tool, bool)
	GetTools() map[message.ToolName]message.Tool
	CallTool(ctx context.Context, name message.ToolName, args message.ToolArgumentValues) (message.ToolResult, error)
}
