package tool

import "github.com/fpt/go-toolbench/pkg/message"

// definition is the concrete message.Tool built by factory constructors
type definition struct {
	name        message.ToolName
	description string
	arguments   []message.ToolArgument
	handler     message.ToolHandler
}

func newDefinition(name message.ToolName, description string, arguments []message.ToolArgument, handler message.ToolHandler) message.Tool {
	return &definition{
		name:        name,
		description: description,
		arguments:   arguments,
		handler:     handler,
	}
}

func (t *definition) Name() message.ToolName            { return t.name }
func (t *definition) Description() string               { return t.description }
func (t *definition) Arguments() []message.ToolArgument { return t.arguments }
func (t *definition) Handler() message.ToolHandler      { return t.handler }
