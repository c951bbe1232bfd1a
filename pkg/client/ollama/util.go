package ollama

import (
	"github.com/ollama/ollama/api"

	"github.com/fpt/go-toolbench/pkg/message"
)

func toOllamaMessages(messages []message.Message) []api.Message {
	var out []api.Message

	for _, msg := range messages {
		switch m := msg.(type) {
		case *message.ToolCallMessage:
			out = append(out, api.Message{
				Role: "assistant",
				ToolCalls: []api.ToolCall{{
					Function: api.ToolCallFunction{
						Name:      string(m.ToolName()),
						Arguments: api.ToolCallFunctionArguments(m.ToolArguments()),
					},
				}},
			})

		case *message.ToolResultMessage:
			out = append(out, api.Message{
				Role:    "tool",
				Content: m.Content(),
			})

		default:
			switch msg.Type() {
			case message.MessageTypeUser, message.MessageTypeAssistant, message.MessageTypeSystem:
				out = append(out, api.Message{
					Role:    msg.Type().String(),
					Content: msg.Content(),
				})
			}
		}
	}

	return out
}

// ollamaToolProperty mirrors the anonymous property struct in api.ToolFunction
type ollamaToolProperty = struct {
	Type        api.PropertyType `json:"type"`
	Items       any              `json:"items,omitempty"`
	Description string           `json:"description"`
	Enum        []any            `json:"enum,omitempty"`
}

func toOllamaTools(tools map[message.ToolName]message.Tool) api.Tools {
	var out api.Tools

	for _, tool := range tools {
		properties := make(map[string]ollamaToolProperty)
		var required []string
		for _, arg := range tool.Arguments() {
			properties[arg.Name] = ollamaToolProperty{
				Type:        api.PropertyType{arg.Type},
				Description: arg.Description,
			}
			if arg.Required {
				required = append(required, arg.Name)
			}
		}

		function := api.ToolFunction{
			Name:        string(tool.Name()),
			Description: tool.Description(),
		}
		function.Parameters.Type = "object"
		function.Parameters.Required = required
		function.Parameters.Properties = properties

		out = append(out, api.Tool{
			Type:     "function",
			Function: function,
		})
	}

	return out
}
