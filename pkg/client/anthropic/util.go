package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/fpt/go-toolbench/pkg/message"
)

// systemText collects system turns into a single system prompt; the
// Anthropic API carries them outside the message list
func systemText(messages []message.Message) string {
	var system string
	for _, msg := range messages {
		if msg.Type() == message.MessageTypeSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content()
		}
	}
	return system
}

func toAnthropicMessages(messages []message.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, msg := range messages {
		switch m := msg.(type) {
		case *message.ToolCallMessage:
			input, err := json.Marshal(m.ToolArguments())
			if err != nil {
				input = []byte("{}")
			}
			out = append(out, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    m.ID(),
						Name:  string(m.ToolName()),
						Input: json.RawMessage(input),
					},
				}},
			})

		case *message.ToolResultMessage:
			out = append(out, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: m.CallID(),
						IsError:   anthropic.Bool(m.IsError()),
						Content: []anthropic.ToolResultBlockParamContentUnion{{
							OfText: &anthropic.TextBlockParam{Text: m.Content()},
						}},
					},
				}},
			})

		default:
			switch msg.Type() {
			case message.MessageTypeUser:
				out = append(out, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleUser,
					Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content())},
				})
			case message.MessageTypeAssistant:
				out = append(out, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleAssistant,
					Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content())},
				})
			}
			// System turns are hoisted by systemText
		}
	}
	return out
}

func toAnthropicTools(tools map[message.ToolName]message.Tool) []anthropic.ToolUnionParam {
	var out []anthropic.ToolUnionParam
	for _, tool := range tools {
		properties := make(map[string]any)
		var required []string
		for _, arg := range tool.Arguments() {
			properties[arg.Name] = map[string]any{
				"type":        arg.Type,
				"description": arg.Description,
			}
			if arg.Required {
				required = append(required, arg.Name)
			}
		}

		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        string(tool.Name()),
				Description: anthropic.String(tool.Description()),
				InputSchema: anthropic.ToolInputSchemaParam{
					Type:       "object",
					Properties: properties,
					Required:   required,
				},
			},
		})
	}
	return out
}
