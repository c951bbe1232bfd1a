package openai

import (
	"encoding/json"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"

	"github.com/fpt/go-toolbench/pkg/message"
)

// toOpenAIMessages converts conversation turns to the chat completions
// format. Past tool calls and results are replayed as plain text turns; the
// live tool exchange happens through the native tools field.
func toOpenAIMessages(messages []message.Message) []openai.ChatCompletionMessageParamUnion {
	var out []openai.ChatCompletionMessageParamUnion

	for _, msg := range messages {
		switch m := msg.(type) {
		case *message.ToolCallMessage:
			args, err := json.Marshal(m.ToolArguments())
			if err != nil {
				args = []byte("{}")
			}
			out = append(out, openai.AssistantMessage("[Called tool: "+string(m.ToolName())+"("+string(args)+")]"))

		case *message.ToolResultMessage:
			out = append(out, openai.UserMessage("[Tool result: "+m.Content()+"]"))

		default:
			switch msg.Type() {
			case message.MessageTypeUser:
				out = append(out, openai.UserMessage(msg.Content()))
			case message.MessageTypeAssistant:
				out = append(out, openai.AssistantMessage(msg.Content()))
			case message.MessageTypeSystem:
				out = append(out, openai.SystemMessage(msg.Content()))
			}
		}
	}

	return out
}

func toOpenAITools(tools map[message.ToolName]message.Tool) []openai.ChatCompletionToolUnionParam {
	var out []openai.ChatCompletionToolUnionParam

	for _, tool := range tools {
		properties := make(map[string]any)
		required := []string{}
		for _, arg := range tool.Arguments() {
			properties[arg.Name] = map[string]any{
				"type":        arg.Type,
				"description": arg.Description,
			}
			if arg.Required {
				required = append(required, arg.Name)
			}
		}

		params := shared.FunctionParameters{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			params["required"] = required
		}

		out = append(out, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        string(tool.Name()),
			Description: openai.String(tool.Description()),
			Parameters:  params,
		}))
	}

	return out
}

func parseToolArguments(argsJSON string) message.ToolArgumentValues {
	result := make(message.ToolArgumentValues)
	if argsJSON == "" {
		return result
	}
	if err := json.Unmarshal([]byte(argsJSON), &result); err != nil {
		return make(message.ToolArgumentValues)
	}
	return result
}
