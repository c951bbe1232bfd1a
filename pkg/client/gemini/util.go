package gemini

import (
	"google.golang.org/genai"

	"github.com/fpt/go-toolbench/pkg/message"
)

// toGeminiContents converts conversation turns to Gemini contents. System
// turns are hoisted into a system instruction; tool calls and results are
// replayed as function call/response parts.
func toGeminiContents(messages []message.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemInstruction *genai.Content

	for _, msg := range messages {
		switch m := msg.(type) {
		case *message.ToolCallMessage:
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{{
				FunctionCall: &genai.FunctionCall{
					ID:   m.ID(),
					Name: string(m.ToolName()),
					Args: map[string]any(m.ToolArguments()),
				},
			}}, genai.RoleModel))

		case *message.ToolResultMessage:
			response := map[string]any{"result": m.Content()}
			if m.IsError() {
				response = map[string]any{"error": m.Error()}
			}
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{{
				FunctionResponse: &genai.FunctionResponse{
					ID:       m.CallID(),
					Name:     string(m.ToolName()),
					Response: response,
				},
			}}, genai.RoleUser))

		default:
			switch msg.Type() {
			case message.MessageTypeUser:
				contents = append(contents, genai.NewContentFromText(msg.Content(), genai.RoleUser))
			case message.MessageTypeAssistant:
				contents = append(contents, genai.NewContentFromText(msg.Content(), genai.RoleModel))
			case message.MessageTypeSystem:
				systemInstruction = genai.NewContentFromText(msg.Content(), genai.RoleUser)
			}
		}
	}

	return contents, systemInstruction
}

func toGeminiTools(tools map[message.ToolName]message.Tool) []*genai.Tool {
	var declarations []*genai.FunctionDeclaration

	for _, tool := range tools {
		properties := make(map[string]*genai.Schema)
		var required []string
		for _, arg := range tool.Arguments() {
			properties[arg.Name] = &genai.Schema{
				Type:        genaiType(arg.Type),
				Description: arg.Description,
			}
			if arg.Required {
				required = append(required, arg.Name)
			}
		}

		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        string(tool.Name()),
			Description: tool.Description(),
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}

	if len(declarations) == 0 {
		return nil
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func genaiType(argType string) genai.Type {
	switch argType {
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
