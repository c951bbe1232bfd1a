package message

// Transcript is the ordered turn history of one sample-model conversation.
// It is owned by the solver while being built and read-only afterward.
type Transcript struct {
	Turns []Message
}

func NewTranscript() *Transcript {
	return &Transcript{Turns: make([]Message, 0, 8)}
}

func (t *Transcript) Append(msg Message) {
	t.Turns = append(t.Turns, msg)
}

func (t *Transcript) Len() int {
	return len(t.Turns)
}

// LastAssistantText returns the text of the final assistant turn, or ""
// when the conversation never produced one.
func (t *Transcript) LastAssistantText() string {
	for i := len(t.Turns) - 1; i >= 0; i-- {
		if t.Turns[i].Type() == MessageTypeAssistant {
			return t.Turns[i].Content()
		}
	}
	return ""
}

// ToolResults returns every tool-result turn in order
func (t *Transcript) ToolResults() []*ToolResultMessage {
	var results []*ToolResultMessage
	for _, turn := range t.Turns {
		if res, ok := turn.(*ToolResultMessage); ok {
			results = append(results, res)
		}
	}
	return results
}
