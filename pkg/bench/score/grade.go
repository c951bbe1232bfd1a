package score

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
)

// Grade is the scoring outcome for one sample. Score is always a level of
// the scale in effect; when the judge could not be consulted or parsed, the
// worst level is assigned and Reason explains why.
type Grade struct {
	SampleID      string
	Score         Level
	JudgePrompt   string
	JudgeResponse string
	ToolCalled    bool
	Reason        string
}

// JudgeRequestError reports a failed judge model round-trip
type JudgeRequestError struct {
	SampleID string
	Err      error
}

func (e *JudgeRequestError) Error() string {
	return fmt.Sprintf("judge request for sample '%s' failed: %v", e.SampleID, e.Err)
}

func (e *JudgeRequestError) Unwrap() error { return e.Err }

// GradeParseError reports a judge response with no usable grade token
type GradeParseError struct {
	SampleID string
	Response string
}

func (e *GradeParseError) Error() string {
	return fmt.Sprintf("no grade found in judge response for sample '%s'", e.SampleID)
}

// Verdict is the structured answer format requested from the judge
type Verdict struct {
	Reasoning string `json:"reasoning" jsonschema_description:"Step-by-step comparison of the response against the expected observation"`
	Grade     string `json:"grade" jsonschema_description:"One grade level from the scale, worst to best"`
}

// VerdictSchemaJSON renders the Verdict JSON schema for embedding in the
// judge prompt
func VerdictSchemaJSON() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&Verdict{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return `{"type":"object","properties":{"reasoning":{"type":"string"},"grade":{"type":"string"}}}`
	}
	return string(data)
}

// Word-bounded so "upgrade:" is not mistaken for a token; the capture spans
// a whole word so multi-letter levels like "GOOD" extract too
var gradePattern = regexp.MustCompile(`(?i)\bgrade\s*:\s*"?([a-z]+)`)

// ExtractGrade pulls the grade level out of a judge response. The last
// GRADE: token naming a level of the scale wins since judges often restate
// the scale while reasoning. When no token matches, the response is tried as
// a Verdict JSON object.
func ExtractGrade(response string, scale Scale) (Level, bool) {
	matches := gradePattern.FindAllStringSubmatch(response, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if level, ok := scale.Canonical(Level(matches[i][1])); ok {
			return level, true
		}
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(extractJSONObject(response)), &verdict); err == nil {
		if level, ok := scale.Canonical(Level(verdict.Grade)); ok {
			return level, true
		}
	}

	return "", false
}

// extractJSONObject trims a response down to its outermost {...} span so
// fenced or prose-wrapped JSON still parses
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
