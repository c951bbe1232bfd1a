package score

import (
	"strings"
	"testing"
)

func TestExtractGrade(t *testing.T) {
	scale, err := NewScale("I", "P", "C")
	if err != nil {
		t.Fatalf("NewScale failed: %v", err)
	}

	tests := []struct {
		name     string
		response string
		want     Level
		wantOK   bool
	}{
		{
			name:     "SimpleToken",
			response: "The response matches the observation well.\nGRADE: C",
			want:     "C",
			wantOK:   true,
		},
		{
			name:     "LowercaseToken",
			response: "Not even close.\ngrade: i",
			want:     "I",
			wantOK:   true,
		},
		{
			name:     "LastTokenWins",
			response: "The scale is GRADE: I through GRADE: C. Final answer:\nGRADE: P",
			want:     "P",
			wantOK:   true,
		},
		{
			name:     "QuotedToken",
			response: `{"reasoning": "partial match", "grade": "P"}`,
			want:     "P",
			wantOK:   true,
		},
		{
			name:     "VerdictJSONFallback",
			response: "Here is my verdict:\n```json\n{\"reasoning\": \"exact match\", \"answer\": \"C\"}\n```",
			want:     "",
			wantOK:   false,
		},
		{
			name:     "FencedVerdictJSON",
			response: "```json\n{\"reasoning\": \"close enough\", \"score\": \"C\"}\n```",
			want:     "",
			wantOK:   false,
		},
		{
			name:     "NoGradeAnywhere",
			response: "I cannot decide.",
			want:     "",
			wantOK:   false,
		},
		{
			name:     "EmbeddedWordIsNotAToken",
			response: "The response needs to upgrade: i think it misses the point.",
			want:     "",
			wantOK:   false,
		},
		{
			name:     "TokenAfterEmbeddedWord",
			response: "One could upgrade: parts of it.\nGRADE: P",
			want:     "P",
			wantOK:   true,
		},
		{
			name:     "TokenOutsideScale",
			response: "GRADE: X",
			want:     "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractGrade(tt.response, scale)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractGrade(%q) = (%q, %v), want (%q, %v)", tt.response, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractGradeMultiLetterLevels(t *testing.T) {
	scale, err := NewScale("BAD", "FAIR", "GOOD")
	if err != nil {
		t.Fatalf("NewScale failed: %v", err)
	}

	tests := []struct {
		name     string
		response string
		want     Level
		wantOK   bool
	}{
		{
			name:     "WholeWordToken",
			response: "The core claim is there.\nGRADE: GOOD",
			want:     "GOOD",
			wantOK:   true,
		},
		{
			name:     "LowercaseWholeWord",
			response: "grade: fair",
			want:     "FAIR",
			wantOK:   true,
		},
		{
			name:     "PrefixOfLevelIsNotEnough",
			response: "GRADE: GO",
			want:     "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractGrade(tt.response, scale)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractGrade(%q) = (%q, %v), want (%q, %v)", tt.response, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractGradeVerdictJSON(t *testing.T) {
	scale, _ := NewScale("I", "P", "C")

	response := "Comparing substance rather than wording.\n" +
		"```json\n{\"reasoning\": \"the key claim is present\", \"grade\": \"c\"}\n```"
	got, ok := ExtractGrade(response, scale)
	if !ok || got != "C" {
		t.Errorf("Expected Verdict JSON fallback to yield C, got (%q, %v)", got, ok)
	}
}

func TestVerdictSchemaJSON(t *testing.T) {
	schema := VerdictSchemaJSON()
	for _, want := range []string{`"reasoning"`, `"grade"`, `"additionalProperties": false`} {
		if !strings.Contains(schema, want) {
			t.Errorf("Expected schema to contain %s, got:\n%s", want, schema)
		}
	}
}
