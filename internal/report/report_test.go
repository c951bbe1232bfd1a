package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fpt/go-toolbench/pkg/bench"
	"github.com/fpt/go-toolbench/pkg/bench/run"
	"github.com/fpt/go-toolbench/pkg/bench/score"
)

func testTable() *run.Table {
	return &run.Table{
		RunID:    "run-123",
		Task:     "staging",
		Duration: 1500 * time.Millisecond,
		Rows: []run.Row{
			{Model: "diligent", SampleID: "s1", Epoch: 1, Score: "C", ToolCalled: true, Response: "The staged value is alpha."},
			{Model: "diligent", SampleID: "s2", Epoch: 1, Score: "P", ToolCalled: true, Response: "Something about beta."},
			{Model: "lazy", SampleID: "s1", Epoch: 1, Score: "I", ToolCalled: false, Response: "Probably forty-two.", Reason: "no successful call to an accepted tool"},
			{Model: "lazy", SampleID: "s2", Epoch: 1, Score: "I", ToolCalled: false, Response: "Probably forty-three.", Reason: "no successful call to an accepted tool"},
		},
		States: []run.PipelineState{
			{Model: "diligent", EpochsFinished: 1},
			{Model: "lazy", EpochsFinished: 1},
		},
	}
}

func testReportSamples() []bench.Sample {
	return []bench.Sample{
		{ID: "s1", Target: "The staged value is alpha."},
		{ID: "s2", Target: "The staged value is beta."},
	}
}

func TestWriteReport(t *testing.T) {
	scale, err := score.NewScale("I", "P", "C")
	if err != nil {
		t.Fatalf("NewScale failed: %v", err)
	}

	var b strings.Builder
	if err := Write(&b, testTable(), testReportSamples(), scale); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"run-123",
		"task=staging",
		"MODEL",
		"diligent",
		"lazy",
		"TOOL RATE",
		"I:2 P:0 C:0",
		"I:0 P:1 C:1",
		"Worst-graded rows:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, out)
		}
	}

	// Diffs only for worst-graded rows
	if !strings.Contains(out, "lazy / s1") {
		t.Error("Expected a diff section for the worst-graded lazy rows")
	}
	if strings.Contains(out, "diligent / s1") {
		t.Error("Did not expect a diff section for non-worst rows")
	}
	if !strings.Contains(out, "-The staged value is alpha.") || !strings.Contains(out, "+Probably forty-two.") {
		t.Errorf("Expected unified diff lines, got:\n%s", out)
	}
}

func TestWriteReportPipelineFailure(t *testing.T) {
	scale, _ := score.NewScale("I", "P", "C")

	table := testTable()
	table.States = append(table.States, run.PipelineState{
		Model:          "flaky",
		EpochsFinished: 0,
		Err:            errors.New("backend unreachable"),
	})

	var b strings.Builder
	if err := Write(&b, table, testReportSamples(), scale); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(b.String(), "model flaky: pipeline stopped after 0 epoch(s)") {
		t.Errorf("Expected pipeline failure line, got:\n%s", b.String())
	}
}
