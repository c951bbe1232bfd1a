// Package report renders the result table of an evaluation run, including
// per-model summaries and response diffs for worst-graded rows.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	diff "github.com/hexops/gotextdiff"
	myers "github.com/hexops/gotextdiff/myers"
	"gonum.org/v1/gonum/stat"

	"github.com/fpt/go-toolbench/pkg/bench"
	"github.com/fpt/go-toolbench/pkg/bench/run"
	"github.com/fpt/go-toolbench/pkg/bench/score"
)

// Write renders the full report: header, result table, per-model summary,
// and diffs for rows graded at the worst level.
func Write(w io.Writer, table *run.Table, samples []bench.Sample, scale score.Scale) error {
	fmt.Fprintf(w, "Run %s", table.RunID)
	if table.Task != "" {
		fmt.Fprintf(w, "  task=%s", table.Task)
	}
	if table.Name != "" {
		fmt.Fprintf(w, "  name=%s", table.Name)
	}
	fmt.Fprintf(w, "  duration=%s\n\n", table.Duration.Round(1e6))

	writeRows(w, table)
	fmt.Fprintln(w)
	writeSummary(w, table, scale)

	if worst := worstRows(table, scale); len(worst) > 0 {
		fmt.Fprintln(w)
		writeFailureDiffs(w, worst, samples)
	}

	for _, state := range table.States {
		if state.Err != nil {
			fmt.Fprintf(w, "\nmodel %s: pipeline stopped after %d epoch(s): %v\n",
				state.Model, state.EpochsFinished, state.Err)
		}
	}
	return nil
}

func writeRows(w io.Writer, table *run.Table) {
	fmt.Fprintf(w, "%-20s %-16s %5s %6s %10s  %s\n", "MODEL", "SAMPLE", "EPOCH", "SCORE", "TOOLCALLED", "METADATA")
	for _, row := range table.Rows {
		fmt.Fprintf(w, "%-20s %-16s %5d %6s %10v  %s\n",
			row.Model, row.SampleID, row.Epoch, row.Score, row.ToolCalled, formatMetadata(row.Metadata))
	}
}

func formatMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, metadata[k]))
	}
	return strings.Join(parts, " ")
}

// writeSummary reports, per model, the count at each grade level, the mean
// and standard deviation of the normalized score (worst level = 0, best
// level = 1), and the tool-call rate
func writeSummary(w io.Writer, table *run.Table, scale score.Scale) {
	byModel := make(map[string][]run.Row)
	var models []string
	for _, row := range table.Rows {
		if _, ok := byModel[row.Model]; !ok {
			models = append(models, row.Model)
		}
		byModel[row.Model] = append(byModel[row.Model], row)
	}
	sort.Strings(models)

	fmt.Fprintf(w, "%-20s %6s %-16s %8s %8s %10s\n", "MODEL", "ROWS", "LEVELS", "MEAN", "STDDEV", "TOOL RATE")
	for _, model := range models {
		rows := byModel[model]
		values := make([]float64, 0, len(rows))
		counts := make([]int, len(scale))
		toolCalls := 0
		for _, row := range rows {
			values = append(values, normalizedScore(row.Score, scale))
			if idx := scale.Index(row.Score); idx >= 0 {
				counts[idx]++
			}
			if row.ToolCalled {
				toolCalls++
			}
		}
		mean := stat.Mean(values, nil)
		stddev := stat.StdDev(values, nil)
		rate := float64(toolCalls) / float64(len(rows))
		fmt.Fprintf(w, "%-20s %6d %-16s %8.3f %8.3f %9.0f%%\n",
			model, len(rows), levelCounts(scale, counts), mean, stddev, rate*100)
	}
}

// levelCounts renders per-level tallies like "I:2 P:0 C:1", worst first
func levelCounts(scale score.Scale, counts []int) string {
	parts := make([]string, len(scale))
	for i, level := range scale {
		parts[i] = fmt.Sprintf("%s:%d", level, counts[i])
	}
	return strings.Join(parts, " ")
}

func normalizedScore(level score.Level, scale score.Scale) float64 {
	idx := scale.Index(level)
	if idx < 0 || len(scale) < 2 {
		return 0
	}
	return float64(idx) / float64(len(scale)-1)
}

func worstRows(table *run.Table, scale score.Scale) []run.Row {
	var rows []run.Row
	for _, row := range table.Rows {
		if row.Score == scale.Worst() {
			rows = append(rows, row)
		}
	}
	return rows
}

// writeFailureDiffs shows, for each worst-graded row, a unified diff between
// the expected observation and the model's response
func writeFailureDiffs(w io.Writer, rows []run.Row, samples []bench.Sample) {
	targets := make(map[string]string, len(samples))
	for _, s := range samples {
		targets[s.ID] = s.Target
	}

	fmt.Fprintln(w, "Worst-graded rows:")
	for _, row := range rows {
		target := targets[row.SampleID]
		fmt.Fprintf(w, "\n--- %s / %s / epoch %d", row.Model, row.SampleID, row.Epoch)
		if row.Reason != "" {
			fmt.Fprintf(w, " (%s)", row.Reason)
		}
		fmt.Fprintln(w)

		expected := target + "\n"
		actual := row.Response + "\n"
		edits := myers.ComputeEdits("", expected, actual)
		unified := diff.ToUnified("expected", "response", expected, edits)
		fmt.Fprint(w, fmt.Sprint(unified))
	}
}
