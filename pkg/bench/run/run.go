// Package run orchestrates a full evaluation: every registered model is
// driven through the solver and scorer for the configured number of epochs,
// producing one result row per (model, sample, epoch).
package run

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fpt/go-toolbench/pkg/bench"
	"github.com/fpt/go-toolbench/pkg/bench/score"
	"github.com/fpt/go-toolbench/pkg/bench/solve"
	pkgLogger "github.com/fpt/go-toolbench/pkg/logger"
	"github.com/fpt/go-toolbench/pkg/message"
)

// Row is one cell of the result table
type Row struct {
	Model         string
	SampleID      string
	Epoch         int
	Score         score.Level
	ToolCalled    bool
	Response      string
	JudgePrompt   string
	JudgeResponse string
	Reason        string
	Metadata      map[string]any
}

// PipelineState records how far one model's pipeline got. Err is set when
// the model's run was cut short; rows completed before the failure are kept.
type PipelineState struct {
	Model          string
	EpochsFinished int
	Err            error
}

// Table is the merged result of one evaluation run
type Table struct {
	RunID    string
	Task     string
	Name     string
	Started  time.Time
	Duration time.Duration
	Rows     []Row
	States   []PipelineState
}

// Config carries the run-level knobs of the orchestrator
type Config struct {
	Task         string
	Name         string
	Epochs       int
	SystemPrompt string
}

// Orchestrator fans an evaluation out over models. Models run one after
// another; within a model, samples run sequentially per epoch.
type Orchestrator struct {
	cfg    Config
	solver *solve.Solver
	scorer *score.Scorer
	logger *pkgLogger.Logger
}

func NewOrchestrator(cfg Config, solver *solve.Solver, scorer *score.Scorer) *Orchestrator {
	if cfg.Epochs < 1 {
		cfg.Epochs = 1
	}
	return &Orchestrator{
		cfg:    cfg,
		solver: solver,
		scorer: scorer,
		logger: pkgLogger.NewComponentLogger("orchestrator"),
	}
}

// Run evaluates every sample against every model for every epoch. Models are
// processed in sorted name order for stable output. A failure inside one
// model's pipeline is recorded in its PipelineState and does not discard
// rows already produced, nor stop the remaining models; only context
// cancellation aborts the whole run.
func (o *Orchestrator) Run(ctx context.Context, samples []bench.Sample, models map[string]*bench.Handle) (*Table, error) {
	table := &Table{
		RunID:   uuid.NewString(),
		Task:    o.cfg.Task,
		Name:    o.cfg.Name,
		Started: time.Now(),
	}
	logger := o.logger.WithRun(table.RunID)

	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)

	accepted := acceptedToolNames(samples)

	logger.Info("Starting run", "task", o.cfg.Task, "models", len(names), "samples", len(samples), "epochs", o.cfg.Epochs)

	for _, name := range names {
		state := PipelineState{Model: name}
		handle := models[name]
		if o.cfg.SystemPrompt != "" {
			handle.SetSystemPrompt(o.cfg.SystemPrompt)
		}

		for epoch := 1; epoch <= o.cfg.Epochs; epoch++ {
			rows, err := o.runEpoch(ctx, handle, name, epoch, samples, accepted)
			table.Rows = append(table.Rows, rows...)
			if err != nil {
				state.Err = err
				break
			}
			state.EpochsFinished = epoch
		}
		table.States = append(table.States, state)

		if state.Err != nil {
			logger.Warn("Model pipeline failed", "model", name, "error", state.Err)
			if errors.Is(state.Err, context.Canceled) || errors.Is(state.Err, context.DeadlineExceeded) {
				table.Duration = time.Since(table.Started)
				return table, state.Err
			}
		}
	}

	table.Duration = time.Since(table.Started)
	logger.Info("Run finished", "rows", len(table.Rows), "duration", table.Duration)
	return table, nil
}

func (o *Orchestrator) runEpoch(ctx context.Context, handle *bench.Handle, model string, epoch int, samples []bench.Sample, accepted []message.ToolName) ([]Row, error) {
	results, err := o.solver.Solve(ctx, handle, samples)
	if err != nil {
		return nil, err
	}

	items := make([]score.Item, len(results))
	for i, r := range results {
		items[i] = score.Item{
			SampleID:   r.Sample.ID,
			Transcript: r.Transcript,
			Response:   r.Response,
			Target:     r.Sample.Target,
			SolveErr:   r.Err,
		}
	}

	grades, err := o.scorer.Score(ctx, items, accepted)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(grades))
	for i, g := range grades {
		rows[i] = Row{
			Model:         model,
			SampleID:      g.SampleID,
			Epoch:         epoch,
			Score:         g.Score,
			ToolCalled:    g.ToolCalled,
			Response:      results[i].Response,
			JudgePrompt:   g.JudgePrompt,
			JudgeResponse: g.JudgeResponse,
			Reason:        g.Reason,
			Metadata:      results[i].Sample.Metadata,
		}
	}
	return rows, nil
}

// acceptedToolNames collects every display name a sample's tool may be
// exposed under: the factory name, plus the alias when one is requested.
func acceptedToolNames(samples []bench.Sample) []message.ToolName {
	seen := make(map[message.ToolName]bool)
	var names []message.ToolName
	add := func(n message.ToolName) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, s := range samples {
		add(message.ToolName(s.Tool.Factory))
		add(message.ToolName(s.Tool.Alias))
	}
	return names
}
