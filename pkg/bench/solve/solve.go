// Package solve drives samples through the model: per sample it prepares an
// isolated scope, binds the sample's tool, runs the conversation, and tears
// the scope down. Samples run strictly sequentially for one model.
package solve

import (
	"context"
	"time"

	"github.com/fpt/go-toolbench/pkg/bench"
	"github.com/fpt/go-toolbench/pkg/bench/scope"
	pkgLogger "github.com/fpt/go-toolbench/pkg/logger"
	"github.com/fpt/go-toolbench/pkg/message"
)

// ToolResolver binds a sample's tool reference to a scope
type ToolResolver interface {
	Resolve(spec bench.ToolSpec, sc *scope.Scope) (message.Tool, error)
}

// Result is the outcome of solving one sample. Err is set when setup,
// resolution, the conversation, or teardown failed; the failure is contained
// to this sample and the remaining fields hold whatever was produced before
// it.
type Result struct {
	Sample     bench.Sample
	Response   string
	Transcript *message.Transcript
	Err        error
}

// Solver runs a sample list against one model handle
type Solver struct {
	resolver ToolResolver
	delay    time.Duration
	logger   *pkgLogger.Logger
}

func NewSolver(resolver ToolResolver, delay time.Duration) *Solver {
	return &Solver{
		resolver: resolver,
		delay:    delay,
		logger:   pkgLogger.NewComponentLogger("solver"),
	}
}

// Solve runs every sample in order against the given handle and returns one
// result per sample, in input order. A per-sample failure is recorded in its
// result and the run continues; only context cancellation stops the loop.
func (s *Solver) Solve(ctx context.Context, handle *bench.Handle, samples []bench.Sample) ([]Result, error) {
	results := make([]Result, 0, len(samples))

	for i, sample := range samples {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := s.solveOne(ctx, handle, sample)
		if result.Err != nil {
			s.logger.Warn("Sample failed", "sample", sample.ID, "error", result.Err)
		}
		results = append(results, result)

		if s.delay > 0 && i < len(samples)-1 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return results, ctx.Err()
			}
		}
	}

	return results, nil
}

func (s *Solver) solveOne(ctx context.Context, handle *bench.Handle, sample bench.Sample) Result {
	result := Result{Sample: sample}

	sc := scope.New()
	defer sc.Destroy()

	if sample.Input.Setup != "" {
		if err := sc.Run(sample.Input.Setup); err != nil {
			result.Err = err
			return result
		}
	}

	// One clone per sample keeps tool bindings from leaking across samples
	h := handle.Clone()

	tool, err := s.resolver.Resolve(sample.Tool, sc)
	if err != nil {
		result.Err = err
		return result
	}
	h.RegisterTool(tool)

	s.logger.Debug("Solving sample", "sample", sample.ID, "tool", tool.Name())

	transcript, err := h.Send(ctx, sample.Input.Prompt)
	result.Transcript = transcript
	if err != nil {
		result.Err = err
		return result
	}
	result.Response = h.LastTurnText(transcript)

	if sample.Input.Teardown != "" {
		if err := sc.Run(sample.Input.Teardown); err != nil {
			result.Err = err
		}
	}

	return result
}
