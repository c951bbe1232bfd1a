package score

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fpt/go-toolbench/pkg/bench"
	pkgLogger "github.com/fpt/go-toolbench/pkg/logger"
	"github.com/fpt/go-toolbench/pkg/message"
)

const (
	// DefaultConcurrency bounds the judge fan-out
	DefaultConcurrency = 4
	// DefaultJudgeTimeout bounds one judge round-trip
	DefaultJudgeTimeout = 2 * time.Minute
)

// Item is one solved sample presented for scoring
type Item struct {
	SampleID   string
	Transcript *message.Transcript
	Response   string
	Target     string
	SolveErr   error
}

// Scorer grades solved samples. Ineligible samples (no successful call to an
// accepted tool, or a failed solve) are auto-failed without a judge request;
// eligible ones fan out to the judge concurrently, bounded by Concurrency.
type Scorer struct {
	judge        *bench.Handle
	instructions string
	scale        Scale
	concurrency  int
	timeout      time.Duration
	logger       *pkgLogger.Logger
}

func NewScorer(judge *bench.Handle, instructions string, scale Scale) *Scorer {
	return &Scorer{
		judge:        judge,
		instructions: instructions,
		scale:        scale,
		concurrency:  DefaultConcurrency,
		timeout:      DefaultJudgeTimeout,
		logger:       pkgLogger.NewComponentLogger("scorer"),
	}
}

func (s *Scorer) WithConcurrency(n int) *Scorer {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

func (s *Scorer) WithTimeout(d time.Duration) *Scorer {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Score grades every item and returns one Grade per item, in input order.
// Scoring is pure over its inputs: re-scoring the same items yields the same
// eligibility and the same auto-failed grades.
func (s *Scorer) Score(ctx context.Context, items []Item, acceptedToolNames []message.ToolName) ([]Grade, error) {
	grades := make([]Grade, len(items))
	eligible := make([]int, 0, len(items))

	for i, item := range items {
		toolCalled := hasAcceptedToolCall(item.Transcript, acceptedToolNames)
		if reason := gateReason(item, toolCalled); reason != "" {
			grades[i] = Grade{
				SampleID:   item.SampleID,
				Score:      s.scale.Worst(),
				ToolCalled: toolCalled,
				Reason:     reason,
			}
			continue
		}
		eligible = append(eligible, i)
	}

	if len(eligible) == 0 {
		s.logger.Info("No eligible samples, skipping judge", "total", len(items))
		return grades, nil
	}

	s.logger.Info("Judging eligible samples", "eligible", len(eligible), "total", len(items), "concurrency", s.concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, i := range eligible {
		g.Go(func() error {
			grades[i] = s.judgeOne(gctx, items[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return grades, err
	}

	return grades, nil
}

// hasAcceptedToolCall reports whether the transcript holds a successful call
// to an accepted tool. This is read straight off the transcript so ToolCalled
// stays truthful even for samples auto-failed for other reasons.
func hasAcceptedToolCall(transcript *message.Transcript, acceptedToolNames []message.ToolName) bool {
	if transcript == nil {
		return false
	}
	for _, result := range transcript.ToolResults() {
		if result.IsError() {
			continue
		}
		for _, name := range acceptedToolNames {
			if result.ToolName() == name {
				return true
			}
		}
	}
	return false
}

// gateReason returns why a sample is ineligible for judging, or "" when it
// may be judged
func gateReason(item Item, toolCalled bool) string {
	if item.SolveErr != nil {
		return fmt.Sprintf("solve failed: %v", item.SolveErr)
	}
	if item.Transcript == nil {
		return "no transcript produced"
	}
	if !toolCalled {
		return "no successful call to an accepted tool"
	}
	return ""
}

func (s *Scorer) judgeOne(ctx context.Context, item Item) Grade {
	grade := Grade{
		SampleID:   item.SampleID,
		ToolCalled: true,
	}
	grade.JudgePrompt = s.buildJudgePrompt(item)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Tool-free clone; concurrent judge Sends never share mutable state
	transcript, err := s.judge.Clone().Send(ctx, grade.JudgePrompt)
	if err != nil {
		reqErr := &JudgeRequestError{SampleID: item.SampleID, Err: err}
		s.logger.Warn("Judge request failed", "sample", item.SampleID, "error", err)
		grade.Score = s.scale.Worst()
		grade.Reason = reqErr.Error()
		return grade
	}
	grade.JudgeResponse = transcript.LastAssistantText()

	level, ok := ExtractGrade(grade.JudgeResponse, s.scale)
	if !ok {
		parseErr := &GradeParseError{SampleID: item.SampleID, Response: grade.JudgeResponse}
		s.logger.Warn("Judge response had no parsable grade", "sample", item.SampleID)
		grade.Score = s.scale.Worst()
		grade.Reason = parseErr.Error()
		return grade
	}

	grade.Score = level
	return grade
}

func (s *Scorer) buildJudgePrompt(item Item) string {
	var b strings.Builder
	b.WriteString(s.instructions)
	b.WriteString("\n\nExpected observation:\n")
	b.WriteString(item.Target)
	b.WriteString("\n\nModel response:\n")
	b.WriteString(item.Response)
	fmt.Fprintf(&b, "\n\nGrade scale, worst to best: %s.\n", s.scale)
	b.WriteString("Answer with a JSON object matching this schema:\n")
	b.WriteString(VerdictSchemaJSON())
	b.WriteString("\nThen finish with a line of the form 'GRADE: <level>'.")
	return b.String()
}
