package solve

import (
	"context"
	"errors"
	"testing"

	"github.com/fpt/go-toolbench/pkg/bench"
	"github.com/fpt/go-toolbench/pkg/bench/domain"
	"github.com/fpt/go-toolbench/pkg/bench/scope"
	"github.com/fpt/go-toolbench/pkg/message"
)

// echoLLM calls the advertised tool once, then answers with a fixed text
type echoLLM struct {
	toolToCall message.ToolName
	finalText  string
}

func (m *echoLLM) Chat(ctx context.Context, messages []message.Message) (message.Message, error) {
	for _, msg := range messages {
		if msg.Type() == message.MessageTypeToolCall {
			return message.NewChatMessage(message.MessageTypeAssistant, m.finalText), nil
		}
	}
	return message.NewToolCallMessage(m.toolToCall, message.ToolArgumentValues{}), nil
}

func (m *echoLLM) SetToolManager(tm domain.ToolManager) {}

// scopeTool reads one key from the sample's scope
type scopeTool struct {
	name message.ToolName
	sc   *scope.Scope
	key  string
}

func (t *scopeTool) Name() message.ToolName            { return t.name }
func (t *scopeTool) Description() string               { return "reads a staged key" }
func (t *scopeTool) Arguments() []message.ToolArgument { return nil }
func (t *scopeTool) Handler() message.ToolHandler {
	return func(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
		v, ok := t.sc.Get(t.key)
		if !ok {
			return message.NewToolResultError("key not staged"), nil
		}
		return message.NewToolResultText(v.(string)), nil
	}
}

// stubResolver builds scopeTools, optionally failing for one factory
type stubResolver struct {
	failFactory string
	resolved    []*scope.Scope
}

func (r *stubResolver) Resolve(spec bench.ToolSpec, sc *scope.Scope) (message.Tool, error) {
	if spec.Factory == r.failFactory {
		return nil, errors.New("no such factory")
	}
	r.resolved = append(r.resolved, sc)
	name := spec.Factory
	if spec.Alias != "" {
		name = spec.Alias
	}
	return &scopeTool{name: message.ToolName(name), sc: sc, key: "staged"}, nil
}

func sampleWithSetup(id, setup string) bench.Sample {
	return bench.Sample{
		ID:   id,
		Tool: bench.ToolSpec{Factory: "probe"},
		Input: bench.SampleInput{
			Prompt: "read the staged value",
			Setup:  setup,
		},
		Target: "value",
	}
}

func TestSolveRunsSamplesInOrder(t *testing.T) {
	handle := bench.NewHandle(&echoLLM{toolToCall: "probe", finalText: "the staged value is v"})
	resolver := &stubResolver{}
	solver := NewSolver(resolver, 0)

	samples := []bench.Sample{
		sampleWithSetup("s1", `set("staged", "v")`),
		sampleWithSetup("s2", `set("staged", "w")`),
	}

	results, err := solver.Solve(context.Background(), handle, samples)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Sample.ID != samples[i].ID {
			t.Errorf("Result %d out of order: %s", i, r.Sample.ID)
		}
		if r.Err != nil {
			t.Errorf("Expected sample %s to succeed, got %v", r.Sample.ID, r.Err)
		}
		if r.Response != "the staged value is v" {
			t.Errorf("Expected final text for %s, got %q", r.Sample.ID, r.Response)
		}
		if r.Transcript == nil || len(r.Transcript.ToolResults()) != 1 {
			t.Errorf("Expected one tool result for %s", r.Sample.ID)
		}
	}

	// Each sample got its own scope
	if len(resolver.resolved) != 2 || resolver.resolved[0] == resolver.resolved[1] {
		t.Error("Expected a fresh scope per sample")
	}
}

func TestSolveContainsSetupFailure(t *testing.T) {
	handle := bench.NewHandle(&echoLLM{toolToCall: "probe", finalText: "done"})
	solver := NewSolver(&stubResolver{}, 0)

	samples := []bench.Sample{
		sampleWithSetup("bad", "nosuchfunc()"),
		sampleWithSetup("good", `set("staged", "v")`),
	}

	results, err := solver.Solve(context.Background(), handle, samples)
	if err != nil {
		t.Fatalf("Expected per-sample containment, got run-level error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	if results[0].Err == nil {
		t.Error("Expected setup failure recorded on the first sample")
	}
	var codeErr *scope.CodeError
	if !errors.As(results[0].Err, &codeErr) {
		t.Errorf("Expected *scope.CodeError, got %T", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("Expected the run to continue past the failure, got %v", results[1].Err)
	}
}

func TestSolveContainsResolutionFailure(t *testing.T) {
	handle := bench.NewHandle(&echoLLM{toolToCall: "probe", finalText: "done"})
	solver := NewSolver(&stubResolver{failFactory: "probe"}, 0)

	results, err := solver.Solve(context.Background(), handle, []bench.Sample{
		sampleWithSetup("s1", `set("staged", "v")`),
	})
	if err != nil {
		t.Fatalf("Expected containment, got: %v", err)
	}
	if results[0].Err == nil {
		t.Error("Expected resolution failure recorded on the sample")
	}
	if results[0].Transcript != nil {
		t.Error("Expected no transcript when resolution fails before the conversation")
	}
}

func TestSolveContainsTeardownFailure(t *testing.T) {
	handle := bench.NewHandle(&echoLLM{toolToCall: "probe", finalText: "done"})
	solver := NewSolver(&stubResolver{}, 0)

	sample := sampleWithSetup("s1", `set("staged", "v")`)
	sample.Input.Teardown = "nosuchfunc()"

	results, err := solver.Solve(context.Background(), handle, []bench.Sample{sample})
	if err != nil {
		t.Fatalf("Expected containment, got: %v", err)
	}
	if results[0].Err == nil {
		t.Error("Expected teardown failure recorded on the sample")
	}
	// The conversation had already finished; its outputs are kept
	if results[0].Response != "done" {
		t.Errorf("Expected response kept despite teardown failure, got %q", results[0].Response)
	}
}

func TestSolveStopsOnCancelledContext(t *testing.T) {
	handle := bench.NewHandle(&echoLLM{toolToCall: "probe", finalText: "done"})
	solver := NewSolver(&stubResolver{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := solver.Solve(ctx, handle, []bench.Sample{
		sampleWithSetup("s1", `set("staged", "v")`),
	})
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if len(results) != 0 {
		t.Errorf("Expected no results after pre-cancelled context, got %d", len(results))
	}
}
