// Package bench holds the core data model of the evaluation harness and the
// model handle that drives one conversation with tool calling.
package bench

// ToolSpec references the tool a sample binds during its solve: the factory
// name looked up in the registry, and an optional display-name alias.
type ToolSpec struct {
	Factory string
	Alias   string
}

// SampleInput carries the prompt sent to the model and the setup/teardown
// programs run against the sample's execution scope.
type SampleInput struct {
	Prompt   string
	Setup    string
	Teardown string
}

// Sample is one evaluation case. Samples are immutable after dataset load.
type Sample struct {
	ID       string
	Type     string
	Tool     ToolSpec
	Input    SampleInput
	Target   string
	Metadata map[string]any
}
