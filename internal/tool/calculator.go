package tool

import (
	"context"
	"fmt"

	"github.com/fpt/go-toolbench/pkg/bench/scope"
	"github.com/fpt/go-toolbench/pkg/message"
)

// newCalculator builds the expression calculator tool. Expressions are
// evaluated against the sample's scope, so setup code can stage inputs the
// model must compute over.
func newCalculator(sc *scope.Scope, name message.ToolName) message.Tool {
	return newDefinition(name,
		"Evaluate an arithmetic or logical expression. Variables stored in the task's working data are available by name. Example: '2 * rate + base'.",
		[]message.ToolArgument{
			{Name: "expression", Description: "Expression to evaluate", Required: true, Type: "string"},
		},
		func(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
			expression, ok := args.String("expression")
			if !ok {
				return message.NewToolResultError("expression parameter is required and must be a string"), nil
			}

			result, err := sc.Eval(expression)
			if err != nil {
				return message.NewToolResultError(fmt.Sprintf("failed to evaluate expression: %v", err)), nil
			}
			return message.NewToolResultText(fmt.Sprintf("%v", result)), nil
		})
}
