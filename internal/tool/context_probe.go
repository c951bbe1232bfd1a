package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/fpt/go-toolbench/pkg/bench/scope"
	"github.com/fpt/go-toolbench/pkg/message"
)

// newContextProbe builds the scope inspection tool. It lets the model read
// and write the sample's key-value scope, which is how most datasets verify
// that the model actually consulted the tool instead of guessing.
func newContextProbe(sc *scope.Scope, name message.ToolName) message.Tool {
	return newDefinition(name,
		"Inspect and modify the task's working data. Operations: 'get' reads a key, 'set' stores a value, 'list' enumerates all keys with their values.",
		[]message.ToolArgument{
			{Name: "operation", Description: "One of 'get', 'set', 'list'", Required: true, Type: "string"},
			{Name: "key", Description: "Key to read or write (required for get/set)", Required: false, Type: "string"},
			{Name: "value", Description: "Value to store (required for set)", Required: false, Type: "string"},
		},
		func(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
			op, ok := args.String("operation")
			if !ok {
				return message.NewToolResultError("operation parameter is required and must be a string"), nil
			}

			switch op {
			case "get":
				key, ok := args.String("key")
				if !ok {
					return message.NewToolResultError("key parameter is required for 'get'"), nil
				}
				v, found := sc.Get(key)
				if !found {
					return message.NewToolResultError(fmt.Sprintf("key '%s' not found", key)), nil
				}
				return message.NewToolResultText(fmt.Sprintf("%v", v)), nil

			case "set":
				key, ok := args.String("key")
				if !ok {
					return message.NewToolResultError("key parameter is required for 'set'"), nil
				}
				value, exists := args["value"]
				if !exists {
					return message.NewToolResultError("value parameter is required for 'set'"), nil
				}
				sc.Set(key, value)
				return message.NewToolResultText(fmt.Sprintf("stored %s", key)), nil

			case "list":
				keys := sc.Keys()
				if len(keys) == 0 {
					return message.NewToolResultText("(empty)"), nil
				}
				var b strings.Builder
				for _, k := range keys {
					v, _ := sc.Get(k)
					fmt.Fprintf(&b, "%s: %v\n", k, v)
				}
				return message.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil

			default:
				return message.NewToolResultError(fmt.Sprintf("unsupported operation '%s'", op)), nil
			}
		})
}
