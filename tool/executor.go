package tool

import (
	"context"
	"sort"

	ai "github.com/spetersoncode/thinkact"
)

// Executor runs tool calls. *Registry, remote MCP registries and Multi
// implement it.
//
// Execute returns an error only when the call could not be attempted at all;
// a tool that ran and failed reports that through ToolResult.IsError.
type Executor interface {
	Tools() []ai.Tool
	Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error)
}

var _ Executor = (*Registry)(nil)

// Multi combines several executors. A call is routed to the first executor
// that offers a tool with the call's name.
type Multi []Executor

// Tools returns the union of tool definitions, sorted by name. When two
// executors offer the same name, the earlier executor wins.
func (m Multi) Tools() []ai.Tool {
	seen := make(map[string]bool)
	var tools []ai.Tool
	for _, e := range m {
		for _, t := range e.Tools() {
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			tools = append(tools, t)
		}
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Execute routes the call to the executor that owns the tool.
func (m Multi) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	for _, e := range m {
		for _, t := range e.Tools() {
			if t.Name == call.Name {
				return e.Execute(ctx, call)
			}
		}
	}
	return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
}
