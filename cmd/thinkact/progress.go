package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spetersoncode/thinkact/event"
)

// printProgress renders loop events as short human-readable lines until
// events is closed.
func printProgress(w io.Writer, events <-chan event.Event) {
	for e := range events {
		switch e.Type {
		case event.StepStart:
			fmt.Fprintf(w, "── step %d\n", e.Step)
		case event.ThinkEnd:
			if e.Response == nil {
				continue
			}
			if text := strings.TrimSpace(e.Response.Content); text != "" {
				fmt.Fprintf(w, "   thought: %s\n", truncate(text, 200))
			}
			for _, tc := range e.Response.ToolCalls {
				fmt.Fprintf(w, "   → %s %s\n", tc.Name, truncate(tc.Arguments, 120))
			}
		case event.ToolCallResult:
			if e.ToolResult == nil {
				continue
			}
			mark := "✓"
			if e.ToolResult.IsError {
				mark = "✗"
			}
			fmt.Fprintf(w, "   %s %s: %s\n", mark, e.ToolResult.ToolName, truncate(e.ToolResult.Content, 160))
		case event.RunEnd:
			fmt.Fprintf(w, "── done (%s)\n", e.Message)
		case event.RunError:
			fmt.Fprintf(w, "── failed: %v\n", e.Error)
		}
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
