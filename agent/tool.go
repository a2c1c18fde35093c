package agent

import (
	"context"
	"encoding/json"
	"fmt"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/event"
	"github.com/spetersoncode/thinkact/tool"
)

// ToolArgs is the default argument type for agent tools.
type ToolArgs struct {
	Task string `json:"task" desc:"The task for the agent to carry out" required:"true"`
}

// ToolOption configures an agent tool.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description   string
	maxSteps      int
	agentOptions  []Option
	forwardEvents bool
}

// WithToolDescription sets a custom description for the agent tool.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) {
		c.description = desc
	}
}

// WithToolMaxSteps sets the maximum steps for the sub-agent.
func WithToolMaxSteps(n int) ToolOption {
	return func(c *toolConfig) {
		c.maxSteps = n
	}
}

// WithToolAgentOptions passes options through to the sub-agent's loop.
func WithToolAgentOptions(opts ...Option) ToolOption {
	return func(c *toolConfig) {
		c.agentOptions = append(c.agentOptions, opts...)
	}
}

// WithToolEventForwarding sends the sub-agent's events to the parent loop's
// event channel when the parent dispatches with one attached.
func WithToolEventForwarding() ToolOption {
	return func(c *toolConfig) {
		c.forwardEvents = true
	}
}

// NewTool wraps an agent as a callable tool. Each call runs the task on a
// fresh loop and returns its final text.
//
// Example:
//
//	research := agent.New(client, researchDispatcher)
//	registry.Add(agent.NewTool("research", research,
//	    agent.WithToolDescription("Delegate research to a specialist"),
//	    agent.WithToolMaxSteps(5),
//	))
func NewTool(name string, a *Agent, opts ...ToolOption) tool.Registration {
	return NewToolFunc(name, a, fmt.Sprintf("Invoke the %s agent", name),
		func(args ToolArgs) string { return args.Task }, opts...)
}

// NewToolFunc wraps an agent as a tool with typed arguments. toTask renders
// the arguments into the task text given to the sub-agent.
func NewToolFunc[T any](name string, a *Agent, description string, toTask func(args T) string, opts ...ToolOption) tool.Registration {
	cfg := &toolConfig{
		description: description,
		maxSteps:    5,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", fmt.Errorf("failed to parse arguments: %w", err)
			}
		}

		loopOpts := []Option{WithMaxSteps(cfg.maxSteps)}
		loopOpts = append(loopOpts, cfg.agentOptions...)
		if cfg.forwardEvents {
			if ch := event.ForwardChannelFromContext(ctx); ch != nil {
				loopOpts = append(loopOpts, WithEvents(ch))
			}
		}

		result, err := a.Run(ctx, toTask(args), loopOpts...)
		if err != nil {
			return "", fmt.Errorf("agent %s: %w", name, err)
		}
		if !result.TerminatedNormally && result.FinalText == "" {
			return "", fmt.Errorf("agent %s stopped without an answer (%s)", name, result.Termination)
		}
		return result.FinalText, nil
	}

	return tool.WithHandler(name, cfg.description, tool.MustSchemaFor[T](), handler)
}
