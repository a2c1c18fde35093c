package agent

import (
	"context"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/chat"
	"github.com/spetersoncode/thinkact/tool"
)

// Dispatcher executes the tool calls of an assistant turn. It returns the full
// updated conversation: the input followed by turn and one tool message with
// a result per call, in request order. *tool.Dispatcher implements it.
type Dispatcher interface {
	Tools() []ai.Tool
	Dispatch(ctx context.Context, conversation []ai.Message, turn ai.Message) ([]ai.Message, error)
}

var _ Dispatcher = (*tool.Dispatcher)(nil)

// Agent holds the stateless collaborators and default options shared by every
// run. It is safe for concurrent use; each run gets its own Loop.
type Agent struct {
	client     chat.Client
	dispatcher Dispatcher
	opts       []Option
}

// New creates a new Agent with the given chat client and tool dispatcher.
func New(c chat.Client, d Dispatcher, opts ...Option) *Agent {
	return &Agent{
		client:     c,
		dispatcher: d,
		opts:       opts,
	}
}

// NewLoop creates a fresh, single-use loop with an empty conversation.
// Options given here are applied after the agent's defaults.
func (a *Agent) NewLoop(opts ...Option) *Loop {
	all := make([]Option, 0, len(a.opts)+len(opts))
	all = append(all, a.opts...)
	all = append(all, opts...)
	return newLoop(a.client, a.dispatcher, ApplyOptions(all...))
}

// Run executes task on a new loop and returns the final result.
// This is a blocking call that runs until the loop reaches a terminal state.
func (a *Agent) Run(ctx context.Context, task string, opts ...Option) (*Result, error) {
	return a.NewLoop(opts...).Run(ctx, task)
}
