package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	ai "github.com/spetersoncode/thinkact"
)

// Dispatcher executes the tool calls of an assistant turn and folds the
// results back into a conversation.
// It is stateless between calls and safe for concurrent use.
type Dispatcher struct {
	exec        Executor
	parallel    bool
	callTimeout time.Duration
	logger      zerolog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithParallel controls whether the calls of one turn run concurrently.
// Results are always reported in request order. Default: true.
func WithParallel(enabled bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.parallel = enabled
	}
}

// WithCallTimeout bounds each individual call. A call that exceeds it is
// reported as a failed result. Zero means no limit.
func WithCallTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.callTimeout = timeout
	}
}

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher over an executor.
func NewDispatcher(exec Executor, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		exec:     exec,
		parallel: true,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tools returns the tool signatures offered to the model.
func (d *Dispatcher) Tools() []ai.Tool {
	return d.exec.Tools()
}

// Dispatch executes every call of turn and returns a new conversation: a copy
// of conversation, followed by turn, followed by one tool message holding one
// result per call in request order. The input slice is never modified.
//
// A tool that fails, is unknown or receives invalid arguments produces an
// IsError result. Dispatch itself fails only when turn requests no tools
// (ErrNoToolCalls) or the mechanism is unavailable (ErrUnavailable).
func (d *Dispatcher) Dispatch(ctx context.Context, conversation []ai.Message, turn ai.Message) ([]ai.Message, error) {
	if turn.Role != ai.RoleAssistant || !turn.HasToolCalls() {
		return nil, ErrNoToolCalls
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	results := make([]ai.ToolResult, len(turn.ToolCalls))

	if d.parallel && len(turn.ToolCalls) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i, call := range turn.ToolCalls {
			g.Go(func() error {
				r, err := d.execute(gctx, call)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, call := range turn.ToolCalls {
			r, err := d.execute(ctx, call)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
	}

	out := make([]ai.Message, 0, len(conversation)+2)
	out = append(out, ai.CloneMessages(conversation)...)
	out = append(out, turn.Clone(), ai.NewToolResultMessage(results...))
	return out, nil
}

// execute runs one call. Only ErrUnavailable escapes as an error; everything
// else becomes an IsError result.
func (d *Dispatcher) execute(ctx context.Context, call ai.ToolCall) (result ai.ToolResult, err error) {
	if d.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.callTimeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			err = nil
			result = ai.ToolResult{Content: fmt.Sprintf("tool panicked: %v", p), IsError: true}
		}
		if err == nil {
			result.ToolCallID = call.ID
			result.ToolName = call.Name
			d.logger.Debug().
				Str("tool", call.Name).
				Str("call_id", call.ID).
				Bool("is_error", result.IsError).
				Msg("tool call finished")
		}
	}()

	result, err = d.exec.Execute(ctx, call)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			d.logger.Error().Err(err).Str("tool", call.Name).Msg("tool dispatch unavailable")
			return ai.ToolResult{}, err
		}
		return ai.ToolResult{Content: err.Error(), IsError: true}, nil
	}
	return result, nil
}
