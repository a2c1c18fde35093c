package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/chat"
	"github.com/spetersoncode/thinkact/event"
	"github.com/spetersoncode/thinkact/store"
)

// failurePrefix starts the synthetic assistant turn recorded when the model
// call fails.
const failurePrefix = "Error while processing: "

// noToolCalls is returned by Act when there is no pending decision.
const noToolCalls = "no tool calls"

// Loop is the think/act state machine for one task. A Loop is single-use:
// once it reaches StateFinished or StateFailed it cannot be stepped again.
//
// Snapshot may be called from any goroutine. Run, Step, Think and Act are
// meant to be driven by one goroutine at a time.
type Loop struct {
	id         string
	client     chat.Client
	dispatcher Dispatcher
	opts       *Options
	logger     zerolog.Logger
	events     chan<- event.Event

	conversation *store.MessageStore

	mu          sync.Mutex
	state       State
	steps       int
	pending     *ai.Response
	thinkFailed bool
	termination TerminationReason
	usage       ai.Usage
}

func newLoop(c chat.Client, d Dispatcher, opts *Options) *Loop {
	id := uuid.NewString()
	return &Loop{
		id:           id,
		client:       c,
		dispatcher:   d,
		opts:         opts,
		logger:       opts.Logger.With().Str("run_id", id).Logger(),
		events:       opts.Events,
		conversation: store.NewMessageStore(nil),
		state:        StateIdle,
	}
}

// ID returns the run identifier used in logs, events and transcripts.
func (l *Loop) ID() string { return l.id }

// Snapshot returns the current state and step count as one consistent pair.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{State: l.state, Steps: l.steps}
}

// Messages returns a copy of the conversation.
func (l *Loop) Messages() []ai.Message {
	return l.conversation.Messages()
}

// Run appends task to the conversation and executes steps until the loop
// reaches a terminal state.
//
// A Result is returned whenever the task was accepted, together with an error
// for the fatal outcomes: ErrCancelled, ErrDispatchUnavailable, and
// ErrBudgetExhausted when the budget ran out before any assistant text.
func (l *Loop) Run(ctx context.Context, task string) (*Result, error) {
	if strings.TrimSpace(task) == "" {
		return nil, ErrEmptyTask
	}

	l.mu.Lock()
	if l.state != StateIdle {
		st := l.state
		l.mu.Unlock()
		return nil, &StateError{Op: "run", State: st}
	}
	l.conversation.Append(ai.NewUserMessage(task))
	if err := l.transitionLocked(StateRunning, ""); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.mu.Unlock()

	l.logger.Info().Int("max_steps", l.opts.MaxSteps).Msg("run started")
	l.emit(event.Event{Type: event.RunStart, Message: task})

	var runErr error
	for {
		snap := l.Snapshot()
		if snap.State != StateRunning {
			break
		}
		if snap.Steps >= l.opts.MaxSteps {
			l.finish(TerminationMaxSteps)
			break
		}
		if _, err := l.Step(ctx); err != nil {
			runErr = err
			break
		}
	}

	result := l.result()
	if runErr == nil && result.Termination == TerminationMaxSteps && result.FinalText == "" {
		runErr = ErrBudgetExhausted
	}
	l.persist(ctx)

	if runErr != nil {
		l.logger.Error().Err(runErr).Str("termination", string(result.Termination)).Msg("run stopped")
	} else {
		l.logger.Info().
			Str("termination", string(result.Termination)).
			Int("steps", result.Steps).
			Msg("run finished")
	}
	return result, runErr
}

// Step runs one think/act cycle and returns the act summary. When think
// decides no action is needed the loop finishes within this step.
func (l *Loop) Step(ctx context.Context) (string, error) {
	if _, err := l.requireRunning("step"); err != nil {
		return "", err
	}
	// A step cancelled before its think does not count against the budget.
	if err := l.checkCancel(ctx); err != nil {
		return "", err
	}

	l.mu.Lock()
	l.steps++
	step := l.steps
	l.mu.Unlock()

	l.logger.Debug().Int("step", step).Msg("step started")
	l.emit(event.Event{Type: event.StepStart, Step: step})

	act, err := l.Think(ctx)
	if err != nil {
		return "", err
	}

	var summary string
	if !act {
		summary = "Thinking complete - no action needed"
		l.mu.Lock()
		reason := TerminationComplete
		if l.thinkFailed {
			reason = TerminationModelError
		}
		l.mu.Unlock()
		l.finish(reason)
	} else {
		summary, err = l.Act(ctx)
		if err != nil {
			return "", err
		}
	}

	l.emit(event.Event{Type: event.StepEnd, Step: step, Message: summary})
	return summary, nil
}

// Think asks the model for the next decision. It reports true when the model
// requested tool calls; the decision is then held for Act and nothing is
// appended. Otherwise the assistant turn is appended and false is returned.
//
// A model failure is recorded as a synthetic assistant turn and reported as
// false with a nil error, so the run stops gracefully with a transcript.
func (l *Loop) Think(ctx context.Context) (bool, error) {
	step, err := l.requireRunning("think")
	if err != nil {
		return false, err
	}
	if err := l.checkCancel(ctx); err != nil {
		return false, err
	}

	if l.opts.NextStepPrompt != "" {
		l.conversation.Append(ai.NewUserMessage(l.opts.NextStepPrompt))
	}

	resp, chatErr := l.client.Chat(ctx, l.conversation.Messages(), l.chatOptions()...)
	if err := l.checkCancel(ctx); err != nil {
		return false, err
	}
	if chatErr == nil && resp == nil {
		chatErr = errors.New("model returned no response")
	}

	if chatErr != nil {
		l.logger.Error().Err(chatErr).Int("step", step).Msg("model call failed")
		l.conversation.Append(ai.NewAssistantMessage(failurePrefix + chatErr.Error()))
		l.mu.Lock()
		l.pending = nil
		l.thinkFailed = true
		l.mu.Unlock()
		l.emit(event.Event{Type: event.ThinkEnd, Step: step, Error: chatErr})
		return false, nil
	}

	for i := range resp.ToolCalls {
		if resp.ToolCalls[i].ID == "" {
			resp.ToolCalls[i].ID = fmt.Sprintf("call-%d-%d", step, i+1)
		}
	}

	names := make([]string, len(resp.ToolCalls))
	for i, tc := range resp.ToolCalls {
		names[i] = tc.Name
	}
	l.logger.Info().
		Int("step", step).
		Str("thoughts", resp.Content).
		Int("tool_count", len(resp.ToolCalls)).
		Strs("tools", names).
		Msg("model decided")

	l.mu.Lock()
	l.usage = l.usage.Add(resp.Usage)
	l.thinkFailed = false
	if resp.HasToolCalls() {
		l.pending = resp
	} else {
		l.pending = nil
	}
	l.mu.Unlock()

	l.emit(event.Event{Type: event.ThinkEnd, Step: step, Response: resp})

	if !resp.HasToolCalls() {
		l.conversation.Append(resp.Message())
		return false, nil
	}
	return true, nil
}

// Act dispatches the pending decision's tool calls, replaces the conversation
// with the dispatcher's result and finishes the loop if the terminate tool was
// among them. It returns one summary line per tool result.
//
// With no pending decision Act returns "no tool calls" and changes nothing.
// If dispatch is unavailable, or returns a malformed exchange, the loop fails
// with a *DispatchError.
func (l *Loop) Act(ctx context.Context) (string, error) {
	step, err := l.requireRunning("act")
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()
	if pending == nil {
		return noToolCalls, nil
	}

	if err := l.checkCancel(ctx); err != nil {
		return "", err
	}

	turn := pending.Message()
	conversation := l.conversation.Messages()

	fwdCtx := ctx
	if l.events != nil {
		fwdCtx = event.WithForwardChannel(ctx, l.events)
	}
	updated, dispatchErr := l.dispatcher.Dispatch(fwdCtx, conversation, turn)
	if err := l.checkCancel(ctx); err != nil {
		return "", err
	}
	if dispatchErr != nil {
		return "", l.failDispatch(step, dispatchErr)
	}

	results, err := checkExchange(turn, updated)
	if err != nil {
		return "", l.failDispatch(step, err)
	}

	l.conversation.Replace(updated)

	terminated := false
	lines := make([]string, len(results))
	for i, r := range results {
		call := turn.ToolCalls[i]
		name := r.ToolName
		if name == "" {
			name = call.Name
		}
		if name == ai.TerminateToolName {
			terminated = true
		}

		if r.IsError {
			lines[i] = fmt.Sprintf("Tool %s failed: %s", name, r.Content)
		} else {
			lines[i] = fmt.Sprintf("Tool %s completed: %s", name, r.Content)
		}
		l.logger.Info().Int("step", step).Str("tool", name).Bool("is_error", r.IsError).Msg(lines[i])
		l.emit(event.Event{Type: event.ToolCallResult, Step: step, ToolCall: &call, ToolResult: &r})
	}

	if terminated {
		l.finish(TerminationTerminated)
	}
	return strings.Join(lines, "\n"), nil
}

// checkExchange verifies that updated ends with turn followed by one tool
// message whose results match the calls one-to-one, by ID and in order.
func checkExchange(turn ai.Message, updated []ai.Message) ([]ai.ToolResult, error) {
	if len(updated) < 2 {
		return nil, errors.New("dispatcher returned fewer than two messages")
	}
	assistant := updated[len(updated)-2]
	tail := updated[len(updated)-1]

	if assistant.Role != ai.RoleAssistant || len(assistant.ToolCalls) != len(turn.ToolCalls) {
		return nil, errors.New("dispatcher did not record the assistant turn")
	}
	if tail.Role != ai.RoleTool || len(tail.ToolResults) != len(turn.ToolCalls) {
		return nil, fmt.Errorf("dispatcher returned %d results for %d calls", len(tail.ToolResults), len(turn.ToolCalls))
	}
	for i, call := range turn.ToolCalls {
		if assistant.ToolCalls[i].ID != call.ID {
			return nil, fmt.Errorf("assistant turn call %d has id %q, want %q", i, assistant.ToolCalls[i].ID, call.ID)
		}
		if tail.ToolResults[i].ToolCallID != call.ID {
			return nil, fmt.Errorf("result %d answers call %q, want %q", i, tail.ToolResults[i].ToolCallID, call.ID)
		}
	}
	return tail.ToolResults, nil
}

func (l *Loop) chatOptions() []ai.Option {
	opts := make([]ai.Option, 0, len(l.opts.ChatOptions)+2)
	opts = append(opts, l.opts.ChatOptions...)
	if l.opts.SystemPrompt != "" {
		opts = append(opts, ai.WithSystemPrompt(l.opts.SystemPrompt))
	}
	opts = append(opts, ai.WithTools(l.dispatcher.Tools()))
	return opts
}

// requireRunning returns the current step when the loop is running.
func (l *Loop) requireRunning(op string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRunning {
		return 0, &StateError{Op: op, State: l.state}
	}
	return l.steps, nil
}

// transitionLocked moves to the next state. Callers hold l.mu.
func (l *Loop) transitionLocked(to State, reason TerminationReason) error {
	if !canTransition(l.state, to) {
		return &StateError{Op: "transition to " + string(to), State: l.state}
	}
	l.state = to
	if reason != "" {
		l.termination = reason
	}
	if to.Terminal() {
		l.pending = nil
	}
	return nil
}

// finish moves a running loop to StateFinished. It is a no-op on a loop that
// already stopped.
func (l *Loop) finish(reason TerminationReason) {
	l.mu.Lock()
	err := l.transitionLocked(StateFinished, reason)
	step := l.steps
	l.mu.Unlock()
	if err != nil {
		return
	}
	l.emit(event.Event{Type: event.RunEnd, Step: step, Message: string(reason)})
}

// fail moves a running loop to StateFailed and returns err.
func (l *Loop) fail(reason TerminationReason, err error) error {
	l.mu.Lock()
	terr := l.transitionLocked(StateFailed, reason)
	step := l.steps
	l.mu.Unlock()
	if terr == nil {
		l.emit(event.Event{Type: event.RunError, Step: step, Error: err, Message: string(reason)})
	}
	return err
}

func (l *Loop) failDispatch(step int, err error) error {
	l.logger.Error().Err(err).Int("step", step).Msg("tool dispatch unavailable")
	return l.fail(TerminationDispatchError, &DispatchError{Step: step, Err: err})
}

// checkCancel fails the loop if ctx is done. The pending decision is dropped.
func (l *Loop) checkCancel(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return l.fail(TerminationCancelled, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err()))
}

func (l *Loop) result() *Result {
	text, _ := l.conversation.LastAssistantText()

	l.mu.Lock()
	defer l.mu.Unlock()
	return &Result{
		RunID:              l.id,
		FinalText:          text,
		TerminatedNormally: l.state == StateFinished && l.termination.Normal(),
		Termination:        l.termination,
		State:              l.state,
		Steps:              l.steps,
		TotalUsage:         l.usage,
		history:            l.conversation.Clone(),
	}
}

// persist writes the transcript if configured. Failures are logged only.
func (l *Loop) persist(ctx context.Context) {
	if l.opts.Transcript == nil {
		return
	}
	key := l.opts.TranscriptKey
	if key == "" {
		key = l.id
	}
	ms := store.NewMessageStoreFrom(l.conversation.Messages(), l.opts.Transcript)
	if err := ms.Sync(context.WithoutCancel(ctx), key); err != nil {
		err = fmt.Errorf("%w: %w", ErrTranscriptPersist, err)
		l.logger.Warn().Err(err).Str("key", key).Msg("transcript not persisted")
	}
}

func (l *Loop) emit(e event.Event) {
	e.RunID = l.id
	event.Emit(l.events, e)
}
