package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/tool"
)

// stubDispatcher returns whatever its dispatch func produces.
type stubDispatcher struct {
	dispatch func(conv []ai.Message, turn ai.Message) ([]ai.Message, error)
	calls    int
}

func (d *stubDispatcher) Tools() []ai.Tool { return nil }

func (d *stubDispatcher) Dispatch(_ context.Context, conv []ai.Message, turn ai.Message) ([]ai.Message, error) {
	d.calls++
	return d.dispatch(conv, turn)
}

// startedLoop returns a loop that has accepted task but not yet stepped.
func startedLoop(t *testing.T, c *scriptedClient, d Dispatcher) *Loop {
	t.Helper()
	l := New(c, d).NewLoop()
	l.mu.Lock()
	l.conversation.Append(ai.NewUserMessage("task"))
	require.NoError(t, l.transitionLocked(StateRunning, ""))
	l.steps = 1
	l.mu.Unlock()
	return l
}

func TestTransitions(t *testing.T) {
	states := []State{StateIdle, StateRunning, StateFinished, StateFailed}
	allowed := map[[2]State]bool{
		{StateIdle, StateRunning}:     true,
		{StateRunning, StateFinished}: true,
		{StateRunning, StateFailed}:   true,
	}

	for _, from := range states {
		for _, to := range states {
			assert.Equal(t, allowed[[2]State{from, to}], canTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateFinished.Terminal())
	assert.True(t, StateFailed.Terminal())
}

func TestLoop_InvalidState(t *testing.T) {
	ctx := context.Background()

	t.Run("idle loop cannot think, act or step", func(t *testing.T) {
		l := newTestAgent(&scriptedClient{}).NewLoop()

		_, err := l.Think(ctx)
		assert.ErrorIs(t, err, ErrInvalidState)
		_, err = l.Act(ctx)
		assert.ErrorIs(t, err, ErrInvalidState)
		_, err = l.Step(ctx)
		var stateErr *StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, StateIdle, stateErr.State)
		assert.Equal(t, Snapshot{State: StateIdle}, l.Snapshot())
	})

	t.Run("finished loop rejects every operation", func(t *testing.T) {
		l := newTestAgent(&scriptedClient{replies: []scriptedReply{reply("4")}}).NewLoop()
		_, err := l.Run(ctx, "2+2?")
		require.NoError(t, err)

		before := l.Messages()
		_, err = l.Run(ctx, "again")
		assert.ErrorIs(t, err, ErrInvalidState)
		_, err = l.Step(ctx)
		assert.ErrorIs(t, err, ErrInvalidState)
		_, err = l.Think(ctx)
		assert.ErrorIs(t, err, ErrInvalidState)
		_, err = l.Act(ctx)
		assert.ErrorIs(t, err, ErrInvalidState)

		assert.Equal(t, before, l.Messages())
		assert.Equal(t, Snapshot{State: StateFinished, Steps: 1}, l.Snapshot())
	})

	t.Run("failed loop stays failed", func(t *testing.T) {
		l := newTestAgent(&scriptedClient{}).NewLoop()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := l.Run(cctx, "task")
		require.ErrorIs(t, err, ErrCancelled)

		_, err = l.Step(ctx)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, StateFailed, l.Snapshot().State)
	})
}

func TestLoop_Think(t *testing.T) {
	ctx := context.Background()

	t.Run("tool decision is held, not appended", func(t *testing.T) {
		c := &scriptedClient{replies: []scriptedReply{reply("checking", call("c1", "reserve", "{}"))}}
		l := startedLoop(t, c, tool.NewDispatcher(testRegistry()))

		act, err := l.Think(ctx)

		require.NoError(t, err)
		assert.True(t, act)
		assert.Len(t, l.Messages(), 1)
		require.NotNil(t, l.pending)
		assert.Equal(t, "c1", l.pending.ToolCalls[0].ID)
	})

	t.Run("plain answer is appended", func(t *testing.T) {
		c := &scriptedClient{replies: []scriptedReply{reply("4")}}
		l := startedLoop(t, c, tool.NewDispatcher(testRegistry()))

		act, err := l.Think(ctx)

		require.NoError(t, err)
		assert.False(t, act)
		msgs := l.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "4", msgs[1].Content)
		assert.Nil(t, l.pending)
		// Think alone does not end the run.
		assert.Equal(t, StateRunning, l.Snapshot().State)
	})

	t.Run("failure is recorded as an assistant turn", func(t *testing.T) {
		c := &scriptedClient{replies: []scriptedReply{failure(errors.New("boom"))}}
		l := startedLoop(t, c, tool.NewDispatcher(testRegistry()))

		act, err := l.Think(ctx)

		require.NoError(t, err)
		assert.False(t, act)
		msgs := l.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "Error while processing: boom", msgs[1].Content)
		assert.True(t, l.thinkFailed)
	})
}

func TestLoop_Act(t *testing.T) {
	ctx := context.Background()

	t.Run("no pending decision", func(t *testing.T) {
		l := startedLoop(t, &scriptedClient{}, tool.NewDispatcher(testRegistry()))

		summary, err := l.Act(ctx)

		require.NoError(t, err)
		assert.Equal(t, "no tool calls", summary)
		assert.Len(t, l.Messages(), 1)
	})

	t.Run("summarizes each result in order", func(t *testing.T) {
		c := &scriptedClient{replies: []scriptedReply{
			reply("", call("c1", "reserve", "{}"), call("c2", "broken", "{}")),
		}}
		l := startedLoop(t, c, tool.NewDispatcher(testRegistry()))
		_, err := l.Think(ctx)
		require.NoError(t, err)

		summary, err := l.Act(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Tool reserve completed: reserved\nTool broken failed: kitchen closed", summary)
		assert.Len(t, l.Messages(), 3)
		assert.Equal(t, StateRunning, l.Snapshot().State)

		// The decision was consumed.
		summary, err = l.Act(ctx)
		require.NoError(t, err)
		assert.Equal(t, "no tool calls", summary)
		assert.Len(t, l.Messages(), 3)
	})

	t.Run("terminate finishes the loop", func(t *testing.T) {
		c := &scriptedClient{replies: []scriptedReply{reply("", terminateCall("c1"))}}
		l := startedLoop(t, c, tool.NewDispatcher(testRegistry()))
		_, err := l.Think(ctx)
		require.NoError(t, err)

		summary, err := l.Act(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Tool doTerminate completed: "+tool.TerminateAck, summary)
		assert.Equal(t, StateFinished, l.Snapshot().State)
		assert.Equal(t, TerminationTerminated, l.termination)
	})
}

func TestLoop_Step(t *testing.T) {
	c := &scriptedClient{replies: []scriptedReply{
		reply("", call("c1", "reserve", "{}")),
		reply("done"),
	}}
	l := New(c, tool.NewDispatcher(testRegistry())).NewLoop()
	l.mu.Lock()
	l.conversation.Append(ai.NewUserMessage("task"))
	require.NoError(t, l.transitionLocked(StateRunning, ""))
	l.mu.Unlock()

	summary, err := l.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tool reserve completed: reserved", summary)
	assert.Equal(t, Snapshot{State: StateRunning, Steps: 1}, l.Snapshot())

	summary, err = l.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Thinking complete - no action needed", summary)
	assert.Equal(t, Snapshot{State: StateFinished, Steps: 2}, l.Snapshot())
}

func TestLoop_DispatchFailure(t *testing.T) {
	ctx := context.Background()
	decision := []scriptedReply{reply("", call("c1", "reserve", "{}"))}

	t.Run("unavailable dispatcher fails the run", func(t *testing.T) {
		cause := errors.New("connection refused")
		d := &stubDispatcher{dispatch: func([]ai.Message, ai.Message) ([]ai.Message, error) {
			return nil, cause
		}}

		result, err := New(&scriptedClient{replies: decision}, d).Run(ctx, "book")

		assert.ErrorIs(t, err, ErrDispatchUnavailable)
		assert.ErrorIs(t, err, cause)
		var dispatchErr *DispatchError
		require.ErrorAs(t, err, &dispatchErr)
		assert.Equal(t, 1, dispatchErr.Step)

		assert.Equal(t, StateFailed, result.State)
		assert.Equal(t, TerminationDispatchError, result.Termination)
		// The conversation is left as it was before the act phase.
		assert.Len(t, result.Messages(), 1)
	})

	malformed := map[string]func(conv []ai.Message, turn ai.Message) ([]ai.Message, error){
		"missing results": func(conv []ai.Message, turn ai.Message) ([]ai.Message, error) {
			return append(conv, turn), nil
		},
		"wrong call id": func(conv []ai.Message, turn ai.Message) ([]ai.Message, error) {
			return append(conv, turn, ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "other"})), nil
		},
		"too many results": func(conv []ai.Message, turn ai.Message) ([]ai.Message, error) {
			return append(conv, turn, ai.NewToolResultMessage(
				ai.ToolResult{ToolCallID: "c1"}, ai.ToolResult{ToolCallID: "c2"},
			)), nil
		},
		"assistant turn dropped": func(conv []ai.Message, turn ai.Message) ([]ai.Message, error) {
			return append(conv, ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "c1"})), nil
		},
	}

	for name, dispatch := range malformed {
		t.Run(name, func(t *testing.T) {
			d := &stubDispatcher{dispatch: dispatch}

			result, err := New(&scriptedClient{replies: decision}, d).Run(ctx, "book")

			assert.ErrorIs(t, err, ErrDispatchUnavailable)
			assert.Equal(t, StateFailed, result.State)
			assert.Equal(t, 1, d.calls)
		})
	}
}

func TestLoop_DispatcherOutputIsCopied(t *testing.T) {
	var returned []ai.Message
	d := &stubDispatcher{dispatch: func(conv []ai.Message, turn ai.Message) ([]ai.Message, error) {
		returned = append(conv, turn, ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "c1", Content: "ok"}))
		return returned, nil
	}}
	c := &scriptedClient{replies: []scriptedReply{reply("", call("c1", "reserve", "{}")), reply("done")}}

	result, err := New(c, d).Run(context.Background(), "book")
	require.NoError(t, err)

	returned[2].ToolResults[0].Content = "tampered"
	assert.Equal(t, "ok", result.Messages()[2].ToolResults[0].Content)
}

func TestLoop_DispatchWithToolExecutorUnavailable(t *testing.T) {
	d := tool.NewDispatcher(unavailableExecutor{})
	c := &scriptedClient{replies: []scriptedReply{reply("", call("c1", "remote", "{}"))}}

	result, err := New(c, d).Run(context.Background(), "use remote")

	assert.ErrorIs(t, err, ErrDispatchUnavailable)
	assert.ErrorIs(t, err, tool.ErrUnavailable)
	assert.Equal(t, StateFailed, result.State)
}

type unavailableExecutor struct{}

func (unavailableExecutor) Tools() []ai.Tool { return []ai.Tool{{Name: "remote"}} }

func (unavailableExecutor) Execute(context.Context, ai.ToolCall) (ai.ToolResult, error) {
	return ai.ToolResult{}, tool.ErrUnavailable
}
