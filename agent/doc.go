// Package agent implements the think/act loop that drives a task to
// completion with a chat model and a tool dispatcher.
//
// Each task runs on its own Loop. A step asks the model for a decision
// (think) and, when the decision requests tools, hands the calls to the
// dispatcher and folds the results back into the conversation (act). The
// loop stops when the model answers without tools, when it calls the
// terminate tool, when the model call fails, when the step budget runs out,
// or when the caller cancels.
//
// # Basic Usage
//
//	registry := tool.NewRegistry().Add(tool.Terminate())
//	tool.MustRegisterFunc(registry, "get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return fmt.Sprintf(`{"temp": 72, "location": %q}`, args.Location), nil
//	    },
//	)
//
//	a := agent.New(client, tool.NewDispatcher(registry))
//	result, err := a.Run(ctx, "What's the weather in Paris?", agent.WithMaxSteps(5))
//
// # Lifecycle
//
// A loop moves idle -> running -> finished or failed and never leaves a
// terminal state. Finished covers every graceful stop, including a failed
// model call, which is recorded as an assistant turn. Failed is reserved for
// cancellation and for a dispatcher that cannot run tools at all.
//
// # Events
//
// WithEvents attaches a channel that receives step events. Sends never
// block; events are dropped when the channel is full.
package agent
