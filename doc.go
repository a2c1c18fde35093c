// Package thinkact provides the shared types of a reason-then-act agent runtime.
//
// An agent repeatedly asks a language model for a decision, executes the tool
// calls the model requested, folds the results back into the conversation and
// repeats until the model answers without tools, the reserved terminate tool
// is called, or the step budget runs out.
//
// This root package defines the vocabulary shared by every other package:
//
//   - [Message] and [Role]: a conversation turn (system, user, assistant, tool)
//   - [ToolCall] and [ToolResult]: a model's request to run a tool and its outcome
//   - [Tool]: a tool signature (name, description, JSON Schema parameters)
//   - [Response]: one assistant turn returned by a model
//   - [Option]: per-request chat options (model, system prompt, tools, ...)
//   - [Error]: categorized errors used to decide whether a call can be retried
//
// The agent loop lives in [github.com/spetersoncode/thinkact/agent], tool
// registration and dispatch in [github.com/spetersoncode/thinkact/tool], and
// model clients in [github.com/spetersoncode/thinkact/client].
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: thinkact.ProviderAnthropic,
//	    APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Terminate(),
//	    tool.Func("get_weather", "Get current weather", weatherFn),
//	)
//
//	a := agent.New(c, tool.NewDispatcher(registry),
//	    agent.WithMaxSteps(10),
//	    agent.WithSystemPrompt("You are a helpful assistant."),
//	)
//
//	result, err := a.Run(ctx, "What's the weather in Paris?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.FinalText)
//
// # Termination
//
// The model ends a run either by answering without tool calls or by calling
// the tool named [TerminateToolName]. Text content is never parsed for intent.
package thinkact
