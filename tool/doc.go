// Package tool provides tool registration and dispatch for agent loops.
//
// This package includes:
//   - Registry and Handler types for tool management
//   - Function binding with automatic schema generation from struct tags
//   - Argument validation against each tool's JSON Schema
//   - Dispatcher, which executes the tool calls of one assistant turn and
//     folds the results back into the conversation
//   - The reserved terminate tool
//
// # Basic Usage
//
// Define tool arguments as a struct with tags, then register with Func:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" desc:"City name" required:"true"`
//	    Unit     string `json:"unit" desc:"Temperature unit" enum:"celsius,fahrenheit"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Get current weather",
//	        func(ctx context.Context, args WeatherArgs) (string, error) {
//	            return fmt.Sprintf(`{"temp": 72, "location": %q}`, args.Location), nil
//	        }),
//	    tool.Terminate(),
//	)
//
//	dispatcher := tool.NewDispatcher(registry, tool.WithCallTimeout(30*time.Second))
//
// # Failure Model
//
// A failing tool never fails the dispatch. Handler errors, panics, unknown tool
// names and arguments that violate the schema are reported back to the model
// as results with IsError set. Dispatch returns an error only for a turn
// without tool calls or when the executor is unavailable ([ErrUnavailable]).
//
// # Executors
//
// Dispatch runs calls through an [Executor]. [Registry] executes local
// handlers; remote backends such as MCP servers implement the same interface,
// and [Multi] combines several executors behind one dispatcher.
package tool
