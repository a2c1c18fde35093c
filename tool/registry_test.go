package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/thinkact"
)

type testArgs struct {
	Query string `json:"query" desc:"Search query" required:"true"`
}

type calcArgs struct {
	A int `json:"a" required:"true"`
	B int `json:"b" required:"true"`
}

func TestRegistryAdd(t *testing.T) {
	t.Run("registers single tool with Func", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("search", "Search the web", func(ctx context.Context, args testArgs) (string, error) {
				return "result: " + args.Query, nil
			}),
		)

		assert.Equal(t, 1, registry.Len())
		handler, ok := registry.Get("search")
		assert.True(t, ok)
		assert.NotNil(t, handler)

		tool, ok := registry.GetTool("search")
		assert.True(t, ok)
		assert.Equal(t, "search", tool.Name)
		assert.Equal(t, "Search the web", tool.Description)
	})

	t.Run("registers multiple tools in single Add call", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("search", "Search the web", func(ctx context.Context, args testArgs) (string, error) {
				return "search result", nil
			}),
			Func("calc", "Calculate sum", func(ctx context.Context, args calcArgs) (string, error) {
				return "calc result", nil
			}),
		)

		assert.Equal(t, 2, registry.Len())
		assert.Equal(t, []string{"calc", "search"}, registry.Names())
	})

	t.Run("chains multiple Add calls", func(t *testing.T) {
		registry := NewRegistry().
			Add(Func("first", "First tool", func(ctx context.Context, args testArgs) (string, error) {
				return "first", nil
			})).
			Add(Func("second", "Second tool", func(ctx context.Context, args testArgs) (string, error) {
				return "second", nil
			})).
			Add(Func("third", "Third tool", func(ctx context.Context, args testArgs) (string, error) {
				return "third", nil
			}))

		assert.Equal(t, 3, registry.Len())
		assert.Contains(t, registry.Names(), "first")
		assert.Contains(t, registry.Names(), "second")
		assert.Contains(t, registry.Names(), "third")
	})

	t.Run("panics on duplicate tool name", func(t *testing.T) {
		assert.Panics(t, func() {
			NewRegistry().Add(
				Func("dupe", "First", func(ctx context.Context, args testArgs) (string, error) {
					return "", nil
				}),
				Func("dupe", "Duplicate", func(ctx context.Context, args testArgs) (string, error) {
					return "", nil
				}),
			)
		})
	})
}

func TestFunc(t *testing.T) {
	t.Run("creates Registration with correct tool definition", func(t *testing.T) {
		reg := Func("myTool", "My description", func(ctx context.Context, args testArgs) (string, error) {
			return args.Query, nil
		})

		assert.Equal(t, "myTool", reg.Tool.Name)
		assert.Equal(t, "My description", reg.Tool.Description)
		assert.NotNil(t, reg.Tool.Parameters)
		assert.NotNil(t, reg.Handler)
	})

	t.Run("handler correctly unmarshals arguments", func(t *testing.T) {
		reg := Func("test", "Test", func(ctx context.Context, args testArgs) (string, error) {
			return "got: " + args.Query, nil
		})

		result, err := reg.Handler(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      "test",
			Arguments: `{"query": "hello world"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "got: hello world", result)
	})

	t.Run("handler returns error on invalid JSON", func(t *testing.T) {
		reg := Func("test", "Test", func(ctx context.Context, args testArgs) (string, error) {
			return args.Query, nil
		})

		_, err := reg.Handler(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      "test",
			Arguments: `{invalid json}`,
		})

		assert.Error(t, err)
	})
}

func TestWithHandler(t *testing.T) {
	t.Run("creates Registration from Handler", func(t *testing.T) {
		schema := json.RawMessage(`{"type": "object"}`)
		handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "handled", nil
		}

		reg := WithHandler("custom", "Custom handler", schema, handler)

		assert.Equal(t, "custom", reg.Tool.Name)
		assert.Equal(t, "Custom handler", reg.Tool.Description)
		assert.Equal(t, schema, reg.Tool.Parameters)
		assert.NotNil(t, reg.Handler)
	})
}

func TestWithTool(t *testing.T) {
	t.Run("creates Registration from existing Tool", func(t *testing.T) {
		tool := ai.Tool{
			Name:        "existing",
			Description: "Existing tool",
			Parameters:  json.RawMessage(`{"type": "object"}`),
		}
		handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "handled", nil
		}

		reg := WithTool(tool, handler)

		assert.Equal(t, tool.Name, reg.Tool.Name)
		assert.Equal(t, tool.Description, reg.Tool.Description)
		assert.Equal(t, tool.Parameters, reg.Tool.Parameters)
		assert.NotNil(t, reg.Handler)
	})
}

func TestRegistryExecuteWithFluentRegistration(t *testing.T) {
	t.Run("executes tool registered via fluent API", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("greet", "Greet someone", func(ctx context.Context, args struct {
				Name string `json:"name" required:"true"`
			}) (string, error) {
				return "Hello, " + args.Name + "!", nil
			}),
		)

		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_123",
			Name:      "greet",
			Arguments: `{"name": "World"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "call_123", result.ToolCallID)
		assert.Equal(t, "Hello, World!", result.Content)
		assert.False(t, result.IsError)
	})
}

func TestRegistryExecute(t *testing.T) {
	registry := NewRegistry().Add(
		Func("search", "Search", func(ctx context.Context, args testArgs) (string, error) {
			return "found " + args.Query, nil
		}),
		WithHandler("broken", "Always fails", ai.EmptySchema, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", errors.New("disk full")
		}),
	)

	t.Run("stamps call id and tool name", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c1", Name: "search", Arguments: `{"query":"go"}`})
		require.NoError(t, err)
		assert.Equal(t, ai.ToolResult{ToolCallID: "c1", ToolName: "search", Content: "found go"}, result)
	})

	t.Run("unknown tool returns ErrToolNotFound", func(t *testing.T) {
		_, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c1", Name: "missing"})
		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.Name)
	})

	t.Run("handler error becomes result data", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c2", Name: "broken"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "disk full", result.Content)
		assert.Equal(t, "broken", result.ToolName)
	})

	t.Run("missing required argument fails validation", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c3", Name: "search", Arguments: `{}`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "invalid arguments for search")
		assert.Contains(t, result.Content, "query")
	})

	t.Run("wrong argument type fails validation", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c4", Name: "search", Arguments: `{"query": 42}`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("malformed arguments fail validation", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c5", Name: "search", Arguments: `{nope`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestRegistryTools_Sorted(t *testing.T) {
	registry := NewRegistry().Add(
		WithHandler("zeta", "", nil, nil),
		WithHandler("alpha", "", nil, nil),
		WithHandler("mid", "", nil, nil),
	)

	var names []string
	for _, tl := range registry.Tools() {
		names = append(names, tl.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestRegistryRegister_InvalidSchema(t *testing.T) {
	err := NewRegistry().Register(ai.Tool{Name: "bad", Parameters: json.RawMessage(`{"type": 5}`)}, nil)
	assert.Error(t, err)
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry().Add(Terminate())
	registry.Unregister(ai.TerminateToolName)
	registry.Unregister("never-registered")
	assert.Zero(t, registry.Len())
}

func TestTerminate(t *testing.T) {
	registry := NewRegistry().Add(Terminate())

	tl, ok := registry.GetTool(ai.TerminateToolName)
	require.True(t, ok)
	assert.Contains(t, tl.Description, "Terminate the interaction")

	result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "t1", Name: ai.TerminateToolName, Arguments: `{}`})
	require.NoError(t, err)
	assert.Equal(t, TerminateAck, result.Content)
	assert.False(t, result.IsError)

	result, err = registry.Execute(context.Background(), ai.ToolCall{ID: "t2", Name: ai.TerminateToolName})
	require.NoError(t, err)
	assert.Equal(t, TerminateAck, result.Content)
}
