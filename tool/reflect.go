package tool

import (
	"context"
	"encoding/json"

	ai "github.com/spetersoncode/thinkact"
)

// SchemaFor generates a JSON schema from a struct type T.
// This is a convenience re-export of thinkact.SchemaFor.
func SchemaFor[T any]() (json.RawMessage, error) {
	return ai.SchemaFor[T]()
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	return ai.MustSchemaFor[T]()
}

// typed adapts a TypedHandler to a Handler. Empty arguments decode to the
// zero value of T.
func typed[T any](fn TypedHandler[T]) Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", err
			}
		}
		return fn(ctx, args)
	}
}
