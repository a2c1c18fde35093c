package tool

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	ai "github.com/spetersoncode/thinkact"
)

// compileSchema prepares a tool's parameter schema for validation.
// A tool without parameters yields a nil schema.
func compileSchema(t ai.Tool) (*gojsonschema.Schema, error) {
	if len(t.Parameters) == 0 {
		return nil, nil
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(t.Parameters))
	if err != nil {
		return nil, fmt.Errorf("tool: invalid parameter schema for %s: %w", t.Name, err)
	}
	return schema, nil
}

// validateArguments checks call arguments against a compiled schema.
func validateArguments(schema *gojsonschema.Schema, call ai.ToolCall) error {
	if schema == nil {
		return nil
	}
	args := call.Arguments
	if args == "" {
		args = "{}"
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(args))
	if err != nil {
		return &ErrInvalidArguments{Name: call.Name, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return &ErrInvalidArguments{Name: call.Name, Problems: problems}
}
