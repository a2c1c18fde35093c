package thinkact

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaTestArgs struct {
	Query   string   `json:"query" desc:"Search query" required:"true"`
	Limit   int      `json:"limit,omitempty" desc:"Max results"`
	Ratio   float64  `json:"ratio"`
	Strict  bool     `json:"strict"`
	Tags    []string `json:"tags"`
	Mode    string   `json:"mode" enum:"fast, thorough"`
	Skipped string   `json:"-"`
	hidden  string
	Nested  struct {
		Name string `json:"name" required:"true"`
	} `json:"nested"`
}

func TestSchemaFor(t *testing.T) {
	raw, err := SchemaFor[schemaTestArgs]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"query"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Len(t, props, 7)
	assert.NotContains(t, props, "Skipped")
	assert.NotContains(t, props, "hidden")

	query := props["query"].(map[string]any)
	assert.Equal(t, "string", query["type"])
	assert.Equal(t, "Search query", query["description"])

	assert.Equal(t, "integer", props["limit"].(map[string]any)["type"])
	assert.Equal(t, "number", props["ratio"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["strict"].(map[string]any)["type"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "string", tags["items"].(map[string]any)["type"])

	assert.Equal(t, []any{"fast", "thorough"}, props["mode"].(map[string]any)["enum"])

	nested := props["nested"].(map[string]any)
	assert.Equal(t, "object", nested["type"])
	assert.Equal(t, []any{"name"}, nested["required"])
}

func TestSchemaFor_Pointer(t *testing.T) {
	raw, err := SchemaFor[*schemaTestArgs]()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"query"`)
}

func TestSchemaFor_NonStruct(t *testing.T) {
	_, err := SchemaFor[string]()
	assert.Error(t, err)

	assert.Panics(t, func() { MustSchemaFor[int]() })
}

func TestEmptySchema(t *testing.T) {
	type noArgs struct{}
	raw, err := SchemaFor[noArgs]()
	require.NoError(t, err)
	assert.JSONEq(t, string(EmptySchema), string(raw))
}
