package thinkact

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolChoiceConstants(t *testing.T) {
	assert.Equal(t, ToolChoice("auto"), ToolChoiceAuto)
	assert.Equal(t, ToolChoice("none"), ToolChoiceNone)
	assert.Equal(t, ToolChoice("required"), ToolChoiceRequired)
}

func TestTerminateToolName(t *testing.T) {
	assert.Equal(t, "doTerminate", TerminateToolName)
}

func TestGenerateToolCallID(t *testing.T) {
	id := GenerateToolCallID()
	assert.True(t, strings.HasPrefix(id, "call-"))
	assert.NotEqual(t, id, GenerateToolCallID())
}

func TestNewToolResultMessage(t *testing.T) {
	t.Run("creates message with single result", func(t *testing.T) {
		result := ToolResult{
			ToolCallID: "call_abc123",
			ToolName:   "weather",
			Content:    "The weather is 72°F",
		}

		msg := NewToolResultMessage(result)

		assert.Equal(t, RoleTool, msg.Role)
		assert.Len(t, msg.ToolResults, 1)
		assert.Equal(t, "call_abc123", msg.ToolResults[0].ToolCallID)
		assert.Equal(t, "weather", msg.ToolResults[0].ToolName)
		assert.True(t, msg.ToolResults[0].Succeeded())
	})

	t.Run("preserves result order", func(t *testing.T) {
		results := []ToolResult{
			{ToolCallID: "call_1", Content: "Result 1"},
			{ToolCallID: "call_2", Content: "Result 2"},
			{ToolCallID: "call_3", Content: "Error occurred", IsError: true},
		}

		msg := NewToolResultMessage(results...)

		assert.Len(t, msg.ToolResults, 3)
		assert.Equal(t, "call_1", msg.ToolResults[0].ToolCallID)
		assert.Equal(t, "call_3", msg.ToolResults[2].ToolCallID)
		assert.False(t, msg.ToolResults[2].Succeeded())
	})
}

func TestToolResult_JSON(t *testing.T) {
	data, err := json.Marshal(ToolResult{ToolCallID: "c1", ToolName: "t", Content: "ok"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"toolCallId":"c1","toolName":"t","content":"ok"}`, string(data))
}
