package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/thinkact"
)

func TestConvertMessages(t *testing.T) {
	messages := []ai.Message{
		ai.NewSystemMessage("inline system"),
		ai.NewUserMessage("book a table"),
		ai.NewAssistantMessage("checking", ai.ToolCall{ID: "c1", Name: "reserve", Arguments: `{"party":2}`}),
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "c1", Content: "reserved"}),
		ai.NewAssistantMessage(""),
		ai.NewAssistantMessage("done"),
	}

	msgs, system := convertMessages(messages, "be brief")

	require.Len(t, system, 2)
	assert.Equal(t, "be brief", system[0].Text)
	assert.Equal(t, "inline system", system[1].Text)

	// The empty assistant turn is dropped.
	require.Len(t, msgs, 4)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].Content, 2)
	require.NotNil(t, msgs[1].Content[1].OfToolUse)
	assert.Equal(t, "c1", msgs[1].Content[1].OfToolUse.ID)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[2].Role)
	require.NotNil(t, msgs[2].Content[0].OfToolResult)
	assert.Equal(t, "c1", msgs[2].Content[0].OfToolResult.ToolUseID)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[3].Role)
}

func TestToolInput(t *testing.T) {
	assert.Equal(t, map[string]any{}, toolInput(""))
	assert.Equal(t, map[string]any{}, toolInput("{broken"))
	assert.Equal(t, map[string]any{"party": float64(2)}, toolInput(`{"party":2}`))
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]ai.Tool{
		{Name: "reserve", Description: "Reserve", Parameters: json.RawMessage(`{"type":"object","properties":{"party":{"type":"integer"}},"required":["party"]}`)},
		{Name: ai.TerminateToolName, Parameters: ai.EmptySchema},
	})

	require.Len(t, tools, 2)
	assert.Equal(t, "reserve", tools[0].OfTool.Name)
	assert.Equal(t, []string{"party"}, tools[0].OfTool.InputSchema.Required)
	assert.Equal(t, map[string]any{}, tools[1].OfTool.InputSchema.Properties)

	assert.Nil(t, convertTools(nil))
}

func TestConvertToolChoice(t *testing.T) {
	assert.NotNil(t, convertToolChoice(ai.ToolChoiceNone).OfNone)
	assert.NotNil(t, convertToolChoice(ai.ToolChoiceRequired).OfAny)
	assert.NotNil(t, convertToolChoice(ai.ToolChoiceAuto).OfAuto)
}

func TestClient_Chat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [
				{"type": "text", "text": "Booking now."},
				{"type": "tool_use", "id": "tu_1", "name": "reserve", "input": {"party": 2}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 12, "output_tokens": 8}
		}`)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL+"/"), WithModel("claude-test"))
	resp, err := c.Chat(context.Background(),
		[]ai.Message{ai.NewUserMessage("book a table")},
		ai.WithSystemPrompt("be brief"),
		ai.WithTools([]ai.Tool{{Name: "reserve", Parameters: ai.EmptySchema}}),
	)

	require.NoError(t, err)
	assert.Equal(t, "Booking now.", resp.Content)
	assert.Equal(t, "tool_use", resp.FinishReason)
	assert.Equal(t, ai.Usage{InputTokens: 12, OutputTokens: 8}, resp.Usage)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "tu_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "reserve", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"party":2}`, resp.ToolCalls[0].Arguments)

	assert.Equal(t, "claude-test", body["model"])
	assert.NotNil(t, body["tools"])
}

func TestClient_ChatErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL+"/"))
	_, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("hi")})

	require.Error(t, err)
	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, http.StatusTooManyRequests, ai.StatusCodeOf(err))
	assert.Equal(t, 2*time.Second, ai.RetryAfterOf(err))

	_, err = c.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ai.ErrEmptyInput)
}
