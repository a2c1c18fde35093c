package google

import (
	"encoding/json"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/thinkact"
)

// convertMessages maps the conversation onto Gemini contents. System turns
// and the request's system prompt become the system instruction.
func convertMessages(messages []ai.Message, systemPrompt string) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemParts []*genai.Part
	if systemPrompt != "" {
		systemParts = append(systemParts, &genai.Part{Text: systemPrompt})
	}

	for _, msg := range messages {
		var parts []*genai.Part
		role := string(genai.RoleUser)

		switch msg.Role {
		case ai.RoleSystem:
			if msg.Content != "" {
				systemParts = append(systemParts, &genai.Part{Text: msg.Content})
			}
			continue
		case ai.RoleAssistant:
			role = string(genai.RoleModel)
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				args := map[string]any{}
				if tc.Arguments != "" {
					_ = json.Unmarshal([]byte(tc.Arguments), &args)
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args},
				})
			}
		case ai.RoleTool:
			for _, tr := range msg.ToolResults {
				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       tr.ToolCallID,
						Name:     tr.ToolName,
						Response: functionResponse(tr),
					},
				})
			}
		default:
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	var system *genai.Content
	if len(systemParts) > 0 {
		system = &genai.Content{Parts: systemParts}
	}
	return contents, system
}

// functionResponse uses the "output" and "error" keys Gemini expects. JSON
// object content is passed through as structured output.
func functionResponse(tr ai.ToolResult) map[string]any {
	if tr.IsError {
		return map[string]any{"error": tr.Content}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(tr.Content), &obj); err == nil && obj != nil {
		return map[string]any{"output": obj}
	}
	return map[string]any{"output": tr.Content}
}
