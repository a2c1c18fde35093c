package tool

import (
	"context"

	ai "github.com/spetersoncode/thinkact"
)

// TerminateAck is the fixed acknowledgment returned by the terminate tool.
const TerminateAck = "task finished"

// TerminateDescription tells the model when to end the run.
const TerminateDescription = "Terminate the interaction when the request is met OR if the assistant cannot proceed further with the task. " +
	"When you have finished all the tasks, call this tool to end the work."

// Terminate returns the registration of the reserved terminate tool. Calling
// it has no side effects; the agent loop ends the run once its result is in
// the conversation.
func Terminate() Registration {
	return WithHandler(ai.TerminateToolName, TerminateDescription, ai.EmptySchema,
		func(context.Context, ai.ToolCall) (string, error) {
			return TerminateAck, nil
		})
}
