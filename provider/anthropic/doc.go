// Package anthropic adapts the Anthropic Messages API to chat.Client.
//
// Tool calls map to tool_use blocks and tool results to tool_result blocks
// sent in a user turn. The request's system prompt is sent as a system block.
// API errors are returned as categorized thinkact errors so the retry package
// can tell transient failures from permanent ones.
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"), anthropic.WithModel("claude-haiku-4-5"))
//	resp, err := client.Chat(ctx, messages, thinkact.WithTools(tools))
package anthropic
