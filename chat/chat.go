// Package chat provides the canonical Client interface used by the agent loop.
//
// This package exists so that agent and tool packages can depend on a model
// gateway without importing any provider SDK. The
// [github.com/spetersoncode/thinkact/client.Client] type implements it.
package chat

import (
	"context"

	ai "github.com/spetersoncode/thinkact"
)

// Client sends a conversation to a language model and returns one assistant
// turn: free text plus zero or more tool call requests.
//
// Implementations must be safe for concurrent use; many agent loops may share
// one client.
type Client interface {
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)
}
