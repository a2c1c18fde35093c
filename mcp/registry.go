package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/tool"
)

// ClientName is reported to MCP servers during initialization.
const ClientName = "thinkact"

// RemoteRegistry offers the tools of an MCP server as a tool.Executor.
// The tool list is cached and can be refreshed with Refresh. It is safe for
// concurrent use.
type RemoteRegistry struct {
	client *client.Client

	mu     sync.RWMutex
	tools  map[string]ai.Tool
	closed bool
}

var _ tool.Executor = (*RemoteRegistry)(nil)

// NewRemoteRegistry starts command as an MCP server subprocess speaking stdio
// and lists its tools.
func NewRemoteRegistry(ctx context.Context, command string, env []string, args ...string) (*RemoteRegistry, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	return NewRemoteRegistryFromClient(ctx, c)
}

// NewRemoteRegistrySSE connects to an MCP server over SSE.
func NewRemoteRegistrySSE(ctx context.Context, baseURL string) (*RemoteRegistry, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSE MCP client: %w", err)
	}
	return NewRemoteRegistryFromClient(ctx, c)
}

// NewRemoteRegistryFromClient starts and initializes c, then fetches its
// tools. The registry owns c and closes it on failure or Close.
func NewRemoteRegistryFromClient(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    ClientName,
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	r := &RemoteRegistry{
		client: c,
		tools:  make(map[string]ai.Tool),
	}
	if err := r.Refresh(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return r, nil
}

// Close ends the MCP session. Later calls to Execute fail with
// tool.ErrUnavailable.
func (r *RemoteRegistry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()
	return r.client.Close()
}

// Refresh fetches the current tool list from the server.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	if r.isClosed() {
		return tool.ErrUnavailable
	}

	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	tools := make(map[string]ai.Tool, len(result.Tools))
	for _, t := range result.Tools {
		tools[t.Name] = FromMCPTool(t)
	}

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

// Tools returns the remote tool signatures sorted by name.
func (r *RemoteRegistry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// GetTool retrieves a tool signature by name.
func (r *RemoteRegistry) GetTool(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether the server offers a tool with the given name.
func (r *RemoteRegistry) Has(name string) bool {
	_, ok := r.GetTool(name)
	return ok
}

// Len returns the number of remote tools.
func (r *RemoteRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute calls a tool on the MCP server.
//
// Protocol-level errors reported by the server become IsError results.
// Transport failures, a closed session and a cancelled context return an
// error wrapping tool.ErrUnavailable.
func (r *RemoteRegistry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	if r.isClosed() {
		return ai.ToolResult{}, fmt.Errorf("%w: MCP session closed", tool.ErrUnavailable)
	}
	if !r.Has(call.Name) {
		return ai.ToolResult{}, &tool.ErrToolNotFound{Name: call.Name}
	}

	result, err := r.client.CallTool(ctx, ToMCPCallToolRequest(call))
	if err != nil {
		var terr *transport.Error
		if errors.As(err, &terr) || ctx.Err() != nil {
			return ai.ToolResult{}, fmt.Errorf("%w: %w", tool.ErrUnavailable, err)
		}
		return ai.ToolResult{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Content:    err.Error(),
			IsError:    true,
		}, nil
	}

	return FromMCPCallToolResult(call, result), nil
}

func (r *RemoteRegistry) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}
