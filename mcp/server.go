package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/tool"
)

// ServerOption configures a server built by NewServer.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name         string
	version      string
	instructions string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithInstructions sets the usage instructions sent to MCP clients.
func WithInstructions(s string) ServerOption {
	return func(c *serverConfig) {
		c.instructions = s
	}
}

// NewServer creates an MCP server exposing every tool of exec. Calls are
// executed through exec, so argument validation and error results behave as
// they do inside the agent loop.
func NewServer(exec tool.Executor, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "thinkact-tools",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	serverOpts := []server.ServerOption{server.WithToolCapabilities(true)}
	if cfg.instructions != "" {
		serverOpts = append(serverOpts, server.WithInstructions(cfg.instructions))
	}
	s := server.NewMCPServer(cfg.name, cfg.version, serverOpts...)

	for _, t := range exec.Tools() {
		s.AddTool(ToMCPTool(t), toolHandler(exec, t.Name))
	}
	return s
}

func toolHandler(exec tool.Executor, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			args = string(data)
		}

		call := ai.ToolCall{
			ID:        ai.GenerateToolCallID(),
			Name:      name,
			Arguments: args,
		}
		result, err := exec.Execute(ctx, call)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return ToMCPCallToolResult(result), nil
	}
}

// ServeStdio serves the tools of exec over stdin and stdout until the input
// closes.
func ServeStdio(exec tool.Executor, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(exec, opts...))
}
