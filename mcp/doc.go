// Package mcp connects the tool dispatcher to the Model Context Protocol.
//
// It works in both directions:
//
//   - [RemoteRegistry] consumes the tools of an MCP server and implements
//     [tool.Executor], so remote tools can sit next to local ones in a
//     [tool.Multi] behind a [tool.Dispatcher].
//   - [NewServer] and [ServeStdio] expose any [tool.Executor] as an MCP server.
//
// # Consuming an MCP server
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./weather-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	local := tool.NewRegistry().Add(tool.Terminate())
//	d := tool.NewDispatcher(tool.Multi{local, remote})
//
// A remote tool that runs and fails yields an IsError result. A broken or
// closed session makes Execute return an error wrapping [tool.ErrUnavailable],
// which the agent loop treats as a dispatch failure.
//
// # Serving tools
//
//	registry := tool.NewRegistry().Add(toolset.Clock())
//	if err := mcp.ServeStdio(registry, mcp.WithName("clock")); err != nil {
//	    log.Fatal(err)
//	}
package mcp
