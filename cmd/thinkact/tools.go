package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/thinkact/mcp"
	"github.com/spetersoncode/thinkact/tool"
	"github.com/spetersoncode/thinkact/toolset"
)

func toolsCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Work with the built-in tool set",
	}

	var readOnly bool
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built-in tools to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*envFile)
			fileOpts := []toolset.FileOption{toolset.WithRoot(cfg.Workdir)}
			if readOnly {
				fileOpts = append(fileOpts, toolset.ReadOnly())
			}
			registry := tool.NewRegistry().Add(toolset.Files(fileOpts...)...)
			registry.Add(toolset.Fetch(), toolset.Clock())
			return mcp.ServeStdio(registry, mcp.WithName("thinkact-tools"))
		},
	}
	serve.Flags().BoolVar(&readOnly, "read-only", false, "leave out write_file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the built-in tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*envFile)
			registry := tool.NewRegistry().Add(toolset.Default(cfg.Workdir)...)
			for _, t := range registry.Tools() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", t.Name, t.Description)
			}
			return nil
		},
	}

	cmd.AddCommand(serve, list)
	return cmd
}
