// Command thinkact runs a tool-using agent from the command line.
//
// Usage:
//
//	thinkact run "Summarize the README in this directory"
//	thinkact run --provider openai --max-steps 20 -f task.txt
//	thinkact transcript show <run-id>
//	thinkact tools serve
//
// Settings come from THINKACT_* environment variables and an optional .env
// file; flags override them. See internal/config for the full list.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "thinkact",
		Short:         "Run a think/act agent with file, web and MCP tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load settings from this file instead of ./.env")

	cmd.AddCommand(runCmd(&envFile), transcriptCmd(&envFile), toolsCmd(&envFile))
	return cmd
}

// exitCode maps run outcomes to process exit codes: 1 for errors, 2 for runs
// that ended without finishing the task.
func exitCode(err error) int {
	if _, ok := err.(*unfinishedError); ok {
		return 2
	}
	return 1
}
