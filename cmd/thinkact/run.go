package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/agent"
	"github.com/spetersoncode/thinkact/client"
	"github.com/spetersoncode/thinkact/event"
	"github.com/spetersoncode/thinkact/internal/config"
	"github.com/spetersoncode/thinkact/internal/logger"
	"github.com/spetersoncode/thinkact/mcp"
	"github.com/spetersoncode/thinkact/model"
	"github.com/spetersoncode/thinkact/tool"
	"github.com/spetersoncode/thinkact/toolset"
)

// unfinishedError reports a run that stopped before the task was finished.
type unfinishedError struct {
	reason agent.TerminationReason
}

func (e *unfinishedError) Error() string {
	return fmt.Sprintf("run ended without finishing the task (%s)", e.reason)
}

type runFlags struct {
	provider  string
	model     string
	maxSteps  int
	workdir   string
	taskFile  string
	key       string
	quiet     bool
	parallel  bool
	logLevel  string
	noNetwork bool
}

func runCmd(envFile *string) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run the agent on a task until it finishes or runs out of steps",
		Long: `Run the agent on a task. The task is taken from the arguments, from
--file, or from stdin when neither is given.

The final answer is written to stdout; progress and logs go to stderr.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := readTask(args, f.taskFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg := loadConfig(*envFile)
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runTask(cmd.Context(), cfg, f, task, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.provider, "provider", "p", "", "model provider: anthropic, openai or google")
	fl.StringVarP(&f.model, "model", "m", "", "model name (provider default when empty)")
	fl.IntVar(&f.maxSteps, "max-steps", 0, "step budget for the run")
	fl.StringVarP(&f.workdir, "workdir", "w", "", "directory the file tools are confined to")
	fl.StringVarP(&f.taskFile, "file", "f", "", "read the task from a file")
	fl.StringVar(&f.key, "transcript-key", "", "key for the stored transcript (run ID when empty)")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "do not print step progress")
	fl.BoolVar(&f.parallel, "parallel", false, "run the tool calls of one step concurrently")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.BoolVar(&f.noNetwork, "no-network", false, "leave out the HTTP fetch tool")
	return cmd
}

// apply copies flags the user set over the environment configuration.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("provider") {
		cfg.Provider = strings.ToLower(f.provider)
	}
	if changed("model") {
		cfg.Model = f.model
	}
	if changed("max-steps") {
		cfg.MaxSteps = f.maxSteps
	}
	if changed("workdir") {
		cfg.Workdir = f.workdir
	}
	if changed("parallel") {
		cfg.ParallelTools = f.parallel
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

func readTask(args []string, file string, stdin io.Reader) (string, error) {
	var task string
	switch {
	case len(args) > 0:
		task = strings.Join(args, " ")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read task file: %w", err)
		}
		task = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read task from stdin: %w", err)
		}
		task = string(data)
	}
	task = strings.TrimSpace(task)
	if task == "" {
		return "", agent.ErrEmptyTask
	}
	return task, nil
}

func loadConfig(envFile string) *config.Config {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config, stderr io.Writer) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: true,
		Pretty:  true,
		Out:     stderr,
		Secrets: []string{cfg.AnthropicKey, cfg.OpenAIKey, cfg.GoogleKey},
	})
}

func runTask(ctx context.Context, cfg *config.Config, f runFlags, task string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer log.Close()

	c, err := client.New(client.Config{
		Provider: ai.Provider(cfg.Provider),
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Logger:  &log.Logger,
	})
	if err != nil {
		return err
	}

	exec, closeTools, err := buildTools(ctx, cfg, f.noNetwork, log.Logger)
	if err != nil {
		return err
	}
	defer closeTools()

	dispatcher := tool.NewDispatcher(exec,
		tool.WithParallel(cfg.ParallelTools),
		tool.WithLogger(log.Logger),
	)

	opts := []agent.Option{
		agent.WithMaxSteps(cfg.MaxSteps),
		agent.WithSystemPrompt(orDefault(cfg.SystemPrompt, defaultSystemPrompt)),
		agent.WithNextStepPrompt(orDefault(cfg.NextStepPrompt, defaultNextStepPrompt)),
		agent.WithLogger(log.Logger),
	}

	transcript, err := openTranscript(ctx, cfg)
	if err != nil {
		return err
	}
	if transcript != nil {
		defer transcript.Close()
		opts = append(opts, agent.WithTranscript(transcript, f.key))
	}

	var events chan event.Event
	done := make(chan struct{})
	if !f.quiet {
		events = event.NewChannel()
		opts = append(opts, agent.WithEvents(events))
		go func() {
			defer close(done)
			printProgress(stderr, events)
		}()
	} else {
		close(done)
	}

	result, runErr := agent.New(c, dispatcher, opts...).Run(ctx, task)
	if events != nil {
		close(events)
	}
	<-done

	if result != nil && result.FinalText != "" {
		fmt.Fprintln(stdout, result.FinalText)
	}
	if result != nil {
		ev := log.Info().
			Str("run_id", result.RunID).
			Str("termination", string(result.Termination)).
			Int("steps", result.Steps).
			Int("input_tokens", result.TotalUsage.InputTokens).
			Int("output_tokens", result.TotalUsage.OutputTokens)
		if p, ok := model.Lookup(model.Resolve(ai.Provider(cfg.Provider), cfg.Model)); ok {
			ev = ev.Float64("cost_usd", p.Cost(result.TotalUsage))
		}
		ev.Msg("run finished")
	}

	switch {
	case runErr != nil && !errors.Is(runErr, agent.ErrBudgetExhausted):
		return runErr
	case result == nil:
		return runErr
	case !result.TerminatedNormally:
		return &unfinishedError{reason: result.Termination}
	}
	return nil
}

// buildTools assembles the local tool set and, when configured, the tools of
// an MCP server. The returned func releases the MCP session.
func buildTools(ctx context.Context, cfg *config.Config, noNetwork bool, log zerolog.Logger) (tool.Executor, func(), error) {
	local := tool.NewRegistry().Add(toolset.Files(toolset.WithRoot(cfg.Workdir))...)
	local.Add(toolset.Clock(), tool.Terminate())
	if !noNetwork {
		local.Add(toolset.Fetch())
	}

	command, args := cfg.MCPArgs()
	if command == "" {
		return local, func() {}, nil
	}

	remote, err := mcp.NewRemoteRegistry(ctx, command, os.Environ(), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect MCP server %q: %w", command, err)
	}
	log.Info().Str("command", command).Int("tools", remote.Len()).Msg("connected MCP server")

	closeFn := func() {
		if err := remote.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close MCP session")
		}
	}
	return tool.Multi{local, remote}, closeFn, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
