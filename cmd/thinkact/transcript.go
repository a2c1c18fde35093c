package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/thinkact/internal/config"
	"github.com/spetersoncode/thinkact/store"
)

// transcriptStore is a transcript adapter that holds a connection.
type transcriptStore interface {
	store.Adapter
	Close() error
}

// openTranscript opens the configured transcript adapter, preferring SQLite.
// It returns nil when neither is configured.
func openTranscript(ctx context.Context, cfg *config.Config) (transcriptStore, error) {
	switch {
	case cfg.TranscriptDB != "":
		a, err := store.NewSQLiteAdapter(cfg.TranscriptDB)
		if err != nil {
			return nil, fmt.Errorf("open transcript database: %w", err)
		}
		return a, nil
	case cfg.RedisAddr != "":
		a, err := store.DialRedis(ctx, store.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, fmt.Errorf("connect transcript redis: %w", err)
		}
		return a, nil
	}
	return nil, nil
}

func transcriptCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Inspect stored run transcripts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored transcript keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTranscript(cmd.Context(), *envFile, func(ctx context.Context, a transcriptStore) error {
					keys, err := a.Keys(ctx)
					if err != nil {
						return err
					}
					sort.Strings(keys)
					for _, k := range keys {
						fmt.Fprintln(cmd.OutOrStdout(), k)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <key>",
			Short: "Print a stored transcript as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTranscript(cmd.Context(), *envFile, func(ctx context.Context, a transcriptStore) error {
					return showTranscript(ctx, a, args[0], cmd.OutOrStdout())
				})
			},
		},
	)
	return cmd
}

func withTranscript(ctx context.Context, envFile string, fn func(context.Context, transcriptStore) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := loadConfig(envFile)
	a, err := openTranscript(ctx, cfg)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("no transcript store configured: set %s or %s", config.EnvTranscriptDB, config.EnvRedisAddr)
	}
	defer a.Close()
	return fn(ctx, a)
}

func showTranscript(ctx context.Context, a store.Adapter, key string, w io.Writer) error {
	ms := store.NewMessageStore(a)
	if err := ms.Reload(ctx, key); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ms.Messages())
}
