package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/ragterm/internal/async"
	"github.com/aman-cerp/ragterm/internal/config"
	"github.com/aman-cerp/ragterm/internal/rag/orchestrator"
	"github.com/aman-cerp/ragterm/internal/ui"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <name> [paths...]",
		Short: "Create a new store and ingest the given paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInit(ctx, cmd, args[0], args[1:])
		},
	}
	return cmd
}

func runInit(ctx context.Context, cmd *cobra.Command, name string, paths []string) error {
	id := runID()
	slog.Info("init_started", slog.String("run_id", id), slog.String("name", name))

	savePath, err := cmd.Flags().GetString("store")
	if err != nil {
		return err
	}
	noColor, _ := cmd.Flags().GetBool("no-color")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	abort := async.NewAbortSignal(ctx)
	progress := async.NewProgressSink()
	go ui.RunProgress(progress, cmd.OutOrStdout(), noColor)

	s, err := orchestrator.New(ctx, name, savePath, paths, settingsFromConfig(cfg), abort, progress)
	progress.Close()
	if err != nil {
		slog.Error("init_failed", slog.String("run_id", id), slog.String("error", err.Error()))
		return err
	}

	slog.Info("init_complete", slog.String("run_id", id), slog.String("name", s.Name()))
	fmt.Fprintf(cmd.OutOrStdout(), "Created store %q at %s\n", s.Name(), savePath)
	return nil
}
