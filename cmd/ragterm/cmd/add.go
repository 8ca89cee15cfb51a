package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/ragterm/internal/async"
	"github.com/aman-cerp/ragterm/internal/config"
	"github.com/aman-cerp/ragterm/internal/rag/orchestrator"
	"github.com/aman-cerp/ragterm/internal/ui"
)

func newAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <paths...>",
		Short: "Ingest additional paths into an existing store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAdd(ctx, cmd, name, args)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Store name (defaults to the snapshot file's base name)")
	return cmd
}

func runAdd(ctx context.Context, cmd *cobra.Command, name string, paths []string) error {
	id := runID()
	slog.Info("add_started", slog.String("run_id", id), slog.Int("paths", len(paths)))

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

	if name == "" {
		base := filepath.Base(savePath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	s, err := orchestrator.Load(ctx, name, savePath, settingsFromConfig(cfg))
	if err != nil {
		slog.Error("add_failed", slog.String("run_id", id), slog.String("error", err.Error()))
		return err
	}

	abort := async.NewAbortSignal(ctx)
	progress := async.NewProgressSink()
	go ui.RunProgress(progress, cmd.OutOrStdout(), noColor)

	err = s.AddPaths(ctx, paths, abort, progress)
	progress.Close()
	if err != nil {
		slog.Error("add_failed", slog.String("run_id", id), slog.String("error", err.Error()))
		return err
	}

	if err := s.Save(); err != nil {
		return err
	}

	slog.Info("add_complete", slog.String("run_id", id))
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d path(s) to %q\n", len(paths), s.Name())
	return nil
}
