package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/ragterm/internal/logging"
)

func newLogsCmd() *cobra.Command {
	var (
		logPath string
		level   string
		pattern string
		lines   int
		follow  bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Tail or follow ragterm's own log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runLogs(ctx, cmd, logPath, level, pattern, lines, follow)
		},
	}

	cmd.Flags().StringVar(&logPath, "file", "", "Path to the log file (defaults to ~/.ragterm/logs/ragterm.log)")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level to show (debug, info, warn, error)")
	cmd.Flags().StringVar(&pattern, "grep", "", "Only show lines matching this regular expression")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow the log file for new entries")

	return cmd
}

func runLogs(ctx context.Context, cmd *cobra.Command, logPath, level, pattern string, lines int, follow bool) error {
	path, err := logging.FindLogFile(logPath)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	cfg := logging.ViewerConfig{Level: level, NoColor: noColor}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid --grep pattern: %w", err)
		}
		cfg.Pattern = re
	}

	viewer := logging.NewViewer(cfg, cmd.OutOrStdout())

	entries, err := viewer.Tail(path, lines)
	if err != nil {
		return err
	}
	viewer.Print(entries)

	if !follow {
		return nil
	}

	ch := make(chan logging.LogEntry)
	done := make(chan error, 1)
	go func() { done <- viewer.Follow(ctx, path, ch) }()

	for {
		select {
		case entry := <-ch:
			viewer.Print([]logging.LogEntry{entry})
		case err := <-done:
			return err
		}
	}
}
