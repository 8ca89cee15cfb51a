package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/ragterm/internal/async"
	"github.com/aman-cerp/ragterm/internal/config"
	"github.com/aman-cerp/ragterm/internal/rag/orchestrator"
)

func newSearchCmd() *cobra.Command {
	var (
		name           string
		topK           int
		minScoreVector float64
		minScoreText   float64
		hasMinVector   bool
		hasMinText     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Run a hybrid (BM25 + vector) search over a store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasMinVector = cmd.Flags().Changed("min-score-vector")
			hasMinText = cmd.Flags().Changed("min-score-text")
			return runSearch(cmd.Context(), cmd, name, strings.Join(args, " "), topK,
				minScoreVector, hasMinVector, minScoreText, hasMinText)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Store name (defaults to the snapshot file's base name)")
	cmd.Flags().IntVarP(&topK, "top-k", "n", 0, "Maximum number of results (0 uses the configured default)")
	cmd.Flags().Float64Var(&minScoreVector, "min-score-vector", 0, "Minimum vector-leg score to keep a result")
	cmd.Flags().Float64Var(&minScoreText, "min-score-text", 0, "Minimum BM25-leg score to keep a result")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, name, query string, topK int,
	minScoreVector float64, hasMinVector bool, minScoreText float64, hasMinText bool) error {
	id := runID()
	slog.Info("search_started", slog.String("run_id", id), slog.String("query", query))

	savePath, err := cmd.Flags().GetString("store")
	if err != nil {
		return err
	}

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
		slog.Error("search_failed", slog.String("run_id", id), slog.String("error", err.Error()))
		return err
	}

	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}
	minVector := cfg.Retrieval.MinScoreVector
	minText := cfg.Retrieval.MinScoreText
	if hasMinVector {
		minVector = &minScoreVector
	}
	if hasMinText {
		minText = &minScoreText
	}

	abort := async.NewAbortSignal(ctx)
	result, err := s.Search(ctx, query, topK, minVector, minText, abort)
	if err != nil {
		slog.Error("search_failed", slog.String("run_id", id), slog.String("error", err.Error()))
		return err
	}

	slog.Info("search_complete", slog.String("run_id", id))
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
