// Package cmd provides the ragterm CLI commands: init, add, search, export.
package cmd

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aman-cerp/ragterm/internal/config"
	"github.com/aman-cerp/ragterm/internal/logging"
	"github.com/aman-cerp/ragterm/internal/rag/embed"
	"github.com/aman-cerp/ragterm/internal/rag/orchestrator"
	"github.com/aman-cerp/ragterm/internal/rag/search"
	"github.com/aman-cerp/ragterm/internal/rag/store"
	"github.com/aman-cerp/ragterm/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root ragterm command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ragterm",
		Short:   "Local-first hybrid (BM25 + vector) document retrieval",
		Version: version.Version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !debugMode {
				return nil
			}
			logger, cleanup, err := logging.Setup(logging.DebugConfig())
			if err != nil {
				return err
			}
			loggingCleanup = cleanup
			slog.SetDefault(logger)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if loggingCleanup != nil {
				loggingCleanup()
				loggingCleanup = nil
			}
			return nil
		},
	}

	cmd.SetVersionTemplate("ragterm version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.ragterm/logs/")
	cmd.PersistentFlags().String("store", defaultStorePath(), "Path to the store snapshot")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored/spinner output")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func defaultStorePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ".ragterm/store.bin"
	}
	return cwd + "/.ragterm/store.bin"
}

// runID is a uuid-based correlation ID attached to log lines for a single
// add/search CLI invocation, so concurrent invocations sharing a log stream
// can be told apart.
func runID() string {
	return uuid.NewString()
}

// settingsFromConfig maps a loaded config.Config onto orchestrator.Settings.
func settingsFromConfig(cfg *config.Config) orchestrator.Settings {
	return orchestrator.Settings{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Embed: embed.Settings{
			Provider:     embed.Provider(cfg.Embeddings.Provider),
			Model:        cfg.Embeddings.Model,
			OpenAIAPIKey: cfg.Embeddings.OpenAIAPIKey,
			OllamaHost:   cfg.Embeddings.OllamaHost,
		},
		Weights: search.Weights{
			Vector: cfg.Retrieval.WeightVector,
			Text:   cfg.Retrieval.WeightText,
		},
		VectorBackend: store.VectorBackend(cfg.VectorIndex.Backend),
	}
}
