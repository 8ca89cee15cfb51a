package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/ragterm/internal/config"
	"github.com/aman-cerp/ragterm/internal/rag/orchestrator"
)

func newExportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a YAML summary of a store (path, model, chunk params, files)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd, name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Store name (defaults to the snapshot file's base name)")
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, name string) error {
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
		return err
	}

	out, err := s.Export()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
