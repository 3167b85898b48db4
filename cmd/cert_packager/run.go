package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/config"
	"github.com/jonathan/cert-packager/internal/observability"
	"github.com/jonathan/cert-packager/internal/pipeline"
	"github.com/jonathan/cert-packager/internal/schemas"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Package certificates for every shipment folder under the root directory",
	Long: `Processes each top-level folder of the configured root directory:
  1. Extract the folder's single .zip archive
  2. Locate the CoC workbook and its serial/heat number table
  3. For each serial: write the highlighted excerpt (.xlsx and .pdf)
  4. Search all PDFs under the root for the heat number and copy the latest MTC

Artifacts and manifest.json are written to <root>/<output_folder_name>.`,
	RunE: runPackager,
}

var (
	runConfigPath string
	runQuiet      bool
)

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "config.toml", "Path to config.toml")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Do not print progress and summary")

	rootCmd.AddCommand(runCmd)
}

// loadConfig reads, overrides from the environment and validates the configuration
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPackager(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	out := cmd.OutOrStdout()
	var onProgress pipeline.ProgressCallback
	if !runQuiet {
		onProgress = func(e pipeline.ProgressEvent) {
			if e.Category == pipeline.CategoryFolder || e.Step == "identifier_done" {
				_, _ = fmt.Fprintf(out, "-> %s\n", e.Message)
			}
		}
	}

	orch, err := pipeline.NewDefault(cfg, log(), onProgress)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := orch.Run(ctx)
	if err != nil && report == nil {
		return err
	}
	runErr := err

	if cfg.ManifestEnabled() {
		path, err := schemas.WriteManifest(report, cfg.OutputPath())
		if err != nil {
			log().Warn("Manifest not written", zap.Error(err))
		} else {
			log().Info("Manifest written", zap.String("path", path))
		}
	}

	if !runQuiet {
		printer := observability.NewPrinter(out)
		printer.PrintRunSummary(report)
		printer.PrintSkippedFolders(report)
		printer.PrintUnresolved(report)
	}
	return runErr
}
