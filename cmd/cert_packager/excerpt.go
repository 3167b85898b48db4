package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/cert-packager/internal/config"
	"github.com/jonathan/cert-packager/internal/pipeline"
	"github.com/jonathan/cert-packager/internal/rendering"
)

var excerptCmd = &cobra.Command{
	Use:   "excerpt",
	Short: "Write the highlighted CoC excerpt for one serial number",
	Long:  "Finds the first sheet row holding the serial and writes '<serial> -CoC.xlsx' plus its PDF rendering into the output directory.",
	RunE:  runExcerpt,
}

var (
	excerptWorkbook string
	excerptSerial   string
	excerptOutDir   string
	excerptRenderer string
	excerptTimeout  time.Duration
)

func init() {
	excerptCmd.Flags().StringVarP(&excerptWorkbook, "workbook", "w", "", "Path to CoC workbook (required)")
	excerptCmd.Flags().StringVarP(&excerptSerial, "serial", "s", "", "Serial number to highlight (required)")
	excerptCmd.Flags().StringVarP(&excerptOutDir, "out", "o", ".", "Output directory")
	excerptCmd.Flags().StringVar(&excerptRenderer, "renderer", config.RendererChrome, "PDF renderer: chrome, latex or none")
	excerptCmd.Flags().DurationVar(&excerptTimeout, "timeout", config.DefaultRenderTimeout, "PDF rendering timeout")

	if err := excerptCmd.MarkFlagRequired("workbook"); err != nil {
		panic(fmt.Sprintf("failed to mark workbook flag as required: %v", err))
	}
	if err := excerptCmd.MarkFlagRequired("serial"); err != nil {
		panic(fmt.Sprintf("failed to mark serial flag as required: %v", err))
	}

	rootCmd.AddCommand(excerptCmd)
}

func runExcerpt(cmd *cobra.Command, _ []string) error {
	switch excerptRenderer {
	case config.RendererChrome, config.RendererLaTeX, config.RendererNone:
	default:
		return fmt.Errorf("unknown renderer %q", excerptRenderer)
	}

	cfg := &config.Config{Settings: config.Settings{
		Renderer:      excerptRenderer,
		RenderTimeout: excerptTimeout.String(),
	}}
	renderer, err := pipeline.NewRenderer(cfg, log())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	artifacts, err := rendering.NewExporter(renderer, log()).Export(ctx, excerptWorkbook, excerptSerial, excerptOutDir)
	out := cmd.OutOrStdout()
	if artifacts != nil {
		_, _ = fmt.Fprintf(out, "Highlighted row %d of sheet %q\n", artifacts.Row, artifacts.Sheet)
		_, _ = fmt.Fprintf(out, "Wrote %s\n", artifacts.XLSX)
		if artifacts.PDF != "" {
			_, _ = fmt.Fprintf(out, "Wrote %s\n", artifacts.PDF)
		}
	}
	return err
}
