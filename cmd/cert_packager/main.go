// Package main implements the cert_packager CLI, which assembles per-serial
// certificate packages from shipment archive folders.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/observability"
)

var (
	verbose   bool
	logFormat string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cert_packager",
	Short: "CoC/MTC certificate packager",
	Long: `cert_packager correlates Certificate of Conformity workbooks with Material Test
Certificate PDFs. For every serial number in a shipment's CoC table it writes a
highlighted excerpt of the CoC row and a copy of the latest MTC mentioning the
serial's heat number.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = observability.NewLogger(verbose, logFormat)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", observability.FormatJSON, "Log encoding: json or console")
}

// log returns the command logger, which is a no-op until PersistentPreRunE has run
func log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
