package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cert-packager/internal/schemas"
)

var validateManifestCmd = &cobra.Command{
	Use:   "validate-manifest",
	Short: "Validate a run manifest against the manifest schema",
	RunE:  runValidateManifest,
}

var validateManifestInput string

func init() {
	validateManifestCmd.Flags().StringVarP(&validateManifestInput, "in", "i", "", "Path to manifest.json (required)")

	if err := validateManifestCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateManifestCmd)
}

func runValidateManifest(cmd *cobra.Command, _ []string) error {
	err := schemas.ValidateManifestFile(validateManifestInput)
	if err == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateManifestInput)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation failed: %s\n%s", validateManifestInput, validationErr.Error())
		return fmt.Errorf("manifest has %d schema errors", len(validationErr.Errors))
	}
	return err
}
