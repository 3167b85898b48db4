package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cert-packager/internal/config"
	"github.com/jonathan/cert-packager/internal/spreadsheet"
)

var extractIDsCmd = &cobra.Command{
	Use:   "extract-ids",
	Short: "List the serial/heat number pairs found in a CoC workbook",
	Long:  "Scans every sheet of a CoC workbook for the header row and prints the extracted identifier pairs as JSON, in table row order.",
	RunE:  runExtractIDs,
}

var (
	extractWorkbook     string
	extractSerialHeader string
	extractHeatHeader   string
	extractOutput       string
	extractConfig       string
)

func init() {
	extractIDsCmd.Flags().StringVarP(&extractWorkbook, "workbook", "w", "", "Path to CoC workbook (required)")
	extractIDsCmd.Flags().StringVar(&extractSerialHeader, "serial-header", "", "Serial column header label (defaults to search_terms.excel_serial_header)")
	extractIDsCmd.Flags().StringVar(&extractHeatHeader, "heat-header", "", "Heat number column header label (defaults to search_terms.excel_heatno_header)")
	extractIDsCmd.Flags().StringVarP(&extractConfig, "config", "c", defaultConfigPath, "Path to config.toml supplying unset flags")
	extractIDsCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Write JSON to this file instead of stdout")

	if err := extractIDsCmd.MarkFlagRequired("workbook"); err != nil {
		panic(fmt.Sprintf("failed to mark workbook flag as required: %v", err))
	}

	rootCmd.AddCommand(extractIDsCmd)
}

type identifierJSON struct {
	Serial  string `json:"serial"`
	Heat    string `json:"heat"`
	HeatRaw string `json:"heat_raw"`
	Numeric bool   `json:"numeric"`
}

func runExtractIDs(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(extractWorkbook); os.IsNotExist(err) {
		return fmt.Errorf("workbook not found: %s", extractWorkbook)
	}

	err := applyConfigDefaults(cmd, extractConfig, []flagDefault{
		{flag: "serial-header", target: &extractSerialHeader, value: func(c *config.Config) string { return c.SearchTerms.ExcelSerialHeader }},
		{flag: "heat-header", target: &extractHeatHeader, value: func(c *config.Config) string { return c.SearchTerms.ExcelHeatNoHeader }},
	})
	if err != nil {
		return err
	}
	err = requireFlags(map[string]string{
		"serial-header": extractSerialHeader,
		"heat-header":   extractHeatHeader,
	}, "serial-header", "heat-header")
	if err != nil {
		return err
	}

	records, err := spreadsheet.NewLocator(log()).Extract(extractWorkbook, extractSerialHeader, extractHeatHeader)
	if err != nil {
		return err
	}

	out := make([]identifierJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, identifierJSON{
			Serial:  rec.Serial,
			Heat:    rec.Heat.String(),
			HeatRaw: rec.Heat.Raw,
			Numeric: rec.Heat.IsNumeric(),
		})
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identifiers to JSON: %w", err)
	}

	if extractOutput != "" {
		if err := os.WriteFile(extractOutput, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write identifiers to output file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d identifiers to %s\n", len(out), extractOutput)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
