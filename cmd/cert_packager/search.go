package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/cert-packager/internal/config"
	"github.com/jonathan/cert-packager/internal/documents"
	"github.com/jonathan/cert-packager/internal/selection"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Full-text search the certificate PDFs under a directory",
	Long:  "Lists the CoC/MTC PDFs whose text contains the query verbatim, with their document dates, and marks the MTC that a run would select.",
	RunE:  runSearch,
}

var (
	searchRoot    string
	searchQuery   string
	searchExclude string
	searchCoC     string
	searchMTC     string
	searchConfig  string
)

func init() {
	searchCmd.Flags().StringVarP(&searchRoot, "root", "r", "", "Directory to search (defaults to paths.root_directory)")
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Text to search for, usually a heat number (required)")
	searchCmd.Flags().StringVar(&searchExclude, "exclude", "", "Directory to leave out of the search (defaults to the output folder)")
	searchCmd.Flags().StringVar(&searchCoC, "coc-keyword", "", "File name marker of CoC documents (defaults to search_terms.certificate_of_conformity)")
	searchCmd.Flags().StringVar(&searchMTC, "mtc-keyword", "", "File name marker of MTC documents (defaults to search_terms.material_test_certificate)")
	searchCmd.Flags().StringVarP(&searchConfig, "config", "c", defaultConfigPath, "Path to config.toml supplying unset flags")
	if err := searchCmd.MarkFlagRequired("query"); err != nil {
		panic(fmt.Sprintf("failed to mark query flag as required: %v", err))
	}

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	err := applyConfigDefaults(cmd, searchConfig, []flagDefault{
		{flag: "root", target: &searchRoot, value: func(c *config.Config) string { return c.Paths.RootDirectory }},
		{flag: "exclude", target: &searchExclude, value: func(c *config.Config) string { return c.OutputPath() }},
		{flag: "coc-keyword", target: &searchCoC, value: func(c *config.Config) string { return c.SearchTerms.CertificateOfConformity }},
		{flag: "mtc-keyword", target: &searchMTC, value: func(c *config.Config) string { return c.SearchTerms.MaterialTestCertificate }},
	})
	if err != nil {
		return err
	}
	err = requireFlags(map[string]string{
		"root":        searchRoot,
		"coc-keyword": searchCoC,
		"mtc-keyword": searchMTC,
	}, "root", "coc-keyword", "mtc-keyword")
	if err != nil {
		return err
	}

	pdfs := documents.NewPDFExtractor()
	cache := documents.NewTextCache(pdfs, log())
	matcher := documents.NewMatcher(cache, documents.Keywords{CoC: searchCoC, MTC: searchMTC}, log())

	matches, err := matcher.Match(searchRoot, searchQuery, searchExclude)
	if err != nil {
		return err
	}

	selector := selection.NewSelector(pdfs, searchMTC, log())
	picked := selector.SelectLatest(matches)

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%d documents contain %q\n", len(matches), searchQuery)
	for _, m := range matches {
		marker := " "
		if picked.Selected != nil && picked.Selected.Path == m.Path {
			marker = "*"
		}
		date := "-"
		if ts, err := selector.Timestamp(m.Path); err == nil {
			date = ts.Local.Format("2006-01-02 15:04:05")
		}
		rel, err := filepath.Rel(searchRoot, m.Path)
		if err != nil {
			rel = m.Path
		}
		_, _ = fmt.Fprintf(out, "%s %-19s  %s\n", marker, date, rel)
	}

	if picked.Selected == nil {
		_, _ = fmt.Fprintf(out, "No dated %s document selected (%d eligible)\n", searchMTC, picked.Eligible)
	}
	return nil
}
