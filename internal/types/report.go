//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Outcome classifies how processing of one identifier ended
type Outcome string

const (
	OutcomePackaged         Outcome = "packaged"
	OutcomeExcerptNotFound  Outcome = "excerpt_not_found"
	OutcomeExcerptFailed    Outcome = "excerpt_failed"
	OutcomeDocumentNotFound Outcome = "document_not_found"
	OutcomeSearchFailed     Outcome = "search_failed"
	OutcomeCopyFailed       Outcome = "copy_failed"
)

// FolderStatus classifies how processing of one top-level folder ended
type FolderStatus string

const (
	FolderProcessed          FolderStatus = "processed"
	FolderArchiveNotFound    FolderStatus = "archive_not_found"
	FolderExtractFailed      FolderStatus = "extract_failed"
	FolderWorkbookNotFound   FolderStatus = "workbook_not_found"
	FolderTableNotFound      FolderStatus = "table_not_found"
	FolderWorkbookUnreadable FolderStatus = "workbook_unreadable"
)

// IdentifierResult records the artifacts produced for one identifier.
// Excerpt and document steps are independent, so an identifier may have an
// excerpt but no document, or the reverse.
type IdentifierResult struct {
	Serial      string   `json:"serial"`
	Heat        string   `json:"heat"`
	Outcome     Outcome  `json:"outcome"`
	ExcerptXLSX string   `json:"excerpt_xlsx,omitempty"`
	ExcerptPDF  string   `json:"excerpt_pdf,omitempty"`
	Document    string   `json:"document,omitempty"`
	SourcePath  string   `json:"source_path,omitempty"`
	MatchCount  int      `json:"match_count"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// FolderResult records what happened to one top-level folder
type FolderResult struct {
	Name        string             `json:"name"`
	Status      FolderStatus       `json:"status"`
	Workbook    string             `json:"workbook,omitempty"`
	Message     string             `json:"message,omitempty"`
	Identifiers []IdentifierResult `json:"identifiers"`
}

// CacheStats counts text cache lookups
type CacheStats struct {
	Hits     int `json:"hits"`
	Misses   int `json:"misses"`
	Failures int `json:"failures"`
}

// RunReport summarizes one correlation run over one root directory
type RunReport struct {
	RunID      string         `json:"run_id"`
	Root       string         `json:"root"`
	Output     string         `json:"output"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Folders    []FolderResult `json:"folders"`
	Cache      CacheStats     `json:"cache"`
}

// CountOutcome returns how many identifiers across all folders ended with the given outcome.
func (r *RunReport) CountOutcome(o Outcome) int {
	count := 0
	for _, f := range r.Folders {
		for _, id := range f.Identifiers {
			if id.Outcome == o {
				count++
			}
		}
	}
	return count
}

// CountFolders returns how many folders ended with the given status.
func (r *RunReport) CountFolders(s FolderStatus) int {
	count := 0
	for _, f := range r.Folders {
		if f.Status == s {
			count++
		}
	}
	return count
}
