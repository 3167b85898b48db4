package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/archive"
	"github.com/jonathan/cert-packager/internal/config"
	"github.com/jonathan/cert-packager/internal/rendering"
	"github.com/jonathan/cert-packager/internal/selection"
	"github.com/jonathan/cert-packager/internal/spreadsheet"
	"github.com/jonathan/cert-packager/internal/types"
)

// Progress categories
const (
	CategoryFolder     = "folder"
	CategoryIdentifier = "identifier"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// IdentifierSource reads identifier pairs from a CoC workbook
type IdentifierSource interface {
	Extract(path, serialHeader, heatHeader string) ([]types.IdentifierRecord, error)
}

// DocumentSearcher finds documents containing a search string
type DocumentSearcher interface {
	Match(root, search, excluded string) ([]types.DocumentMatch, error)
}

// LatestSelector picks the most recent document among matches
type LatestSelector interface {
	SelectLatest(matches []types.DocumentMatch) selection.Result
}

// ExcerptWriter writes the highlighted excerpt for one serial
type ExcerptWriter interface {
	Export(ctx context.Context, workbookPath, serial, outDir string) (*rendering.Artifacts, error)
}

// Deps holds the collaborators of a run
type Deps struct {
	Identifiers IdentifierSource
	Documents   DocumentSearcher
	Selector    LatestSelector
	Excerpts    ExcerptWriter
	Unzip       func(zipPath, dest string) error
	CacheStats  func() types.CacheStats
	Logger      *zap.Logger
	OnProgress  ProgressCallback
}

// Orchestrator drives folders and identifiers through extraction, excerpt, search, selection and copy
type Orchestrator struct {
	cfg    *config.Config
	deps   Deps
	logger *zap.Logger
	runID  string
}

// New creates an Orchestrator. Missing Unzip defaults to archive.Unzip.
func New(cfg *config.Config, deps Deps) *Orchestrator {
	if deps.Unzip == nil {
		deps.Unzip = archive.Unzip
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{cfg: cfg, deps: deps, logger: logger, runID: uuid.NewString()}
}

// RunID returns the identifier stamped on this run's report.
func (o *Orchestrator) RunID() string {
	return o.runID
}

func (o *Orchestrator) emitProgress(step, category, message string, content any) {
	if o.deps.OnProgress != nil {
		o.deps.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    o.runID,
			Content:  content,
		})
	}
}

// Run processes every eligible folder under the root directory.
// Only an unreadable root or a cancelled context returns an error; every other
// failure is recorded on the report and the run continues.
func (o *Orchestrator) Run(ctx context.Context) (*types.RunReport, error) {
	root := o.cfg.Paths.RootDirectory
	report := &types.RunReport{
		RunID:     o.runID,
		Root:      root,
		Output:    o.cfg.OutputPath(),
		StartedAt: time.Now(),
		Folders:   []types.FolderResult{},
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list root directory %s: %w", root, err)
	}

	ignored := o.cfg.IgnoredFolders()
	for _, e := range entries {
		if !e.IsDir() || ignored[e.Name()] {
			continue
		}
		if err := ctx.Err(); err != nil {
			o.finish(report)
			return report, err
		}

		o.logger.Info("Processing folder", zap.String("folder", e.Name()))
		o.emitProgress("folder_start", CategoryFolder, fmt.Sprintf("Processing folder %s", e.Name()), nil)

		result := o.ProcessFolder(ctx, filepath.Join(root, e.Name()))
		report.Folders = append(report.Folders, result)

		o.emitProgress("folder_done", CategoryFolder,
			fmt.Sprintf("Folder %s: %s (%d identifiers)", result.Name, result.Status, len(result.Identifiers)), result)
	}

	o.finish(report)
	return report, ctx.Err()
}

func (o *Orchestrator) finish(report *types.RunReport) {
	if o.deps.CacheStats != nil {
		report.Cache = o.deps.CacheStats()
	}
	report.FinishedAt = time.Now()
}

// ProcessFolder extracts the folder's archive, locates its CoC workbook and
// processes each identifier in table row order.
func (o *Orchestrator) ProcessFolder(ctx context.Context, folder string) types.FolderResult {
	result := types.FolderResult{Name: filepath.Base(folder), Identifiers: []types.IdentifierResult{}}
	log := o.logger.With(zap.String("folder", result.Name))

	skip := func(status types.FolderStatus, err error) types.FolderResult {
		result.Status = status
		result.Message = err.Error()
		log.Warn("Skipping folder", zap.String("status", string(status)), zap.Error(err))
		return result
	}

	zipPath, err := FindArchive(folder)
	if err != nil {
		return skip(types.FolderArchiveNotFound, err)
	}

	stem := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	extractDir := filepath.Join(folder, stem)
	if err := o.deps.Unzip(zipPath, extractDir); err != nil {
		return skip(types.FolderExtractFailed, err)
	}
	log.Debug("Archive extracted", zap.String("archive", zipPath), zap.String("dest", extractDir))

	digits := archive.DigitsOf(filepath.Base(extractDir))
	terms := o.cfg.SearchTerms
	workbook, err := FindWorkbook(extractDir, terms.CertificateOfConformity, digits)
	if err != nil {
		if errors.Is(err, ErrUnsupportedWorkbook) {
			return skip(types.FolderWorkbookUnreadable, err)
		}
		return skip(types.FolderWorkbookNotFound, err)
	}
	result.Workbook = workbook
	log.Info("Found CoC workbook", zap.String("workbook", filepath.Base(workbook)))

	records, err := o.deps.Identifiers.Extract(workbook, terms.ExcelSerialHeader, terms.ExcelHeatNoHeader)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrTableNotFound) {
			return skip(types.FolderTableNotFound, err)
		}
		return skip(types.FolderWorkbookUnreadable, err)
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			result.Message = "run cancelled"
			break
		}
		result.Identifiers = append(result.Identifiers, o.ProcessIdentifier(ctx, workbook, rec))
	}

	result.Status = types.FolderProcessed
	return result
}

// ProcessIdentifier exports the excerpt, then searches, selects and copies the
// latest MTC for one identifier pair. Each step runs even when an earlier one
// came up empty; Outcome reports the first step that did.
func (o *Orchestrator) ProcessIdentifier(ctx context.Context, workbook string, rec types.IdentifierRecord) types.IdentifierResult {
	search := rec.Heat.SearchString(o.cfg.Settings.PreserveHeatText)
	result := types.IdentifierResult{Serial: rec.Serial, Heat: search}
	log := o.logger.With(zap.String("serial", rec.Serial), zap.String("heat", search))
	outDir := o.cfg.OutputPath()

	var outcomes []types.Outcome
	note := func(outcome types.Outcome, err error) {
		outcomes = append(outcomes, outcome)
		result.Diagnostics = append(result.Diagnostics, err.Error())
	}

	log.Info("Processing identifier")

	artifacts, err := o.deps.Excerpts.Export(ctx, workbook, rec.Serial, outDir)
	switch {
	case errors.Is(err, rendering.ErrIdentifierNotFound):
		log.Info("Serial not found in workbook; no excerpt written")
		note(types.OutcomeExcerptNotFound, err)
	case err != nil:
		log.Warn("Excerpt export failed", zap.Error(err))
		note(types.OutcomeExcerptFailed, err)
	}
	if artifacts != nil {
		result.ExcerptXLSX = artifacts.XLSX
		result.ExcerptPDF = artifacts.PDF
	}

	matches, err := o.deps.Documents.Match(o.cfg.Paths.RootDirectory, search, outDir)
	if err != nil {
		log.Warn("Document search failed", zap.Error(err))
		note(types.OutcomeSearchFailed, err)
		return o.conclude(result, outcomes)
	}
	result.MatchCount = len(matches)

	picked := o.deps.Selector.SelectLatest(matches)
	for _, rej := range picked.Rejected {
		result.Diagnostics = append(result.Diagnostics, rej.Err.Error())
	}
	if picked.Selected == nil {
		log.Info("No dated MTC document matched",
			zap.Int("matches", len(matches)), zap.Int("eligible", picked.Eligible))
		note(types.OutcomeDocumentNotFound,
			fmt.Errorf("no dated %s document contains %q", o.cfg.SearchTerms.MaterialTestCertificate, search))
		return o.conclude(result, outcomes)
	}

	name := fmt.Sprintf("%s -%s.pdf", types.SanitizeFileName(rec.Serial), o.cfg.SearchTerms.MaterialTestCertificate)
	target, err := CopyDocument(picked.Selected.Path, outDir, name)
	if err != nil {
		log.Warn("Copy failed", zap.Error(err))
		note(types.OutcomeCopyFailed, err)
		return o.conclude(result, outcomes)
	}
	result.Document = target
	result.SourcePath = picked.Selected.Path
	log.Info("Document packaged",
		zap.String("source", picked.Selected.Path),
		zap.Time("timestamp", picked.Selected.Timestamp.Local),
		zap.String("target", target))

	return o.conclude(result, outcomes)
}

func (o *Orchestrator) conclude(result types.IdentifierResult, outcomes []types.Outcome) types.IdentifierResult {
	result.Outcome = types.OutcomePackaged
	if len(outcomes) > 0 {
		result.Outcome = outcomes[0]
	}
	o.emitProgress("identifier_done", CategoryIdentifier,
		fmt.Sprintf("%s: %s", result.Serial, result.Outcome), result)
	return result
}
