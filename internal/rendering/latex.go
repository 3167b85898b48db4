package rendering

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
)

const latexTemplate = `\documentclass[8pt]{extarticle}
\usepackage[a4paper,landscape,margin=10mm]{geometry}
\usepackage[T1]{fontenc}
\usepackage[utf8]{inputenc}
\usepackage[table]{xcolor}
\usepackage{longtable}
\usepackage{array}
\definecolor{highlight}{HTML}{ {{- .Color -}} }
\pagestyle{empty}
\setlength{\tabcolsep}{3pt}
\setlength{\LTleft}{0pt}
\setlength{\LTright}{0pt plus 1fill}
\begin{document}
\noindent\textbf{ {{- escape .Title}} ({{escape .Sheet}})}\par\medskip
{ {{- .FontSize -}} \raggedright
\begin{longtable}{|{{.ColumnFormat}}|}
\hline
{{- range $i, $row := .Rows}}
{{if eq $i $.Highlight}}\rowcolor{highlight} {{end}}{{join $row}} \\ \hline
{{- end}}
\end{longtable}}
\end{document}
`

// Sheets wider than this switch to fixed-width wrapping columns so the table fits the page width
const maxNaturalColumns = 8

// latexPasses lets longtable settle column widths across pages
const latexPasses = 2

var excerptLaTeX = template.Must(template.New("excerpt").Funcs(template.FuncMap{
	"escape": EscapeLaTeX,
	"join": func(cells []string) string {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = EscapeLaTeX(c)
		}
		return strings.Join(escaped, " & ")
	},
}).Parse(latexTemplate))

type latexData struct {
	Title        string
	Sheet        string
	ColumnFormat string
	FontSize     string
	Rows         [][]string
	Highlight    int
	Color        string
}

// RenderLaTeXSource renders the table as a standalone LaTeX document.
func RenderLaTeXSource(table *Table) (string, error) {
	width := max(table.Width, 1)
	var sb strings.Builder
	err := excerptLaTeX.Execute(&sb, latexData{
		Title:        table.Title,
		Sheet:        table.Sheet,
		ColumnFormat: columnFormat(width),
		FontSize:     fontSize(width),
		Rows:         padTo(table.Padded(), width),
		Highlight:    table.Highlight,
		Color:        HighlightColor,
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute LaTeX template", Cause: err}
	}
	return sb.String(), nil
}

// columnFormat returns natural-width columns for narrow sheets and equal
// wrapping columns sharing the line width for wide ones.
func columnFormat(width int) string {
	col := "l"
	if width > maxNaturalColumns {
		col = fmt.Sprintf(`>{\raggedright\arraybackslash}p{\dimexpr%.4f\linewidth-2\tabcolsep-1pt\relax}`, 1/float64(width))
	}
	cols := make([]string, width)
	for i := range cols {
		cols[i] = col
	}
	return strings.Join(cols, "|")
}

func fontSize(width int) string {
	switch {
	case width > 16:
		return `\tiny`
	case width > maxNaturalColumns:
		return `\scriptsize`
	default:
		return `\small`
	}
}

func padTo(rows [][]string, width int) [][]string {
	for i, row := range rows {
		if len(row) < width {
			rows[i] = append(row, make([]string, width-len(row))...)
		}
	}
	return rows
}

// LaTeXRenderer compiles the excerpt with pdflatex
type LaTeXRenderer struct {
	Timeout time.Duration
	logger  *zap.Logger
}

// NewLaTeXRenderer creates a LaTeXRenderer bounded by timeout per document
func NewLaTeXRenderer(timeout time.Duration, logger *zap.Logger) *LaTeXRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LaTeXRenderer{Timeout: timeout, logger: logger}
}

// RenderPDF writes the compiled PDF of the table to outPath.
func (r *LaTeXRenderer) RenderPDF(ctx context.Context, table *Table, outPath string) error {
	source, err := RenderLaTeXSource(table)
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "latex-compile-*")
	if err != nil {
		return &CompilationError{Message: "failed to create temporary working directory", Cause: err}
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	texPath := filepath.Join(workDir, "excerpt.tex")
	if err := os.WriteFile(texPath, []byte(source), 0644); err != nil {
		return &CompilationError{Message: "failed to write LaTeX source", Cause: err}
	}

	var pdfPath string
	for pass := 1; pass <= latexPasses; pass++ {
		var logOutput string
		pdfPath, logOutput, err = CompileLaTeX(ctx, texPath, workDir, r.Timeout)
		if err != nil {
			r.logger.Debug("pdflatex output", zap.Int("pass", pass), zap.String("log", logOutput))
			return err
		}
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return &CompilationError{Message: "failed to read compiled PDF", Cause: err}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// CompileLaTeX runs pdflatex on texPath inside workDir and returns the PDF path.
func CompileLaTeX(ctx context.Context, texPath, workDir string, timeout time.Duration) (pdfPath string, logOutput string, err error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return "", "", &CompilationError{
			Message: "pdflatex not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// nonstopmode keeps pdflatex from waiting on stdin after an error
	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-output-directory", workDir, texPath)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	logOutput = stdout.String() + stderr.String()

	pdfPath = filepath.Join(workDir, strings.TrimSuffix(filepath.Base(texPath), ".tex")+".pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		return "", logOutput, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	// pdflatex exits non-zero on recoverable errors while still producing a PDF
	if runErr != nil {
		return pdfPath, logOutput, &CompilationError{
			Message:   "LaTeX compilation completed with errors (PDF may be incomplete)",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}
	return pdfPath, logOutput, nil
}
