package pipeline

import (
	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/config"
	"github.com/jonathan/cert-packager/internal/documents"
	"github.com/jonathan/cert-packager/internal/rendering"
	"github.com/jonathan/cert-packager/internal/selection"
	"github.com/jonathan/cert-packager/internal/spreadsheet"
)

// NewRenderer builds the excerpt PDF renderer named by the configuration.
// The "none" renderer yields nil, which makes the exporter skip the PDF.
func NewRenderer(cfg *config.Config, logger *zap.Logger) (rendering.Renderer, error) {
	timeout, err := cfg.RenderTimeout()
	if err != nil {
		return nil, err
	}
	switch cfg.RendererName() {
	case config.RendererNone:
		return nil, nil
	case config.RendererLaTeX:
		return rendering.NewLaTeXRenderer(timeout, logger), nil
	default:
		return rendering.NewChromeRenderer(timeout, logger), nil
	}
}

// NewDefault wires the PDF-backed collaborators for a run over cfg.
// One text cache is shared by every search in the run.
func NewDefault(cfg *config.Config, logger *zap.Logger, onProgress ProgressCallback) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := NewRenderer(cfg, logger)
	if err != nil {
		return nil, err
	}

	pdfs := documents.NewPDFExtractor()
	cache := documents.NewTextCache(pdfs, logger)
	terms := cfg.SearchTerms
	keywords := documents.Keywords{CoC: terms.CertificateOfConformity, MTC: terms.MaterialTestCertificate}

	return New(cfg, Deps{
		Identifiers: spreadsheet.NewLocator(logger),
		Documents:   documents.NewMatcher(cache, keywords, logger),
		Selector:    selection.NewSelector(pdfs, terms.MaterialTestCertificate, logger),
		Excerpts:    rendering.NewExporter(renderer, logger),
		CacheStats:  cache.Stats,
		Logger:      logger,
		OnProgress:  onProgress,
	}), nil
}
