package documents

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/types"
)

// Keywords are the file name markers that make a PDF a search candidate
type Keywords struct {
	CoC string
	MTC string
}

// Matcher searches the document corpus for an identifier
type Matcher struct {
	cache    *TextCache
	keywords Keywords
	logger   *zap.Logger
}

// NewMatcher creates a Matcher reading text through cache.
func NewMatcher(cache *TextCache, keywords Keywords, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{cache: cache, keywords: keywords, logger: logger}
}

// IsCandidate reports whether a file name passes the cheap pre-filter.
func (m *Matcher) IsCandidate(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return false
	}
	return (m.keywords.CoC != "" && strings.Contains(name, m.keywords.CoC)) ||
		(m.keywords.MTC != "" && strings.Contains(name, m.keywords.MTC))
}

// Candidates walks root and lists candidate PDFs in lexical order, skipping
// everything under excluded. Unreadable subdirectories are logged and skipped.
func (m *Matcher) Candidates(root, excluded string) ([]string, error) {
	excludedAbs := absOrClean(excluded)

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			m.logger.Warn("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if excluded != "" && isWithin(absOrClean(path), excludedAbs) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !m.IsCandidate(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, &ExtractionError{Path: root, Message: "failed to walk corpus", Cause: err}
	}
	return paths, nil
}

// Match returns every candidate whose extracted text contains search verbatim.
// Documents whose text cannot be extracted are left out.
func (m *Matcher) Match(root, search, excluded string) ([]types.DocumentMatch, error) {
	if search == "" {
		return nil, nil
	}

	paths, err := m.Candidates(root, excluded)
	if err != nil {
		return nil, err
	}

	var matches []types.DocumentMatch
	for _, path := range paths {
		text, err := m.cache.Text(path)
		if err != nil {
			continue
		}
		if strings.Contains(text, search) {
			matches = append(matches, types.DocumentMatch{Path: path, Text: text})
		}
	}

	m.logger.Debug("Corpus searched",
		zap.String("search", search),
		zap.Int("candidates", len(paths)),
		zap.Int("matches", len(matches)))
	return matches, nil
}

func absOrClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// isWithin reports whether path equals dir or lies below it
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
