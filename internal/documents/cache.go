package documents

import (
	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/types"
)

type cacheEntry struct {
	text string
	err  error
}

// TextCache memoizes extracted text by document path for one run.
// Failed extractions are remembered too, so a broken file is read and
// reported once. Not safe for concurrent use.
type TextCache struct {
	extractor TextExtractor
	logger    *zap.Logger
	entries   map[string]cacheEntry
	stats     types.CacheStats
}

// NewTextCache creates an empty cache in front of extractor.
func NewTextCache(extractor TextExtractor, logger *zap.Logger) *TextCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextCache{
		extractor: extractor,
		logger:    logger,
		entries:   make(map[string]cacheEntry),
	}
}

// Text returns the document text, extracting it on first use.
// Entries are keyed by absolute path, so relative and absolute spellings of
// the same file share one extraction.
func (c *TextCache) Text(path string) (string, error) {
	path = absOrClean(path)
	if entry, ok := c.entries[path]; ok {
		c.stats.Hits++
		return entry.text, entry.err
	}

	c.stats.Misses++
	text, err := c.extractor.ExtractText(path)
	if err != nil {
		c.stats.Failures++
		c.logger.Warn("Failed to extract document text", zap.String("path", path), zap.Error(err))
	}
	c.entries[path] = cacheEntry{text: text, err: err}
	return text, err
}

// Len returns the number of documents seen
func (c *TextCache) Len() int {
	return len(c.entries)
}

// Stats returns hit/miss counters
func (c *TextCache) Stats() types.CacheStats {
	return c.stats
}
