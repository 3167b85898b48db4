package documents

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor serves text by path and counts calls
type fakeExtractor struct {
	texts map[string]string
	fail  map[string]bool
	calls map[string]int
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		texts: make(map[string]string),
		fail:  make(map[string]bool),
		calls: make(map[string]int),
	}
}

func (f *fakeExtractor) ExtractText(path string) (string, error) {
	f.calls[path]++
	if f.fail[path] {
		return "", &ExtractionError{Path: path, Message: "boom", Cause: errors.New("corrupt xref")}
	}
	return f.texts[path], nil
}

func (f *fakeExtractor) totalCalls() int {
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func TestTextCache_ExtractsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	fake := newFakeExtractor()
	fake.texts[path] = "alpha"
	cache := NewTextCache(fake, nil)

	for i := 0; i < 5; i++ {
		text, err := cache.Text(path)
		require.NoError(t, err)
		assert.Equal(t, "alpha", text)
	}

	assert.Equal(t, 1, fake.calls[path])
	stats := cache.Stats()
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 4, stats.Hits)
	assert.Equal(t, 0, stats.Failures)
	assert.Equal(t, 1, cache.Len())
}

func TestTextCache_FailureRemembered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	fake := newFakeExtractor()
	fake.fail[path] = true
	cache := NewTextCache(fake, nil)

	_, err := cache.Text(path)
	require.Error(t, err)
	_, err = cache.Text(path)
	require.Error(t, err)

	var extErr *ExtractionError
	assert.ErrorAs(t, err, &extErr)
	assert.Equal(t, 1, fake.calls[path])
	assert.Equal(t, 1, cache.Stats().Failures)
}

func TestTextCache_EmptyTextIsCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	fake := newFakeExtractor()
	cache := NewTextCache(fake, nil)

	_, _ = cache.Text(path)
	_, _ = cache.Text(path)
	assert.Equal(t, 1, fake.calls[path])
}

func TestTextCache_RelativeAndAbsolutePathShareEntry(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "MTC 1.pdf")
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, abs)
	require.NoError(t, err)

	fake := newFakeExtractor()
	fake.texts[abs] = "heat 67890"
	cache := NewTextCache(fake, nil)

	text, err := cache.Text(rel)
	require.NoError(t, err)
	assert.Equal(t, "heat 67890", text)
	text, err = cache.Text(abs)
	require.NoError(t, err)
	assert.Equal(t, "heat 67890", text)
	_, err = cache.Text(filepath.Join(dir, ".", "sub", "..", "MTC 1.pdf"))
	require.NoError(t, err)

	assert.Equal(t, 1, fake.totalCalls())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 2, cache.Stats().Hits)
}
