package documents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cert-packager/internal/types"
)

var testKeywords = Keywords{CoC: "CoC", MTC: "MTC"}

// corpus creates empty files under root and registers their text with the fake
func corpus(t *testing.T, fake *fakeExtractor, root string, files map[string]string) {
	t.Helper()
	for rel, text := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))
		fake.texts[path] = text
	}
}

func matchPaths(root string, matches []types.DocumentMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		rel, _ := filepath.Rel(root, m.Path)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestMatcher_IsCandidate(t *testing.T) {
	m := NewMatcher(nil, testKeywords, nil)

	assert.True(t, m.IsCandidate("MTC 4711.pdf"))
	assert.True(t, m.IsCandidate("Supplier CoC.PDF"))
	assert.False(t, m.IsCandidate("mtc 4711.pdf"))
	assert.False(t, m.IsCandidate("Drawing 4711.pdf"))
	assert.False(t, m.IsCandidate("MTC 4711.xlsx"))
}

func TestMatcher_Match(t *testing.T) {
	root := t.TempDir()
	fake := newFakeExtractor()
	corpus(t, fake, root, map[string]string{
		"Shipment 1/MTC 1.pdf":         "Heat no. 67890 tensile 510",
		"Shipment 1/CoC 1.pdf":         "Certificate for heat 67890",
		"Shipment 2/sub/MTC 2.pdf":     "Heat no. 12345",
		"Shipment 2/Drawing 67890.pdf": "67890",
		"Shipment 2/MTC spaced.pdf":    "Heat no. 6 7 8 9 0",
	})

	m := NewMatcher(NewTextCache(fake, nil), testKeywords, nil)
	matches, err := m.Match(root, "67890", filepath.Join(root, "Output"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Shipment 1/CoC 1.pdf", "Shipment 1/MTC 1.pdf"}, matchPaths(root, matches))
	assert.Equal(t, "Certificate for heat 67890", matches[0].Text)
	assert.Zero(t, fake.calls[filepath.Join(root, "Shipment 2/Drawing 67890.pdf")])
}

func TestMatcher_ExcludesOutputSubtree(t *testing.T) {
	root := t.TempDir()
	fake := newFakeExtractor()
	corpus(t, fake, root, map[string]string{
		"A/MTC source.pdf":        "heat 555",
		"Output/SN-1 -MTC.pdf":    "heat 555",
		"Output/nested/MTC x.pdf": "heat 555",
	})

	m := NewMatcher(NewTextCache(fake, nil), testKeywords, nil)
	matches, err := m.Match(root, "555", filepath.Join(root, "Output"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A/MTC source.pdf"}, matchPaths(root, matches))
	assert.Zero(t, fake.calls[filepath.Join(root, "Output/SN-1 -MTC.pdf")])
	assert.Zero(t, fake.calls[filepath.Join(root, "Output/nested/MTC x.pdf")])
}

func TestMatcher_ExcludedRelativePath(t *testing.T) {
	root := t.TempDir()
	fake := newFakeExtractor()
	corpus(t, fake, root, map[string]string{
		"A/MTC a.pdf":      "777",
		"Output/MTC o.pdf": "777",
	})

	wd, err := os.Getwd()
	require.NoError(t, err)
	relRoot, err := filepath.Rel(wd, root)
	require.NoError(t, err)

	m := NewMatcher(NewTextCache(fake, nil), testKeywords, nil)
	matches, err := m.Match(relRoot, "777", filepath.Join(root, "Output"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "MTC a.pdf", filepath.Base(matches[0].Path))
	assert.Equal(t, 1, fake.calls[filepath.Join(root, "A/MTC a.pdf")])
	assert.Zero(t, fake.calls[filepath.Join(root, "Output/MTC o.pdf")])
	assert.Equal(t, 1, fake.totalCalls())
}

func TestMatcher_RepeatedSearchesUseCache(t *testing.T) {
	root := t.TempDir()
	fake := newFakeExtractor()
	corpus(t, fake, root, map[string]string{
		"A/MTC 1.pdf": "heat 100 heat 200",
		"B/MTC 2.pdf": "heat 300",
		"B/CoC 3.pdf": "serials",
	})

	m := NewMatcher(NewTextCache(fake, nil), testKeywords, nil)
	for _, search := range []string{"100", "200", "300", "400"} {
		_, err := m.Match(root, search, "")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, fake.totalCalls())
	for path, n := range fake.calls {
		assert.Equal(t, 1, n, path)
	}
}

func TestMatcher_ExtractionFailureIsSkipped(t *testing.T) {
	root := t.TempDir()
	fake := newFakeExtractor()
	corpus(t, fake, root, map[string]string{
		"A/MTC good.pdf": "heat 42",
		"A/MTC bad.pdf":  "heat 42",
	})
	fake.fail[filepath.Join(root, "A/MTC bad.pdf")] = true

	m := NewMatcher(NewTextCache(fake, nil), testKeywords, nil)
	matches, err := m.Match(root, "42", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A/MTC good.pdf"}, matchPaths(root, matches))
}

func TestMatcher_CaseSensitiveContainment(t *testing.T) {
	root := t.TempDir()
	fake := newFakeExtractor()
	corpus(t, fake, root, map[string]string{
		"MTC a.pdf": "heat h77-b",
	})

	m := NewMatcher(NewTextCache(fake, nil), testKeywords, nil)
	matches, err := m.Match(root, "H77-B", "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatcher_EmptySearch(t *testing.T) {
	m := NewMatcher(NewTextCache(newFakeExtractor(), nil), testKeywords, nil)
	matches, err := m.Match(t.TempDir(), "", "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatcher_MissingRoot(t *testing.T) {
	m := NewMatcher(NewTextCache(newFakeExtractor(), nil), testKeywords, nil)
	_, err := m.Match(filepath.Join(t.TempDir(), "missing"), "1", "")
	require.Error(t, err)
	var extErr *ExtractionError
	assert.ErrorAs(t, err, &extErr)
}

func TestIsWithin(t *testing.T) {
	sep := string(filepath.Separator)
	assert.True(t, isWithin(sep+"r"+sep+"out", sep+"r"+sep+"out"))
	assert.True(t, isWithin(sep+"r"+sep+"out"+sep+"a.pdf", sep+"r"+sep+"out"))
	assert.False(t, isWithin(sep+"r"+sep+"output2"+sep+"a.pdf", sep+"r"+sep+"out"))
	assert.False(t, isWithin(sep+"r"+sep+"a.pdf", sep+"r"+sep+"out"))
	assert.True(t, isWithin(sep+"r"+sep+"..out"+sep+"a.pdf", sep+"r"))
}
