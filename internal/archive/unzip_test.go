package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Order 4711.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestUnzip(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"CoC 4711.xlsx":   "workbook",
		"certs/MTC 1.pdf": "pdf",
		"certs/empty/":    "",
	})
	dest := filepath.Join(t.TempDir(), "Order 4711")

	require.NoError(t, Unzip(zipPath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "CoC 4711.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "workbook", string(data))
	assert.FileExists(t, filepath.Join(dest, "certs", "MTC 1.pdf"))
	assert.DirExists(t, filepath.Join(dest, "certs", "empty"))
}

func TestUnzip_Overwrites(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"a.txt": "new"})
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "a.txt"), []byte("older and longer"), 0644))

	require.NoError(t, Unzip(zipPath, dest))
	data, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestUnzip_RejectsTraversal(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"../escape.txt": "x"})
	dest := filepath.Join(t.TempDir(), "out")

	err := Unzip(zipPath, dest)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "escape.txt"))
}

func TestUnzip_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	err := Unzip(path, t.TempDir())
	require.Error(t, err)
	var archErr *Error
	assert.ErrorAs(t, err, &archErr)
	assert.Equal(t, path, archErr.Path)
}

func TestDigitsOf(t *testing.T) {
	assert.Equal(t, "4711", DigitsOf("Order 4711"))
	assert.Equal(t, "12345", DigitsOf("PO 12-345 rev"))
	assert.Equal(t, "", DigitsOf("no digits"))
}

func TestEntryPath(t *testing.T) {
	dest := t.TempDir()

	got, err := entryPath(dest, "certs/MTC 1.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "certs", "MTC 1.pdf"), got)

	_, err = entryPath(dest, "../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")

	_, err = entryPath(dest, "certs/../../x")
	assert.Error(t, err)
}
