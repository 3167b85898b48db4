// Package archive decompresses the per-folder shipment archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Error represents a failure extracting an archive
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("archive error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("archive error: %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Unzip extracts every entry of zipPath below dest, creating dest if needed.
// Entries that would land outside dest are rejected.
func Unzip(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return &Error{Path: zipPath, Message: "failed to open archive", Cause: err}
	}
	defer func() { _ = r.Close() }()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return &Error{Path: zipPath, Message: "failed to create destination", Cause: err}
	}

	for _, f := range r.File {
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return &Error{Path: zipPath, Message: "unsafe entry", Cause: err}
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return &Error{Path: zipPath, Message: "failed to create directory " + f.Name, Cause: err}
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return &Error{Path: zipPath, Message: "failed to extract " + f.Name, Cause: err}
		}
	}
	return nil
}

func entryPath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("entry %q escapes destination", name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// DigitsOf concatenates every ASCII digit in name, e.g. "Order 12-345" -> "12345".
func DigitsOf(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
