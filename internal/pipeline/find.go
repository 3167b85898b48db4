package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindArchive returns the single .zip file directly inside folder.
// Zero or several archives both count as not found.
func FindArchive(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", folder, err)
	}

	var found []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			found = append(found, filepath.Join(folder, e.Name()))
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", fmt.Errorf("%w in %s", ErrArchiveNotFound, filepath.Base(folder))
	default:
		return "", fmt.Errorf("%w: %d archives in %s, expected exactly one", ErrArchiveNotFound, len(found), filepath.Base(folder))
	}
}

// FindWorkbook returns the first workbook in dir whose name contains both keyword and digits.
// Legacy .xls files are recognized but reported as unsupported.
func FindWorkbook(dir, keyword, digits string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	legacy := ""
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.Contains(name, keyword) || !strings.Contains(name, digits) {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx", ".xlsm":
			return filepath.Join(dir, name), nil
		case ".xls":
			if legacy == "" {
				legacy = name
			}
		}
	}

	if legacy != "" {
		return "", fmt.Errorf("%w: %s (save it as .xlsx)", ErrUnsupportedWorkbook, legacy)
	}
	return "", fmt.Errorf("%w in %s (keyword %q, number %q)", ErrWorkbookNotFound, filepath.Base(dir), keyword, digits)
}
