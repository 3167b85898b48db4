package pipeline

import (
	"io"
	"os"
	"path/filepath"
)

// CopyDocument copies src to outDir/name, replacing any existing file.
func CopyDocument(src, outDir, name string) (string, error) {
	target := filepath.Join(outDir, name)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", &CopyError{Source: src, Target: target, Cause: err}
	}

	in, err := os.Open(src)
	if err != nil {
		return "", &CopyError{Source: src, Target: target, Cause: err}
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", &CopyError{Source: src, Target: target, Cause: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", &CopyError{Source: src, Target: target, Cause: err}
	}
	if err := out.Close(); err != nil {
		return "", &CopyError{Source: src, Target: target, Cause: err}
	}
	return target, nil
}
