package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cert-packager/internal/types"
)

// ManifestFileName is the manifest written into the output folder
const ManifestFileName = "manifest.json"

// WriteManifest validates the report and writes it as indented JSON to dir/manifest.json.
// Nothing is written when validation fails.
func WriteManifest(report *types.RunReport, dir string) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := ValidateManifest(data); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
