package rendering

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromeRenderer_RenderPDF(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	found := false
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("Chrome not available, skipping test")
	}

	out := filepath.Join(t.TempDir(), "SN-001 -CoC.pdf")
	err := NewChromeRenderer(time.Minute, nil).RenderPDF(context.Background(), sampleTable(), out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
