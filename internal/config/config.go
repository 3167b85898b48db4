// Package config provides configuration loading and validation for the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override values from the config file
const (
	EnvRootDirectory = "CERT_PACKAGER_ROOT"
	EnvOutputFolder  = "CERT_PACKAGER_OUTPUT"
)

// Renderer names accepted in settings.renderer
const (
	RendererChrome = "chrome"
	RendererLaTeX  = "latex"
	RendererNone   = "none"
)

// DefaultRenderTimeout bounds a single excerpt PDF rendering
const DefaultRenderTimeout = 30 * time.Second

// Config is the single configuration surface for a correlation run.
// It mirrors the layout of config.toml.
type Config struct {
	Paths       Paths       `toml:"paths"`
	SearchTerms SearchTerms `toml:"search_terms"`
	Settings    Settings    `toml:"settings"`
}

// Paths locates the archive tree and the output folder inside it
type Paths struct {
	RootDirectory    string `toml:"root_directory" validate:"required"`
	OutputFolderName string `toml:"output_folder_name" validate:"required,excludesall=/\\"`
}

// SearchTerms holds the keywords and table headers that drive matching
type SearchTerms struct {
	CertificateOfConformity string `toml:"certificate_of_conformity" validate:"required"`
	MaterialTestCertificate string `toml:"material_test_certificate" validate:"required"`
	ExcelSerialHeader       string `toml:"excel_serial_header" validate:"required"`
	ExcelHeatNoHeader       string `toml:"excel_heatno_header" validate:"required"`
}

// Settings holds optional behavior switches
type Settings struct {
	IgnoreList       []string `toml:"ignore_list"`
	PreserveHeatText bool     `toml:"preserve_heat_text"`                                    // Search with the heat cell text instead of its integer form
	Renderer         string   `toml:"renderer" validate:"omitempty,oneof=chrome latex none"` // Excerpt PDF backend
	RenderTimeout    string   `toml:"render_timeout"`                                        // Go duration string, e.g. "45s"
	WriteManifest    *bool    `toml:"write_manifest"`                                        // Defaults to true
}

// Error represents an invalid or unreadable configuration
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// LoadConfig loads configuration from a TOML file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, &Error{Message: "config path is empty"}
	}

	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, &Error{Message: "failed to resolve config path", Cause: err}
		}
		path = abs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
	}

	return Parse(data)
}

// Parse decodes TOML content into a Config. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, &Error{Message: "unknown keys in config", Cause: errors.New(strictErr.String())}
		}
		return nil, &Error{Message: "failed to parse config TOML", Cause: err}
	}
	return &cfg, nil
}

// ApplyEnv overrides paths from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvRootDirectory); v != "" {
		c.Paths.RootDirectory = v
	}
	if v := getenv(EnvOutputFolder); v != "" {
		c.Paths.OutputFolderName = v
	}
}

// Validate checks required fields, the renderer settings and that the root directory exists.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &Error{Message: fmt.Sprintf("'%s' failed the '%s' check", fe.Namespace(), fe.Tag()), Cause: err}
		}
		return &Error{Message: "invalid configuration", Cause: err}
	}

	if _, err := c.RenderTimeout(); err != nil {
		return err
	}

	info, err := os.Stat(c.Paths.RootDirectory)
	if err != nil {
		return &Error{Message: fmt.Sprintf("root directory '%s' does not exist", c.Paths.RootDirectory), Cause: err}
	}
	if !info.IsDir() {
		return &Error{Message: fmt.Sprintf("root directory '%s' is not a directory", c.Paths.RootDirectory)}
	}

	return nil
}

// OutputPath returns the absolute-or-relative path of the output folder under the root.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Paths.RootDirectory, c.Paths.OutputFolderName)
}

// IgnoredFolders returns the configured ignore-list plus the output folder name.
func (c *Config) IgnoredFolders() map[string]bool {
	ignored := make(map[string]bool, len(c.Settings.IgnoreList)+1)
	for _, name := range c.Settings.IgnoreList {
		ignored[name] = true
	}
	ignored[c.Paths.OutputFolderName] = true
	return ignored
}

// RendererName returns the configured renderer, defaulting to chrome.
func (c *Config) RendererName() string {
	if c.Settings.Renderer == "" {
		return RendererChrome
	}
	return c.Settings.Renderer
}

// RenderTimeout parses settings.render_timeout, defaulting to DefaultRenderTimeout.
func (c *Config) RenderTimeout() (time.Duration, error) {
	if c.Settings.RenderTimeout == "" {
		return DefaultRenderTimeout, nil
	}
	d, err := time.ParseDuration(c.Settings.RenderTimeout)
	if err != nil {
		return 0, &Error{Message: fmt.Sprintf("invalid render_timeout '%s'", c.Settings.RenderTimeout), Cause: err}
	}
	if d <= 0 {
		return 0, &Error{Message: "render_timeout must be positive"}
	}
	return d, nil
}

// ManifestEnabled reports whether manifest.json should be written (default true).
func (c *Config) ManifestEnabled() bool {
	if c.Settings.WriteManifest == nil {
		return true
	}
	return *c.Settings.WriteManifest
}
