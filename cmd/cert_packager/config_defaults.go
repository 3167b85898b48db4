package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cert-packager/internal/config"
)

// defaultConfigPath is read by the debug commands when --config is not given
const defaultConfigPath = "config.toml"

// flagDefault binds a string flag variable to the config value it falls back to
type flagDefault struct {
	flag   string
	target *string
	value  func(cfg *config.Config) string
}

// applyConfigDefaults fills every listed flag the user left unset from the config file.
// A missing default config file is not an error; an explicitly named one must load.
func applyConfigDefaults(cmd *cobra.Command, path string, defaults []flagDefault) error {
	if path == "" {
		return nil
	}
	if path == defaultConfigPath && !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	for _, d := range defaults {
		if cmd.Flags().Changed(d.flag) || *d.target != "" {
			continue
		}
		*d.target = d.value(cfg)
	}
	return nil
}

// requireFlags reports the first listed flag that is still empty
func requireFlags(values map[string]string, order ...string) error {
	for _, name := range order {
		if values[name] == "" {
			return fmt.Errorf("--%s is required (set it or point --config at a config.toml)", name)
		}
	}
	return nil
}
