package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "abilayout.toml"

type config struct {
	Output  outputConfig  `toml:"output"`
	Logging loggingConfig `toml:"logging"`
}

type outputConfig struct {
	Unit   string `toml:"unit"`
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

type loggingConfig struct {
	Level string `toml:"level"`
}

func defaultConfig() config {
	return config{
		Output: outputConfig{
			Unit:   "Decoder.sol",
			Format: "text",
		},
	}
}

// loadConfig reads the TOML config, if any, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config, error) {
	cfg := defaultConfig()

	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Output.Format = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	return cfg, nil
}
