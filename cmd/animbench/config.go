package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config represents the harness configuration shared by run and monitor.
type Config struct {
	// URL is the page to drive. Empty selects the built-in synthetic demo page.
	URL string `json:"url"`
	// OutputDir receives report and filmstrip artifacts. Empty disables saving.
	OutputDir string `json:"output_dir"`
	// Listen is the overlay server address used by monitor.
	Listen string `json:"listen"`
	// LogLevel applies when --log-level is not given on the command line.
	LogLevel string `json:"log_level"`
	// Headed runs the browser with a visible window.
	Headed bool `json:"headed"`
	// Thumbnails captures one screenshot per scenario on browser targets.
	Thumbnails bool `json:"thumbnails"`
}

// DefaultConfig returns the default harness configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:  "./animbench_results",
		Listen:     ":8099",
		LogLevel:   "info",
		Thumbnails: true,
	}
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "write config file")
	}
	return nil
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &config, nil
}

// resolveConfig merges the config file, when one is given, under the command
// line: flags changed on the command line win over file values.
func resolveConfig(cmd *cobra.Command) (*Config, error) {
	cfg := DefaultConfig()
	if flagConfig != "" {
		loaded, err := LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = flagURL
	}
	if flags.Changed("output") {
		cfg.OutputDir = flagOutput
	}
	if flags.Changed("listen") {
		cfg.Listen = flagListen
	}
	if flags.Changed("headed") {
		cfg.Headed = flagHeaded
	}
	if flags.Changed("thumbnails") {
		cfg.Thumbnails = flagThumbnails
	}

	if cfg.LogLevel != "" && !rootCmd.PersistentFlags().Changed("log-level") {
		setupLogging(cfg.LogLevel)
	}
	return cfg, nil
}
