package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the YAML file format accepted by --config.
type Config struct {
	Log     LogConfig `yaml:"log"`
	DataDir string    `yaml:"dataDir"`
}

// LogConfig maps onto txnlog.Config.
type LogConfig struct {
	Path        string `yaml:"path"`
	Format      string `yaml:"format"`
	MaxBytes    int64  `yaml:"maxBytes"`
	BackupCount int    `yaml:"backupCount"`
	BufferSize  int    `yaml:"bufferSize"`
	Level       string `yaml:"level"`
}

// loadConfig reads the --config file when given and overlays the
// per-command flags on top.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{DataDir: "."}

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		cfg.Log.Path = file
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().String("file", "", "transaction log file (overrides config)")
	rootCmd.PersistentFlags().String("data-dir", "", "ledger database directory (overrides config)")
}
