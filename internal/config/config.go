// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/progbook/internal/logger"
)

// Config holds the extractor configuration.
type Config struct {
	PDFPath    string   `mapstructure:"pdf_path"`
	StartPage  int      `mapstructure:"start_page"`
	OutputPath string   `mapstructure:"output_path"`
	WatchPaths []string `mapstructure:"watch_paths"`
	Notify     bool     `mapstructure:"notify"`
	LogFile    string   `mapstructure:"log_file"`
}

// Load loads configuration from file and environment. An empty configPath
// falls back to ~/.progbook/config.yaml, generating a default file when none
// exists yet.
func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	// Set default values. pdf_path needs one too: Unmarshal and the
	// PROGBOOK_* env overrides only see keys viper already knows about.
	viper.SetDefault("pdf_path", "")
	viper.SetDefault("start_page", 1)
	viper.SetDefault("output_path", "result.xlsx")
	viper.SetDefault("watch_paths", []string{})
	viper.SetDefault("notify", false)
	viper.SetDefault("log_file", "")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(home, ".progbook")
		configFile := filepath.Join(configDir, "config.yaml")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := generateDefaultConfig(configFile); err != nil {
				return nil, fmt.Errorf("failed to generate default config: %w", err)
			}
		}

		viper.SetConfigFile(configFile)
	}

	// Both paths set an explicit config file (the no-flag path generates a
	// default one), so a read failure here is always a real error.
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Allow environment variables
	viper.SetEnvPrefix("PROGBOOK")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.StartPage < 1 {
		logger.Warnf("start_page %d is invalid, defaulting to 1", config.StartPage)
		config.StartPage = 1
	}
	if config.OutputPath == "" {
		config.OutputPath = "result.xlsx"
		logger.Printf("Output path was empty, defaulting to: %s", config.OutputPath)
	}

	return &config, nil
}

// ApplyCLIFlags applies command-line flags to override config values.
func ApplyCLIFlags(config *Config, pdfPath string, startPage int, outputPath string, watchDirs []string) {
	if pdfPath != "" {
		config.PDFPath = pdfPath
	}
	if startPage > 0 {
		config.StartPage = startPage
	}
	if outputPath != "" {
		config.OutputPath = outputPath
	}
	if len(watchDirs) > 0 {
		config.WatchPaths = watchDirs
	}
}

// NewRunID returns a fresh identifier logged once per invocation.
func NewRunID() string {
	return uuid.New().String()
}

// generateDefaultConfig creates a default configuration file.
func generateDefaultConfig(configFile string) error {
	defaultConfig := `# progbook configuration

pdf_path: ""        # Program-book PDF to extract (or pass -pdf)
start_page: 1       # 1-based page the program listing starts on
output_path: "result.xlsx"  # Workbook the rows are appended to

watch_paths: []     # Directories scanned in -watch mode
notify: false       # Desktop notification when a watched file completes

log_file: ""        # Optional log file (stdout is always written)
`

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}

	return os.WriteFile(configFile, []byte(defaultConfig), 0644)
}
