// Package config loads and validates the tool's configuration from
// command-line flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultDecimalSeparator = "auto"
	DefaultProximity        = "same_line"
	DefaultWordWindow       = 5
	DefaultWordsPerPage     = 500
	DefaultConvertTimeout   = 30 // seconds

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the document extraction tool.
type Config struct {
	// Extraction configuration
	Keywords         []string
	DecimalSeparator string // "period", "comma" or "auto"
	Proximity        string // "same_line", "same_sentence" or "within_n_words"
	WordWindow       int    // within_n_words window size
	CrossLines       bool   // whether the word window continues across line breaks
	WordsPerPage     int    // pagination threshold for formats without page boundaries
	ConvertTimeout   int    // DOC converter timeout in seconds

	// Output configuration
	OutputDir   string
	HistoryFile string

	// Application configuration
	Version string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, "Documents", "DocumentExtractor")

	return &Config{
		DecimalSeparator: DefaultDecimalSeparator,
		Proximity:        DefaultProximity,
		WordWindow:       DefaultWordWindow,
		WordsPerPage:     DefaultWordsPerPage,
		ConvertTimeout:   DefaultConvertTimeout,
		OutputDir:        filepath.Join(base, "Output"),
		HistoryFile:      filepath.Join(base, "keywords.json"),
		Version:          "1.0.0",
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.OutputDir != "" {
		if expanded, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DOCEXTRACT")
	viper.AutomaticEnv()

	viper.SetDefault("keywords", cfg.Keywords)
	viper.SetDefault("separator", cfg.DecimalSeparator)
	viper.SetDefault("proximity", cfg.Proximity)
	viper.SetDefault("wordwindow", cfg.WordWindow)
	viper.SetDefault("crosslines", cfg.CrossLines)
	viper.SetDefault("wordsperpage", cfg.WordsPerPage)
	viper.SetDefault("timeout", cfg.ConvertTimeout)
	viper.SetDefault("out", cfg.OutputDir)
	viper.SetDefault("history", cfg.HistoryFile)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.StringSlice("keywords", cfg.Keywords, "Keywords to extract (comma separated); defaults to the keyword history")
	pflag.String("separator", cfg.DecimalSeparator, "Decimal separator convention: period, comma or auto")
	pflag.String("proximity", cfg.Proximity, "Proximity policy: same_line, same_sentence or within_n_words")
	pflag.Int("wordwindow", cfg.WordWindow, "Word window size for within_n_words")
	pflag.Bool("crosslines", cfg.CrossLines, "Allow the word window to continue across line breaks")
	pflag.Int("wordsperpage", cfg.WordsPerPage, "Words-per-page threshold for formats without page boundaries")
	pflag.Int("timeout", cfg.ConvertTimeout, "DOC converter timeout in seconds")
	pflag.String("out", cfg.OutputDir, "Output directory for generated reports")
	pflag.String("history", cfg.HistoryFile, "Keyword history file")
}

func bindFlagsToViper() {
	_ = viper.BindPFlag("keywords", pflag.Lookup("keywords"))
	_ = viper.BindPFlag("separator", pflag.Lookup("separator"))
	_ = viper.BindPFlag("proximity", pflag.Lookup("proximity"))
	_ = viper.BindPFlag("wordwindow", pflag.Lookup("wordwindow"))
	_ = viper.BindPFlag("crosslines", pflag.Lookup("crosslines"))
	_ = viper.BindPFlag("wordsperpage", pflag.Lookup("wordsperpage"))
	_ = viper.BindPFlag("timeout", pflag.Lookup("timeout"))
	_ = viper.BindPFlag("out", pflag.Lookup("out"))
	_ = viper.BindPFlag("history", pflag.Lookup("history"))
}

func populateConfigFromViper(cfg *Config) {
	cfg.Keywords = viper.GetStringSlice("keywords")
	cfg.DecimalSeparator = viper.GetString("separator")
	cfg.Proximity = viper.GetString("proximity")
	cfg.WordWindow = viper.GetInt("wordwindow")
	cfg.CrossLines = viper.GetBool("crosslines")
	cfg.WordsPerPage = viper.GetInt("wordsperpage")
	cfg.ConvertTimeout = viper.GetInt("timeout")
	cfg.OutputDir = viper.GetString("out")
	cfg.HistoryFile = viper.GetString("history")
}

// Validate checks if the configuration is valid and ensures the output
// directory exists and is writable.
func (c *Config) Validate() error {
	switch c.DecimalSeparator {
	case "period", "comma", "auto":
	default:
		return errors.New("separator must be 'period', 'comma' or 'auto'")
	}

	switch c.Proximity {
	case "same_line", "same_sentence", "within_n_words":
	default:
		return errors.New("proximity must be 'same_line', 'same_sentence' or 'within_n_words'")
	}

	if c.WordWindow < 1 {
		return errors.New("wordwindow must be at least 1")
	}
	if c.WordsPerPage < 1 {
		return errors.New("wordsperpage must be at least 1")
	}
	if c.ConvertTimeout < 1 {
		return errors.New("timeout must be at least 1 second")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	return nil
}
