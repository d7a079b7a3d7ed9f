package app

import (
	"os"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/config"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Conversion settings
	OutputDir      string
	Strategy       string
	HistoryEnabled bool
	HistoryDSN     string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables (FTBATCH_*, then LOG_* for logging)
//  3. .env.local, then .env
//  4. Config file (file, or ~/.ftbatch.yaml / ./.ftbatch.yaml)
//  5. Defaults
func LoadConfig(file string) (*Config, error) {
	config.LoadEnvFiles()

	v := config.New(file)
	if err := config.Read(v, file != ""); err != nil {
		return nil, errors.NewConfigError("config file", file, err)
	}

	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString(config.KeyFormat),

		ConfigFile: v.ConfigFileUsed(),

		OutputDir:      v.GetString(config.KeyOutputDir),
		Strategy:       v.GetString(config.KeyStrategy),
		HistoryEnabled: v.GetBool(config.KeyHistoryEnabled),
		HistoryDSN:     v.GetString(config.KeyHistoryDSN),

		LogLevel:  config.GetString(v, config.KeyLogLevel),
		LogFormat: orDefault(config.GetString(v, config.KeyLogFormat), "auto"),
		LogOutput: orDefault(config.GetString(v, config.KeyLogOutput), "stderr"),
	}
	return cfg, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flags take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
