// Package config binds ftbatch settings from config files, .env files and
// the environment through Viper.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every ftbatch environment variable (FTBATCH_STRATEGY, ...).
const EnvPrefix = "FTBATCH"

// Setting keys.
const (
	KeyOutputDir      = "output_dir"
	KeyStrategy       = "strategy"
	KeyHistoryDSN     = "history_dsn"
	KeyHistoryEnabled = "history_enabled"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyLogOutput      = "log_output"
	KeyFormat         = "format"
)

// ConfigName is the config file searched for in $HOME and the working directory.
const ConfigName = ".ftbatch"

// EnvFiles are loaded in order; later files do not override earlier ones.
var EnvFiles = []string{".env.local", ".env"}

// New returns a Viper instance reading FTBATCH_* variables with defaults set.
// When file is empty, ~/.ftbatch.yaml and ./.ftbatch.yaml are searched.
func New(file string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		return v
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(ConfigName)
	return v
}

// SetDefaults registers setting defaults. Logging keys have none so the
// unprefixed LOG_* variables can still apply.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStrategy, "all")
	v.SetDefault(KeyHistoryEnabled, false)
}

// Read loads the config file, ignoring a missing one. An explicitly named
// file that cannot be read is an error.
func Read(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && !explicit {
		return nil
	}
	if !explicit && os.IsNotExist(err) {
		return nil
	}
	return err
}

// LoadEnvFiles loads .env files into the process environment. Variables
// already set are kept.
func LoadEnvFiles() {
	for _, f := range EnvFiles {
		_ = godotenv.Load(f)
	}
}

// GetString returns key from Viper, falling back to the unprefixed
// environment variable (LOG_LEVEL for log_level).
func GetString(v *viper.Viper, key string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return os.Getenv(strings.ToUpper(key))
}
