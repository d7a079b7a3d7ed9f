package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
)

// Config describes a logger.
type Config struct {
	Level  string // trace, debug, info, warn, error, disabled
	Format string // auto, json, console
	Output string // stderr, stdout, discard, or a file path

	// TimeFormat applies to console output: kitchen, rfc3339, or a Go layout.
	TimeFormat string
	NoColor    bool
	AddCaller  bool

	// Fields are attached to every event.
	Fields map[string]string
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and LOG_TIME_FORMAT
// over DefaultConfig. DEBUG=1 selects debug when LOG_LEVEL is unset.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	for env, field := range map[string]*string{
		"LOG_LEVEL":       &cfg.Level,
		"LOG_FORMAT":      &cfg.Format,
		"LOG_OUTPUT":      &cfg.Output,
		"LOG_TIME_FORMAT": &cfg.TimeFormat,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
	return cfg
}

// NewLoggerFromConfig builds a logger and sets zerolog's global level to match.
// A nil cfg means DefaultConfig.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(writer(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	for k, v := range cfg.Fields {
		ctx = ctx.Str(k, v)
	}
	return ctx.Logger()
}

func writer(cfg *Config) io.Writer {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		return io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}

	console := false
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		console = true
	case "", "auto":
		f, ok := out.(*os.File)
		console = ok && isatty.IsTerminal(f.Fd())
	}
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: timeLayout(cfg.TimeFormat), NoColor: cfg.NoColor}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

func timeLayout(format string) string {
	switch strings.ToLower(format) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "datetime":
		return time.DateTime
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}
