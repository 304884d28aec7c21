// Package logger builds component-tagged console loggers.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var levelByEnv = map[string]zerolog.Level{
	"development": zerolog.DebugLevel,
	"staging":     zerolog.InfoLevel,
	"production":  zerolog.InfoLevel,
}

// Config controls logger output.
type Config struct {
	// Out defaults to stderr so stdout stays free for progress lines and reports.
	Out     io.Writer
	AppEnv  string
	Verbose bool
	NoColor bool
}

// FromEnv returns a config using APP_ENV.
func FromEnv(verbose bool) Config {
	return Config{AppEnv: os.Getenv("APP_ENV"), Verbose: verbose}
}

// Level returns the minimum level for the config.
func (c Config) Level() zerolog.Level {
	if c.Verbose {
		return zerolog.DebugLevel
	}
	if level, ok := levelByEnv[c.AppEnv]; ok {
		return level
	}
	return zerolog.InfoLevel
}

// New creates a logger whose messages are prefixed with [component].
func New(component string, cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	writer := zerolog.ConsoleWriter{
		Out:     out,
		NoColor: cfg.NoColor,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("[%s] %v", component, i)
		},
	}

	production := cfg.AppEnv == "production"
	if production {
		writer.PartsExclude = []string{zerolog.TimestampFieldName}
	} else {
		writer.TimeFormat = time.DateTime
	}

	log := zerolog.New(writer).Level(cfg.Level())
	if !production {
		log = log.With().Timestamp().Logger()
	}
	return log
}

// Factory hands out component loggers sharing one config.
type Factory struct {
	Config Config
}

// For returns the logger for component.
func (f Factory) For(component string) zerolog.Logger {
	return New(component, f.Config)
}
