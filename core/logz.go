package core

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide base logger. Commands derive component
// loggers from it after ConfigureLogger has run.
var Logger = stderrLogger()

func stderrLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

type LogConfig struct {
	// Type is "console" or "json".
	Type  string
	Level string
	// File receives log output instead of stderr when set.
	File string
}

// ConfigureLogger replaces Logger according to cfg. The returned closer
// releases the log file, if any.
func ConfigureLogger(cfg LogConfig) (io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		out, closer = f, f
	}

	switch cfg.Type {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.File != ""}
	case "json":
	default:
		_ = closer.Close()
		return nil, fmt.Errorf("unknown log type %q", cfg.Type)
	}

	Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return closer, nil
}
