package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a logger.
type Options struct {
	Level zapcore.Level
	// JSON selects the production JSON encoder instead of console output.
	JSON bool
	// File, when set, receives a copy of every entry.
	File string
	// FileOnly drops the stderr sink. It requires File.
	FileOnly bool
}

// New builds a logger writing to stderr and, optionally, to opts.File.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(opts.Level)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	if !opts.JSON {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config.OutputPaths = []string{"stderr"}
	if opts.File != "" {
		config.OutputPaths = append(config.OutputPaths, opts.File)
		if opts.FileOnly {
			config.OutputPaths = []string{opts.File}
		}
	} else if opts.FileOnly {
		return nil, fmt.Errorf("file-only logger needs a file")
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Tee returns a logger that writes every entry to each of loggers, each at
// its own level.
func Tee(loggers ...*zap.Logger) *zap.Logger {
	cores := make([]zapcore.Core, len(loggers))
	for i, l := range loggers {
		cores[i] = l.Core()
	}
	return zap.New(zapcore.NewTee(cores...))
}

// ParseLevel accepts a zap level name ("debug", "info", "warn", "error")
// or a verbosity digit.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return FromVerbosity(int(s[0] - '0')), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// FromVerbosity maps the logging.verbosity option onto a zap level.
// 0 and 1 only report errors, 2 adds warnings, 3 is informational and 4 or
// more enables debug output.
func FromVerbosity(v int) zapcore.Level {
	switch {
	case v <= 1:
		return zapcore.ErrorLevel
	case v == 2:
		return zapcore.WarnLevel
	case v == 3:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
