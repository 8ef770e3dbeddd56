// Package logger holds the process-wide zap logger. It discards everything
// until Init is called.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger.
var Log = zap.NewNop().Sugar()

// Options configures Init.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "console" or "json"
	File   string // extra output path, optional
}

// Init replaces the global logger. Logs go to stderr so they never mix with
// extracted data on stdout.
func Init(opts Options) error {
	level, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	var cfg zap.Config
	switch opts.Format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	if opts.File != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
	}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	Log = l.Sugar()
	return nil
}

// Desugar returns the structured logger behind Log, for libraries that take a
// *zap.Logger.
func Desugar() *zap.Logger {
	return Log.Desugar()
}

// Sync flushes buffered entries.
func Sync() error {
	return Log.Sync()
}
