/*
Package log builds the process logger: human readable lines on stdout and,
optionally, JSON lines in a size-rotated file.
*/
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger outputs.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Quiet drops the stdout output; used by tests that only inspect the file.
	Quiet bool
}

// New creates a named logger according to opts.
func New(name string, opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, fmt.Errorf("[log] unknown level %q: %w", opts.Level, err)
		}
	}

	cores := make([]zapcore.Core, 0, 2)
	if !opts.Quiet {
		consoleCfg := zap.NewProductionEncoderConfig()
		consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.Lock(os.Stdout),
			level,
		))
	}

	if opts.File != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileCfg),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    withDefault(opts.MaxSizeMB, 10),
				MaxBackups: withDefault(opts.MaxBackups, 5),
				MaxAge:     withDefault(opts.MaxAgeDays, 30),
			}),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...)).Named(name), nil
}

func withDefault(value, def int) int {
	if value <= 0 {
		return def
	}
	return value
}
