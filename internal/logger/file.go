package logger

import (
	"errors"
	"fmt"
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap/zapcore"
)

const (
	// FileLogMaxAge is how long rotated log files are kept.
	FileLogMaxAge = 7 * 24 * time.Hour
	// FileLogRotationTime is how often a new log file is started.
	FileLogRotationTime = 24 * time.Hour
)

// Options describes how the global logger is built by the binaries.
type Options struct {
	// Level is the textual log level ("debug", "info", ...).
	Level string
	// File is an optional strftime pattern for a rotating log file,
	// e.g. "/var/log/card-gate-%Y-%m-%d.log".
	File string
}

var errUnknownLevel = errors.New("unknown log level")

// nopCloser is returned when logging goes to stdout only.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Configure builds the global logger from opts and returns a closer for the
// file sink, if any.
func Configure(opts Options) (io.Closer, error) {
	level, ok := ParseLogLevel(opts.Level)
	if !ok {
		return nil, fmt.Errorf("%q: %w", opts.Level, errUnknownLevel)
	}

	defaultLevel.SetLevel(level)

	if opts.File == "" {
		SetLogger(New(defaultLevel))

		return nopCloser{}, nil
	}

	fileLog, err := rotatelogs.New(
		opts.File,
		rotatelogs.WithMaxAge(FileLogMaxAge),
		rotatelogs.WithRotationTime(FileLogRotationTime),
	)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	SetLogger(New(defaultLevel, zapcore.AddSync(fileLog)))

	return fileLog, nil
}
