// Copyright 2025 The ciprobe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger controls the default logger of ciprobe. It is a separate
// package to avoid import cycles.
//
// Before the settings are parsed, logging is done using the bootstrap logger.
// It discards everything unless the debug mode is enabled with the
// CIPROBE_DEBUG environment variable. After the settings are parsed, the
// bootstrap logger is replaced with the logger set up by [Init].
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/ciprobe-project/ciprobe/internal/log"
)

// DebugEnv is the environment variable that enables the debug mode.
const DebugEnv = "CIPROBE_DEBUG"

// Default values for the logger.
const (
	defaultFilePerm       os.FileMode = 0o600                              // log file permissions
	defaultDirPerm        os.FileMode = 0o700                              // log directory permissions
	defaultJSONTimeFormat             = "2006-01-02T15:04:05.000000-07:00" // time format for JSON output
	defaultTextTimeFormat             = time.DateTime                      // time format for text output
)

// errInvalidFormat is returned when trying to create a logger with an invalid
// format.
var errInvalidFormat = errors.New("invalid log format")

// IsDebug reports whether the debug mode is enabled from the environment.
func IsDebug() bool {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// InitBootstrap initializes the bootstrap logger and sets it as the default
// logger in [log/slog].
func InitBootstrap() {
	if !IsDebug() {
		slog.SetDefault(slog.New(slog.DiscardHandler))

		return
	}

	slog.SetDefault(slog.New(debugHandler(os.Stderr)).With("bootstrap", true))
}

// Init initializes the proper logger of the program and sets it as the default
// logger in [log/slog]. The returned function closes the log file if one was
// opened, and it must be called before the program exits.
func Init(cfg Config) (func() error, error) {
	noop := func() error { return nil }

	if IsDebug() {
		slog.SetDefault(slog.New(debugHandler(os.Stderr)))

		return noop, nil
	}

	if !cfg.Enabled {
		slog.SetDefault(slog.New(slog.DiscardHandler))

		return noop, nil
	}

	w, closeFn, err := openOutput(cfg.Output)
	if err != nil {
		return noop, err
	}

	h, err := NewHandler(w, cfg)
	if err != nil {
		_ = closeFn() //nolint:errcheck // the format error is more important

		return noop, err
	}

	slog.SetDefault(slog.New(h))

	return closeFn, nil
}

// NewHandler returns a new handler that writes to w according to cfg.
//
//nolint:ireturn // the handler depends on the format
func NewHandler(w io.Writer, cfg Config) (slog.Handler, error) {
	timeFormat := defaultJSONTimeFormat
	if strings.ToLower(cfg.Format) == "text" {
		timeFormat = defaultTextTimeFormat
	}

	opts := &slog.HandlerOptions{
		AddSource:   cfg.Level <= log.LevelDebug,
		Level:       cfg.Level,
		ReplaceAttr: replaceAttrFunc(timeFormat),
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidFormat, cfg.Format)
	}
}

// openOutput opens the writer for the given log output.
func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(output) {
	case "stderr", "":
		return os.Stderr, noop, nil
	case "stdout":
		return os.Stdout, noop, nil
	}

	path, err := fspath.Path(output).Abs()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to resolve log file %q: %w", output, err)
	}

	if err := os.MkdirAll(filepath.Dir(path.String()), defaultDirPerm); err != nil {
		return nil, noop, fmt.Errorf("failed to create directory for log output %q: %w", path, err)
	}

	f, err := os.OpenFile(path.String(), os.O_WRONLY|os.O_APPEND|os.O_CREATE, defaultFilePerm)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open log file at %s: %w", path, err)
	}

	return f, f.Close, nil
}

// debugHandler returns a handler that should be used when debugging is enabled.
func debugHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(
		w,
		&slog.HandlerOptions{AddSource: true, Level: log.LevelTrace, ReplaceAttr: replaceAttrFunc(defaultTextTimeFormat)},
	)
}

func replaceAttrFunc(timeFormat string) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case slog.TimeKey:
			return slog.String(slog.TimeKey, a.Value.Time().Format(timeFormat))
		case slog.LevelKey:
			level, ok := a.Value.Any().(slog.Level)
			if !ok {
				panic(fmt.Sprintf("failed to convert level value to slog.Level: %[1]v (%[1]T)", a.Value.Any()))
			}

			return slog.String(slog.LevelKey, log.Level(level).String())
		default:
			return a
		}
	}
}
