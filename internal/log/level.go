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

package log

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Logging levels of the program. They extend the levels of [log/slog] with
// a trace level.
const (
	LevelTrace Level = Level(slog.LevelDebug) - 4
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// errInvalidLevel is returned when an unknown level name is parsed.
var errInvalidLevel = errors.New("invalid log level")

// A Level is the importance or severity of a log event. It implements
// [slog.Leveler] so that it can be given directly to the handlers.
type Level slog.Level //nolint:recvcheck // needs different receiver types

// Level returns l as [slog.Level].
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

// String returns the name of l in lower case.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return strings.ToLower(slog.Level(l).String())
	}
}

// MarshalText encodes l in a textual form.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText assigns the value from the given textual representation to l.
func (l *Level) UnmarshalText(data []byte) error {
	switch s := strings.ToLower(strings.TrimSpace(string(data))); s {
	case "trace":
		*l = LevelTrace
	case "debug":
		*l = LevelDebug
	case "info", "":
		*l = LevelInfo
	case "warn", "warning":
		*l = LevelWarn
	case "error":
		*l = LevelError
	default:
		return fmt.Errorf("%w: %q", errInvalidLevel, s)
	}

	return nil
}
