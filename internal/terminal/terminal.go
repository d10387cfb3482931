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

// Package terminal defines the user-facing output of ciprobe. Results go to
// the standard output and diagnostics to the standard error output, and both
// can be colored when they are written to a terminal.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ASCII control characters.
const (
	escape = '\x1b'
)

// Basic attribute ANSI codes.
const (
	reset code = iota
)

// Foreground text color codes.
const (
	red code = iota + 31
	green
	yellow
)

// defaultWidth is the default width returned by Width if the width of
// the terminal cannot be determined.
const defaultWidth = 80

// A Terminal writes the output of the program.
type Terminal struct {
	out           io.Writer
	errOut        io.Writer
	quiet         bool
	verbose       bool
	colorsEnabled bool
}

// code is the type for the ANSI color codes.
type code int

// New returns a new Terminal that writes to out and errOut. In quiet mode, only
// errors are printed, and in verbose mode, the messages printed with Verbosef
// are printed too.
func New(out, errOut io.Writer, quiet, verbose bool, colors ColorMode) *Terminal {
	t := &Terminal{
		out:           out,
		errOut:        errOut,
		quiet:         quiet,
		verbose:       verbose,
		colorsEnabled: false,
	}

	switch colors {
	case ColorAlways:
		t.colorsEnabled = true
	case ColorNever:
		t.colorsEnabled = false
	case ColorAuto:
		t.colorsEnabled = isTerminal(out)
	default:
		panic(fmt.Sprintf("invalid Terminal color mode: %v", colors))
	}

	return t
}

// Errorf formats according to a format specifier and writes to the error
// output. If colors are enabled, the message is printed in red. Errors are
// printed in quiet mode too.
func (t *Terminal) Errorf(format string, a ...any) {
	fmt.Fprint(t.errOut, t.colorf(red, format, a...))
}

// Failf formats according to a format specifier and writes to the output. If
// colors are enabled, the message is printed in red.
func (t *Terminal) Failf(format string, a ...any) {
	if t.quiet {
		return
	}

	fmt.Fprint(t.out, t.colorf(red, format, a...))
}

// Printf formats according to a format specifier and writes to the output.
func (t *Terminal) Printf(format string, a ...any) {
	if t.quiet {
		return
	}

	fmt.Fprintf(t.out, format, a...)
}

// Successf formats according to a format specifier and writes to the output.
// If colors are enabled, the message is printed in green.
func (t *Terminal) Successf(format string, a ...any) {
	if t.quiet {
		return
	}

	fmt.Fprint(t.out, t.colorf(green, format, a...))
}

// Verbosef formats according to a format specifier and writes to the error
// output if verbose mode is enabled.
func (t *Terminal) Verbosef(format string, a ...any) {
	if !t.verbose || t.quiet {
		return
	}

	fmt.Fprintf(t.errOut, format, a...)
}

// Warnf formats according to a format specifier and writes to the error
// output. If colors are enabled, the message is printed in yellow.
func (t *Terminal) Warnf(format string, a ...any) {
	if t.quiet {
		return
	}

	fmt.Fprint(t.errOut, t.colorf(yellow, format, a...))
}

// Width returns the current terminal width (in characters) or a default of 80
// if it cannot be determined.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}

	return defaultWidth
}

// colorf formats the message and wraps it in the color codes. A trailing
// newline is kept outside of the colored part.
func (t *Terminal) colorf(c code, format string, a ...any) string {
	msg := fmt.Sprintf(format, a...)

	if !t.colorsEnabled {
		return msg
	}

	trimmed := strings.TrimSuffix(msg, "\n")
	nl := msg[len(trimmed):]

	return fmt.Sprintf("%c[%dm%s%c[%dm%s", escape, c, trimmed, escape, reset, nl)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
