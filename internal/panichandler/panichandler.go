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

// Package panichandler defines the panic handler for ciprobe. It needs to be
// deferred at the beginning of each goroutine. The handler prints a message
// that guides the user to report a bug in case the program crashes.
package panichandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/ciprobe-project/ciprobe/internal/terminal"
	"github.com/ciprobe-project/ciprobe/internal/text"
	"github.com/ciprobe-project/ciprobe/internal/version"
)

const (
	header = "!!! CIPROBE CRASHED !%s"
	//nolint:lll
	panicInfo = `
ciprobe has encountered an unexpected error. This is most likely a bug in the program. In your bug report, please include the ciprobe version and the stack trace shown below, and the task-state document if the crash happened while reading it.
`
	footer = `
Please open an issue at:

	https://github.com/ciprobe-project/ciprobe/issues
`
)

// panicMu makes sure that only the first panicking goroutine prints its
// report and exits the program.
var panicMu sync.Mutex //nolint:gochecknoglobals // shared by goroutines

// cancel is the cancel function for the program context. It must be run before
// exiting the program.
var cancel context.CancelFunc //nolint:gochecknoglobals // global cancel for the context

// cancelOnce is used to ensure that cancel is only set once.
var cancelOnce sync.Once //nolint:gochecknoglobals // global cancel for the context

// exit is the function that terminates the program after the report.
var exit = os.Exit //nolint:gochecknoglobals // replaced in tests

// Handle recovers the panics of the program and prints the information included
// with them with the stack trace and a helpful message that guides the user to
// report the bug using the issue tracker.
func Handle() {
	panicMu.Lock()
	defer panicMu.Unlock()

	//revive:disable-next-line:defer This is a deferred function.
	r := recover()

	handlePanic(os.Stderr, r)
}

// SetCancel sets the cancel function for the program context.
func SetCancel(c context.CancelFunc) {
	cancelOnce.Do(func() {
		cancel = c
	})
}

func handlePanic(w io.Writer, r any) {
	if r == nil {
		return
	}

	if cancel != nil {
		cancel()
	}

	_, _ = w.Write(report(r, terminal.Width(), debug.Stack()))

	//revive:disable-next-line:deep-exit Panic handler has to exit with error.
	exit(1)
}

// report formats the crash report for the recovered value r.
func report(r any, width int, stack []byte) []byte {
	var buf bytes.Buffer

	buf.WriteByte('\n')

	fill := max(width-len(header)+1, 1)

	fmt.Fprintf(&buf, header, strings.Repeat("!", fill))
	buf.WriteString("\n\n")
	buf.WriteString(text.Wrap(panicInfo, width))
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "Version: %s\n", version.Version())
	fmt.Fprintf(&buf, "Panic: %v\n\n", r)
	buf.WriteString("Stack trace:\n\n")
	buf.Write(stack)
	buf.WriteString("\n" + footer)

	return buf.Bytes()
}
