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

package panichandler

import (
	"bytes"
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	t.Parallel()

	got := string(report("boom", 40, []byte("goroutine 1 [running]:\n")))

	for _, want := range []string{
		"!!! CIPROBE CRASHED !",
		"Panic: boom",
		"Version: ",
		"goroutine 1 [running]:",
		"https://github.com/ciprobe-project/ciprobe/issues",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report() does not contain %q:\n%s", want, got)
		}
	}
}

//nolint:paralleltest // replaces the exit function
func TestHandlePanic(t *testing.T) {
	code := -1
	orig := exit
	exit = func(c int) { code = c }

	t.Cleanup(func() {
		exit = orig
	})

	var buf bytes.Buffer

	handlePanic(&buf, nil)

	if code != -1 || buf.Len() != 0 {
		t.Fatalf("handlePanic(nil) exited with %d and wrote %q", code, buf.String())
	}

	handlePanic(&buf, "boom")

	if code != 1 {
		t.Errorf("handlePanic() exit code = %d, want 1", code)
	}

	if !strings.Contains(buf.String(), "Panic: boom") {
		t.Errorf("handlePanic() output = %q", buf.String())
	}
}
