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

package cli

import "errors"

// Exit codes of the program.
const (
	ExitFailure = 1 // the checked version is not valid or the command failed
	ExitUsage   = 2 // the program was invoked incorrectly
)

// Errors returned by the CLI commands.
var (
	errInvalidVersion = errors.New("version is not valid")
	errUnknownCommand = errors.New("unknown command")
	errUnknownTask    = errors.New("no valid versions for task")
	errNoCommand      = errors.New("no command given")
	errArgs           = errors.New("invalid number of arguments")
)

// An ExitError is an error returned by the CLI that wraps an error that is
// causing the program to exit and associates an exit code with it. The program
// will return the exit code once it ends its execution.
type ExitError struct {
	err error

	// Code is the exit code associated with this error. It will be used by
	// the program as the exit code it returns to the caller.
	Code int

	// reported tells whether the command has already printed the error to
	// the user.
	reported bool
}

// Error returns the value of e as a string.
func (e *ExitError) Error() string {
	return e.err.Error()
}

// Reported reports whether the error has already been shown to the user so
// that it should not be printed again.
func (e *ExitError) Reported() bool {
	return e.reported
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.err
}

// usageError returns an [ExitError] for an incorrect invocation of the program.
func usageError(err error) *ExitError {
	return &ExitError{err: err, Code: ExitUsage, reported: false}
}
