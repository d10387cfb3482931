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

// Package fspath implements utility routines for manipulating filename paths
// through the [Path] type. File system access goes through [afero.Fs] so that
// the callers can swap the operating system's file system for an in-memory
// one.
package fspath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// A Path is a file system path.
type Path string

// New returns a new path by joining the given string using [filepath.Join].
// Clean is called on the result.
func New(elem ...string) Path {
	return Path(filepath.Join(elem...))
}

// Abs returns an absolute representation of path. Relative paths will be joined
// with the current working directory. Abs calls Clean on the result. Abs also
// resolves user home directories and environment variables.
func (p Path) Abs() (Path, error) {
	p = p.ExpandEnv()

	var err error

	p, err = p.ExpandUser()
	if err != nil {
		return "", fmt.Errorf("failed to expand user home directory: %w", err)
	}

	absPath, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	return Path(absPath), nil
}

// Clean returns the shortest path name equivalent to path by eliminating
// redundant separators and resolving `.` and `..` elements. It wraps
// [filepath.Clean].
func (p Path) Clean() Path {
	return Path(filepath.Clean(string(p)))
}

// ExpandEnv replaces ${var} or $var in the string according to the values of
// the current environment variables. References to undefined variables are
// replaced by an empty string.
func (p Path) ExpandEnv() Path {
	return Path(os.ExpandEnv(string(p)))
}

// ExpandUser tries to replace "~" or "~username" in the string to match the
// correspending user's home directory. If the wanted user does not exist, this
// function returns an error.
func (p Path) ExpandUser() (Path, error) {
	if !strings.HasPrefix(string(p), "~") {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get the user home dir: %w", err)
	}

	if p == "~" {
		return Path(home), nil
	}

	// Using the current user's home directory.
	if p[1] == '/' || p[1] == os.PathSeparator {
		return New(home, string(p[1:])), nil
	}

	return expandOtherUser(p)
}

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool {
	return filepath.IsAbs(string(p))
}

// IsFile reports whether the file name exists and is a file.
func (p Path) IsFile(fsys afero.Fs) (bool, error) {
	info, err := fsys.Stat(string(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("%w", err)
	}

	return !info.IsDir(), nil
}

// ReadFile reads the file at p and returns the contents.
//
// ReadFile wraps [afero.ReadFile].
func (p Path) ReadFile(fsys afero.Fs) ([]byte, error) {
	data, err := afero.ReadFile(fsys, string(p))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// String returns p as a string and implements [fmt.Stringer] for [Path].
func (p Path) String() string {
	return string(p)
}

// expandOtherUser tries to replace "~username" in path to match the
// correspending user's home directory.
func expandOtherUser(path Path) (Path, error) {
	var (
		i        int
		username string
	)

	if i = strings.IndexByte(string(path), os.PathSeparator); i != -1 {
		username = string(path[1:i])
	} else if i = strings.IndexByte(string(path), '/'); i != -1 {
		username = string(path[1:i])
	} else {
		username = string(path[1:])
	}

	u, err := user.Lookup(username)
	if err != nil {
		return "", fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	if i == -1 {
		return Path(u.HomeDir), nil
	}

	return New(u.HomeDir, string(path[i:])), nil
}
