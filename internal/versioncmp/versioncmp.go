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

// Package versioncmp compares the version strings reported by CI tasks. Task
// manifests report versions inconsistently: some give a bare major version,
// some give "major.minor", and some give a full semantic version. The package
// coerces the short forms into full semantic versions before comparing them
// and falls back to comparing the raw strings when that is not possible.
package versioncmp

import (
	"strings"

	"github.com/anttikivi/semver"
)

// Normalize converts v into a canonical semantic version. A string of only
// ASCII digits is read as a major version and gets ".0.0" appended, and
// a string with exactly one dot is read as "major.minor" and gets ".0"
// appended. Other strings are parsed as they are. A version must start with
// a digit, so prefixed forms such as "v1.2.3" are not valid. The second return
// value is false if the result is not a valid semantic version.
func Normalize(v string) (*semver.Version, bool) {
	if v == "" || v[0] < '0' || v[0] > '9' {
		return nil, false
	}

	s := v

	switch {
	case isDigits(v):
		s = v + ".0.0"
	case strings.Count(v, ".") == 1:
		s = v + ".0"
	}

	parsed, err := semver.Parse(s)
	if err != nil {
		return nil, false
	}

	return parsed, true
}

// Equal reports whether a and b denote the same version. If both of them can
// be normalized, they are compared as semantic versions so that, for example,
// "1", "1.0", and "1.0.0" are equal but "1.2.3" and "1.2.3-beta" are not. If
// either of them cannot be normalized, Equal compares the original strings
// as-is.
func Equal(a, b string) bool {
	va, okA := Normalize(a)
	vb, okB := Normalize(b)

	if !okA || !okB {
		return a == b
	}

	return va.Equal(vb)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
