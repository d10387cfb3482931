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

// Package version provides version information of the current binary. Usually
// the version information is set during build time but the package provides a
// fallback value as a default.
package version

import (
	"runtime/debug"
	"strings"

	"github.com/anttikivi/semver"
)

// devVersion is the base version used for development builds.
const devVersion = "0.1.0"

// buildVersion is the version number set at build.
var buildVersion = "dev" //nolint:gochecknoglobals // set at build time

// version is the parsed version number of ciprobe.
var version *semver.Version //nolint:gochecknoglobals // parsed once

func init() { //nolint:gochecknoinits // version must be parsed once at the start
	version = semver.MustParse(resolve(buildVersion))
}

// resolve returns the version string to parse from the build-time version v.
// Development builds fall back to the module version from the build info.
func resolve(v string) string {
	if v != "dev" {
		return strings.TrimPrefix(v, "v")
	}

	main := ""

	if info, ok := debug.ReadBuildInfo(); ok {
		main = info.Main.Version
	}

	if main == "" || main == "(devel)" {
		return devVersion + "-0.invalid." + Revision()
	}

	main = strings.TrimPrefix(main, "v")

	// Pseudo-versions have the timestamp and the revision as the pre-release.
	// Mark them as invalid so that they sort before any real release.
	if i := strings.IndexByte(main, '-'); i >= 0 {
		return main[:i+1] + "0.invalid." + main[i+1:]
	}

	return main
}

// BuildVersion returns the version string for the program set during the build.
func BuildVersion() string {
	return buildVersion
}

// Revision returns the version control revision this program was built from.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "no-buildinfo"
	}

	revision := ""
	dirty := ""

	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision":
			revision = s.Value
		case s.Key == "vcs.modified" && s.Value == "true":
			dirty = "-dirty"
		}
	}

	if s := revision + dirty; s != "" {
		return s
	}

	return "no-vcs"
}

// Version returns the version number of the program.
func Version() *semver.Version {
	return version
}
