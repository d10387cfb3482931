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

//go:build tool

// Buildtask builds the ciprobe binary with the version information from
// the VERSION file or the VERSION environment variable.
package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const versionPackage = "github.com/ciprobe-project/ciprobe/internal/version"

func main() {
	log.SetFlags(0)

	exe := os.Getenv("GO")
	if exe == "" {
		exe = "go"
	}

	output := os.Getenv("OUTPUT")
	if output == "" {
		output = "ciprobe"
	}

	if os.Getenv("GOOS") == "windows" || (os.Getenv("GOOS") == "" && runtime.GOOS == "windows") {
		output += ".exe"
	}

	if info, err := os.Stat(output); err == nil && !sourceFilesLaterThan(info.ModTime()) {
		fmt.Printf("buildtask: `%s` is up to date.\n", output)

		return
	}

	version, err := buildVersion()
	if err != nil {
		log.Fatalf("buildtask: %v", err)
	}

	args := []string{exe, "build", "-trimpath"}
	args = append(args, strings.Fields(os.Getenv("GOFLAGS"))...)
	args = append(args, "-ldflags", "-X "+versionPackage+".buildVersion="+version)
	args = append(args, "-o", output)

	if err := run(args...); err != nil {
		log.Fatalf("buildtask: building `%s` failed: %v", output, err)
	}
}

// buildVersion returns the version set in the environment. Otherwise it
// returns a development version based on the VERSION file.
func buildVersion() (string, error) {
	if v := os.Getenv("VERSION"); v != "" {
		return v, nil
	}

	data, err := os.ReadFile("VERSION")
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	return strings.TrimSpace(string(data)) + "-0.dev." + time.Now().UTC().Format("20060102150405"), nil
}

// run prints and executes the given command.
func run(args ...string) error {
	exe, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	quoted := make([]string, len(args))

	for i, arg := range args {
		if strings.ContainsAny(arg, " \t'\"") {
			quoted[i] = fmt.Sprintf("%q", arg)
		} else {
			quoted[i] = arg
		}
	}

	fmt.Println(strings.Join(quoted, " "))

	cmd := exec.Command(exe, args[1:]...) //nolint:gosec // runs the Go toolchain
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// sourceFilesLaterThan reports whether any of the Go source files or
// the module files are modified after t.
func sourceFilesLaterThan(t time.Time) bool {
	foundLater := false

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if foundLater {
			return filepath.SkipAll
		}

		if len(path) > 1 && (path[0] == '.' || path[0] == '_') {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if path == "go.mod" || path == "go.sum" || path == "VERSION" ||
			(strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")) {
			info, err := d.Info()
			if err != nil {
				return err
			}

			if info.ModTime().After(t) {
				foundLater = true
			}
		}

		return nil
	})
	if err != nil {
		panic(err)
	}

	return foundLater
}
