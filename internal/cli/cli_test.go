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

package cli_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ciprobe-project/ciprobe/internal/cli"
	"github.com/ciprobe-project/ciprobe/internal/credentials"
	"github.com/ciprobe-project/ciprobe/internal/taskstate"
	"github.com/spf13/afero"
)

const workDir = "/work"

const document = `task_states:
  gitversion:
    - setup_version: "0.9.7"
      execute_version: "5.12.0"
  other_tasks:
    MyTask: ["1", "1.2.0"]
    Docker: ["20.10.7"]
`

type result struct {
	ok     bool
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, files, env map[string]string, args ...string) result {
	t.Helper()

	fsys := afero.NewMemMapFs()

	for name, content := range files {
		if err := afero.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var stdout, stderr bytes.Buffer

	c := cli.New(cli.Options{
		Out:    &stdout,
		ErrOut: &stderr,
		Fs:     fsys,
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]

			return v, ok
		},
		Dir: workDir,
	})

	ok, err := c.Initialize(t.Context(), args)
	if ok && err == nil {
		err = c.Execute(t.Context())
	}

	return result{ok: ok, stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func withDocument() map[string]string {
	return map[string]string{workDir + "/" + taskstate.DefaultFile: document}
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	if err == nil {
		return 0
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v is not an ExitError", err)
	}

	return exitErr.Code
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		files      map[string]string
		args       []string
		wantCode   int
		wantOut    string
		wantStderr string
	}{
		{
			name:    "gitversion execute version",
			files:   withDocument(),
			args:    []string{"check", "gitversion", "5.12.0"},
			wantOut: "gitversion 5.12.0 is valid (setup 0.9.7, execute 5.12.0)\n",
		},
		{
			name:    "gitversion name in upper case",
			files:   withDocument(),
			args:    []string{"check", "GitVersion", "0.9.7"},
			wantOut: "gitversion 0.9.7 is valid (setup 0.9.7, execute 5.12.0)\n",
		},
		{
			name:    "normalized version",
			files:   withDocument(),
			args:    []string{"check", "MyTask", "1.0"},
			wantOut: "mytask 1.0 is valid (1)\n",
		},
		{
			name:    "exact version",
			files:   withDocument(),
			args:    []string{"check", "--exact", "mytask", "1.2.0"},
			wantOut: "mytask 1.2.0 is valid\n",
		},
		{
			name:     "exact version is not normalized",
			files:    withDocument(),
			args:     []string{"check", "--exact", "mytask", "1.2"},
			wantCode: cli.ExitFailure,
			wantOut:  "mytask 1.2 is not valid\n",
		},
		{
			name:     "exact generic name is case-sensitive",
			files:    withDocument(),
			args:     []string{"check", "--exact", "MyTask", "1"},
			wantCode: cli.ExitFailure,
			wantOut:  "mytask 1 is not valid\n",
		},
		{
			name:       "invalid version in verbose mode",
			files:      withDocument(),
			args:       []string{"-v", "check", "docker", "20.10.8"},
			wantCode:   cli.ExitFailure,
			wantOut:    "docker 20.10.8 is not valid\n",
			wantStderr: "  valid: 20.10.7\n",
		},
		{
			name:     "quiet",
			files:    withDocument(),
			args:     []string{"check", "-q", "docker", "1"},
			wantCode: cli.ExitFailure,
		},
		{
			name:     "unknown task",
			files:    withDocument(),
			args:     []string{"check", "terraform", "1.0.0"},
			wantCode: cli.ExitFailure,
		},
		{
			name: "task states flag",
			files: map[string]string{
				"/etc/states.yml": "task_states:\n  other_tasks:\n    node: [\"20\"]\n",
			},
			args:    []string{"check", "--task-states", "/etc/states.yml", "node", "20.0.0"},
			wantOut: "node 20.0.0 is valid (20)\n",
		},
		{
			name:     "missing argument",
			files:    withDocument(),
			args:     []string{"check", "docker"},
			wantCode: cli.ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runCLI(t, tt.files, nil, tt.args...)

			if code := exitCode(t, got.err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.wantCode, got.err)
			}

			if got.stdout != tt.wantOut {
				t.Errorf("stdout = %q, want %q", got.stdout, tt.wantOut)
			}

			if got.stderr != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", got.stderr, tt.wantStderr)
			}
		})
	}
}

func TestCheckMissingDocument(t *testing.T) {
	t.Parallel()

	got := runCLI(t, nil, nil, "check", "docker", "1")
	if !errors.Is(got.err, taskstate.ErrConfigNotFound) {
		t.Errorf("error = %v, want %v", got.err, taskstate.ErrConfigNotFound)
	}
}

func TestTasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     string
	}{
		{
			name: "all",
			args: []string{"tasks"},
			want: "gitversion\n  setup 0.9.7, execute 5.12.0\nmytask\n  1\n  1.2.0\ndocker\n  20.10.7\n",
		},
		{
			name: "one",
			args: []string{"tasks", "MyTask"},
			want: "mytask\n  1\n  1.2.0\n",
		},
		{
			name:     "unknown",
			args:     []string{"tasks", "terraform"},
			wantCode: cli.ExitFailure,
		},
		{
			name:     "too many arguments",
			args:     []string{"tasks", "docker", "mytask"},
			wantCode: cli.ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runCLI(t, withDocument(), nil, tt.args...)

			if code := exitCode(t, got.err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.wantCode, got.err)
			}

			if got.stdout != tt.want {
				t.Errorf("stdout = %q, want %q", got.stdout, tt.want)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		credentials.UsernameVar: "env-user",
		credentials.TokenVar:    "env-token",
	}
	dotfile := map[string]string{
		workDir + "/.env": "AZURE_USERNAME=dot-user\nAZURE_TOKEN=dot-token\n",
	}

	tests := []struct {
		name    string
		files   map[string]string
		env     map[string]string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "argument",
			env:  env,
			args: []string{"credentials", "--credentials", "arg-user:arg-token"},
			want: "arg-user (from argument)\n",
		},
		{
			name:    "malformed argument",
			env:     env,
			args:    []string{"credentials", "--credentials", "arg-user"},
			wantErr: credentials.ErrCredentialsFormat,
		},
		{
			name:  "environment",
			files: dotfile,
			env:   env,
			args:  []string{"credentials"},
			want:  "env-user (from environment)\n",
		},
		{
			name:  "dotfile",
			files: dotfile,
			args:  []string{"credentials"},
			want:  "dot-user (from dotfile)\n",
		},
		{
			name: "dotfile flag",
			files: map[string]string{
				"/secrets/ci.env": "AZURE_USERNAME=ci-user\nAZURE_TOKEN=ci-token\n",
			},
			args: []string{"--dotenv", "/secrets/ci.env", "credentials"},
			want: "ci-user (from dotfile)\n",
		},
		{
			name:    "not found",
			args:    []string{"credentials"},
			wantErr: credentials.ErrCredentialsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runCLI(t, tt.files, tt.env, tt.args...)

			if tt.wantErr != nil {
				if !errors.Is(got.err, tt.wantErr) {
					t.Errorf("error = %v, want %v", got.err, tt.wantErr)
				}

				return
			}

			if got.err != nil {
				t.Fatalf("unexpected error: %v", got.err)
			}

			if got.stdout != tt.want {
				t.Errorf("stdout = %q, want %q", got.stdout, tt.want)
			}

			if strings.Contains(got.stdout+got.stderr, "token") {
				t.Errorf("output reveals the token: %q", got.stdout+got.stderr)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:    "help",
			args:    []string{"--help"},
			wantOut: "usage: ciprobe",
		},
		{
			name:    "command help",
			args:    []string{"check", "-h"},
			wantOut: "usage: ciprobe check [--exact] <task> <version>",
		},
		{
			name:    "version",
			args:    []string{"--version"},
			wantOut: "ciprobe ",
		},
		{
			name:     "no command",
			args:     []string{},
			wantCode: cli.ExitUsage,
		},
		{
			name:     "unknown command",
			args:     []string{"apply"},
			wantCode: cli.ExitUsage,
		},
		{
			name:     "unknown flag",
			args:     []string{"tasks", "--unknown"},
			wantCode: cli.ExitUsage,
		},
		{
			name:     "quiet and verbose",
			args:     []string{"-q", "-v", "tasks"},
			wantCode: cli.ExitUsage,
		},
		{
			name:     "log and no-log",
			args:     []string{"tasks", "--log", "--no-log"},
			wantCode: cli.ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runCLI(t, withDocument(), nil, tt.args...)

			if code := exitCode(t, got.err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.wantCode, got.err)
			}

			if got.ok {
				t.Error("Initialize() = true, want false")
			}

			if !strings.HasPrefix(got.stdout, tt.wantOut) {
				t.Errorf("stdout = %q, want prefix %q", got.stdout, tt.wantOut)
			}
		})
	}
}
