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

package taskstate_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/ciprobe-project/ciprobe/internal/taskstate"
	"github.com/spf13/afero"
)

const testDocument = `task_states:
  gitversion:
    - setup_version: "0.9.7"
      execute_version: "0.9.7"
    - setup_version: "1.1.1"
      execute_version: "5.12.0"
  other_tasks:
    NuGetToolInstaller:
      - "1"
      - "1.2.0"
    DotNetCoreCLI: ["2.0.0", "2.1.0-preview"]
    UseNode: []
`

func parse(t *testing.T, doc string) *taskstate.Store {
	t.Helper()

	s, err := taskstate.Parse(context.Background(), []byte(doc))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	return s
}

func versions(states []taskstate.ValidState) []string {
	result := make([]string, 0, len(states))

	for _, st := range states {
		result = append(result, st.String())
	}

	return result
}

func TestParseTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantKind taskstate.Kind
		wantName string
	}{
		{"gitversion", taskstate.KindGitVersion, "gitversion"},
		{"GitVersion", taskstate.KindGitVersion, "gitversion"},
		{"GITVERSION", taskstate.KindGitVersion, "gitversion"},
		{"NuGetToolInstaller", taskstate.KindGeneric, "nugettoolinstaller"},
		{"gitversion-setup", taskstate.KindGeneric, "gitversion-setup"},
		{"", taskstate.KindGeneric, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := taskstate.ParseTask(tt.input)
			if got.Kind() != tt.wantKind || got.Name() != tt.wantName {
				t.Errorf("ParseTask(%q) = (%v, %q), want (%v, %q)", tt.input, got.Kind(), got.Name(), tt.wantKind, tt.wantName)
			}
		})
	}

	if taskstate.ParseTask("GitVersion") != taskstate.GitVersion() {
		t.Error("ParseTask(\"GitVersion\") is not equal to GitVersion()")
	}

	if taskstate.Generic("MyTask") != taskstate.Generic("mytask") {
		t.Error("Generic() is case-sensitive")
	}
}

func TestValidStates(t *testing.T) {
	t.Parallel()

	s := parse(t, testDocument)

	tests := []struct {
		name string
		task taskstate.Task
		want []string
	}{
		{
			name: "gitversion",
			task: taskstate.GitVersion(),
			want: []string{"setup 0.9.7, execute 0.9.7", "setup 1.1.1, execute 5.12.0"},
		},
		{"generic", taskstate.Generic("nugettoolinstaller"), []string{"1", "1.2.0"}},
		{"generic mixed case", taskstate.Generic("DotNetCoreCLI"), []string{"2.0.0", "2.1.0-preview"}},
		{"no versions", taskstate.Generic("usenode"), []string{}},
		{"unknown", taskstate.Generic("unknown"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := versions(s.ValidStates(tt.task))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ValidStates(%v) = %v, want %v", tt.task, got, tt.want)
			}
		})
	}
}

func TestValidStatesTypes(t *testing.T) {
	t.Parallel()

	s := parse(t, testDocument)

	for _, st := range s.ValidStates(taskstate.GitVersion()) {
		if _, ok := st.(taskstate.GitVersionState); !ok {
			t.Errorf("GitVersion state has type %T", st)
		}
	}

	want := taskstate.GitVersionState{SetupVersion: "1.1.1", ExecuteVersion: "5.12.0"}
	if got := s.ValidStates(taskstate.GitVersion())[1]; got != want {
		t.Errorf("second GitVersion state = %#v, want %#v", got, want)
	}

	for _, st := range s.ValidStates(taskstate.Generic("nugettoolinstaller")) {
		if _, ok := st.(taskstate.DefaultState); !ok {
			t.Errorf("generic state has type %T", st)
		}
	}
}

func TestTasks(t *testing.T) {
	t.Parallel()

	s := parse(t, testDocument)
	got := s.Tasks()
	want := []taskstate.Task{
		taskstate.GitVersion(),
		taskstate.Generic("nugettoolinstaller"),
		taskstate.Generic("dotnetcorecli"),
		taskstate.Generic("usenode"),
	}

	if !slices.Equal(got, want) {
		t.Errorf("Tasks() = %v, want %v", got, want)
	}

	empty := parse(t, "task_states: {}\n")
	if got := empty.Tasks(); len(got) != 1 || got[0] != taskstate.GitVersion() {
		t.Errorf("Tasks() of an empty store = %v, want only the GitVersion task", got)
	}
}

func TestTaskNameCollision(t *testing.T) {
	t.Parallel()

	s := parse(t, `task_states:
  gitversion: []
  other_tasks:
    MyTask: ["1.0.0"]
    mytask: ["2.0.0", "2.1.0"]
`)

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("Tasks() = %v, want 2 tasks", tasks)
	}

	if tasks[1] != taskstate.Generic("mytask") {
		t.Errorf("Tasks()[1] = %v, want mytask", tasks[1])
	}

	got := versions(s.ValidStates(taskstate.Generic("mytask")))
	if want := []string{"2.0.0", "2.1.0"}; !slices.Equal(got, want) {
		t.Errorf("ValidStates(mytask) = %v, want %v", got, want)
	}

	if s.IsValidVersion("mytask", "1.0.0") {
		t.Error("IsValidVersion(mytask, 1.0.0) = true, want the earlier versions to be replaced")
	}
}

func TestIsValidVersion(t *testing.T) {
	t.Parallel()

	s := parse(t, testDocument)

	tests := []struct {
		task    string
		version string
		want    bool
	}{
		{"gitversion", "0.9.7", true},
		{"GitVersion", "1.1.1", true},
		{"GITVERSION", "5.12.0", true},
		{"gitversion", "5.12", false},
		{"gitversion", "1.1.2", false},
		{"gitversion", "", false},
		{"nugettoolinstaller", "1", true},
		{"nugettoolinstaller", "1.2.0", true},
		{"nugettoolinstaller", "1.0.0", false},
		{"nugettoolinstaller", "1.2", false},
		{"NuGetToolInstaller", "1", false},
		{"dotnetcorecli", "2.1.0-preview", true},
		{"dotnetcorecli", "2.1.0-PREVIEW", false},
		{"usenode", "1", false},
		{"unknown", "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.task+"@"+tt.version, func(t *testing.T) {
			t.Parallel()

			if got := s.IsValidVersion(tt.task, tt.version); got != tt.want {
				t.Errorf("IsValidVersion(%q, %q) = %v, want %v", tt.task, tt.version, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	s := parse(t, testDocument)

	tests := []struct {
		name    string
		task    taskstate.Task
		version string
		want    taskstate.ValidState
	}{
		{
			"gitversion setup",
			taskstate.GitVersion(),
			"0.9.7",
			taskstate.GitVersionState{SetupVersion: "0.9.7", ExecuteVersion: "0.9.7"},
		},
		{
			"gitversion execute short",
			taskstate.GitVersion(),
			"5.12",
			taskstate.GitVersionState{SetupVersion: "1.1.1", ExecuteVersion: "5.12.0"},
		},
		{"major only", taskstate.Generic("NuGetToolInstaller"), "1.0.0", taskstate.DefaultState("1")},
		{"major minor", taskstate.Generic("nugettoolinstaller"), "1.2", taskstate.DefaultState("1.2.0")},
		{"prerelease", taskstate.Generic("dotnetcorecli"), "2.1.0-preview", taskstate.DefaultState("2.1.0-preview")},
		{"prerelease differs", taskstate.Generic("dotnetcorecli"), "2.1.0", nil},
		{"no match", taskstate.Generic("nugettoolinstaller"), "3", nil},
		{"unknown task", taskstate.Generic("unknown"), "1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := s.Match(tt.task, tt.version)
			if ok != (tt.want != nil) {
				t.Fatalf("Match(%v, %q) ok = %v, want %v", tt.task, tt.version, ok, tt.want != nil)
			}

			if got != tt.want {
				t.Errorf("Match(%v, %q) = %v, want %v", tt.task, tt.version, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"syntax":              "task_states: [\n",
		"missing task states": "other: {}\n",
		"empty":               "",
		"tasks not a mapping": "task_states:\n  other_tasks: [a, b]\n",
		"versions not a list": "task_states:\n  other_tasks:\n    MyTask: \"1.0.0\"\n",
		"gitversion not list": "task_states:\n  gitversion: \"1.0.0\"\n",
		"duplicate key":       "task_states:\n  other_tasks:\n    a: []\n    a: []\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := taskstate.Parse(context.Background(), []byte(doc))
			if err == nil {
				t.Fatal("Parse() returned nil error")
			}

			if !errors.Is(err, taskstate.ErrConfigParse) {
				t.Errorf("Parse() error = %v, want ErrConfigParse", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()

	if err := afero.WriteFile(fsys, "/repo/"+taskstate.DefaultFile, []byte(testDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := afero.WriteFile(fsys, "/repo/broken.yml", []byte("task_states: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	s, err := taskstate.Load(ctx, fsys, fspath.New("/repo", taskstate.DefaultFile))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if got := len(s.Tasks()); got != 4 {
		t.Errorf("len(Tasks()) = %d, want 4", got)
	}

	_, err = taskstate.Load(ctx, fsys, "/repo/missing.yml")
	if !errors.Is(err, taskstate.ErrConfigNotFound) {
		t.Errorf("Load() of a missing file error = %v, want ErrConfigNotFound", err)
	}

	_, err = taskstate.Load(ctx, fsys, "/repo/broken.yml")
	if !errors.Is(err, taskstate.ErrConfigParse) {
		t.Errorf("Load() of a broken file error = %v, want ErrConfigParse", err)
	}
}
