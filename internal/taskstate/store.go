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

// Package taskstate holds the known-good versions of the CI tasks. The versions
// are read from a YAML document that has a top-level "task_states" key:
//
//	task_states:
//	  gitversion:
//	    - setup_version: "0.9.7"
//	      execute_version: "0.9.7"
//	  other_tasks:
//	    NuGetToolInstaller: ["1", "1.2.0"]
//
// The names of the generic tasks are converted to lower case when the document
// is loaded. A [Store] must not be modified after it has been loaded.
package taskstate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/ciprobe-project/ciprobe/internal/log"
	"github.com/ciprobe-project/ciprobe/internal/versioncmp"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the file name of the task state document that is used when
// no other file is given.
const DefaultFile = "ciprobeconfig.yml"

// Errors returned when loading the task states.
var (
	ErrConfigNotFound = errors.New("task state config file not found")
	ErrConfigParse    = errors.New("failed to parse task state config")
)

// A Store holds the valid version states of the tasks.
type Store struct {
	// gitVersion contains the accepted version pairs of the GitVersion task in
	// the order of the document.
	gitVersion []GitVersionState

	// names contains the lowercase names of the generic tasks in the order of
	// their first appearance in the document.
	names []string

	// tasks maps the lowercase names of the generic tasks to their accepted
	// versions.
	tasks map[string][]string
}

// document is the raw layout of the task state document.
type document struct {
	TaskStates *rawTaskStates `yaml:"task_states"`
}

type rawTaskStates struct {
	GitVersion []GitVersionState `yaml:"gitversion"`
	OtherTasks yaml.Node         `yaml:"other_tasks"`
}

// Load reads the task state document at path from fsys and returns the loaded
// store. If there is no file at path, the returned error wraps
// [ErrConfigNotFound].
func Load(ctx context.Context, fsys afero.Fs, path fspath.Path) (*Store, error) {
	ok, err := path.IsFile(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to check task state config %q: %w", path, err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	log.Trace(ctx, "reading task state config", "path", path)

	data, err := path.ReadFile(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to read task state config %q: %w", path, err)
	}

	s, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse decodes the given task state document and returns the store. It
// returns an error that wraps [ErrConfigParse] if the document does not have
// the expected shape.
func Parse(ctx context.Context, data []byte) (*Store, error) {
	var doc document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if doc.TaskStates == nil {
		return nil, fmt.Errorf("%w: missing field \"task_states\"", ErrConfigParse)
	}

	s := &Store{
		gitVersion: slices.Clone(doc.TaskStates.GitVersion),
		names:      []string{},
		tasks:      make(map[string][]string),
	}

	if err := s.loadTasks(ctx, &doc.TaskStates.OtherTasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	log.Debug(ctx, "loaded task states", "gitversion", len(s.gitVersion), "tasks", len(s.names))

	return s, nil
}

// ValidStates returns the valid states of the given task. For the GitVersion
// task, the states are of type [GitVersionState] and otherwise they are of type
// [DefaultState]. If there is no generic task with the name of the given task,
// the returned slice is empty.
func (s *Store) ValidStates(task Task) []ValidState {
	if task.kind == KindGitVersion {
		states := make([]ValidState, 0, len(s.gitVersion))

		for _, st := range s.gitVersion {
			states = append(states, st)
		}

		return states
	}

	versions, ok := s.tasks[task.name]
	if !ok {
		return nil
	}

	states := make([]ValidState, 0, len(versions))

	for _, v := range versions {
		states = append(states, DefaultState(v))
	}

	return states
}

// Tasks returns all of the tasks in s. The GitVersion task is always the first
// task, and it is followed by the generic tasks in the order of the document.
func (s *Store) Tasks() []Task {
	tasks := make([]Task, 0, len(s.names)+1)
	tasks = append(tasks, GitVersion())

	for _, name := range s.names {
		tasks = append(tasks, Task{name: name, kind: KindGeneric})
	}

	return tasks
}

// IsValidVersion reports whether version is exactly one of the accepted version
// strings of the named task. The versions are not normalized. Task names are
// matched against [GitVersionName] without regard to case, and for the
// GitVersion task, the version may match either the setup or the execute
// version of any state. Other names are looked up as they are given, so they
// only match if given in lower case.
func (s *Store) IsValidVersion(taskName, version string) bool {
	if strings.ToLower(taskName) == GitVersionName {
		return slices.ContainsFunc(s.gitVersion, func(st GitVersionState) bool {
			return version == st.SetupVersion || version == st.ExecuteVersion
		})
	}

	versions, ok := s.tasks[taskName]
	if !ok {
		return false
	}

	return slices.Contains(versions, version)
}

// Match returns the first valid state of task that has a version equal to the
// given version. The versions are compared using [versioncmp.Equal], so "1"
// matches a state with version "1.0.0". The second return value is false if no
// state matches.
//
//nolint:ireturn // the state is a closed sum type
func (s *Store) Match(task Task, version string) (ValidState, bool) {
	for _, st := range s.ValidStates(task) {
		for _, v := range st.Versions() {
			if versioncmp.Equal(version, v) {
				return st, true
			}
		}
	}

	return nil, false
}

// loadTasks reads the generic tasks from the given node to s and converts
// their names to lower case. If two names are the same after the conversion,
// the versions of the later one replace the earlier one.
func (s *Store) loadTasks(ctx context.Context, node *yaml.Node) error {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: field \"other_tasks\" is not a mapping", node.Line)
	}

	seen := make(map[string]struct{}, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: task name is not a string", keyNode.Line)
		}

		// Decoding into a node skips the duplicate key check of the decoder.
		if _, ok := seen[keyNode.Value]; ok {
			return fmt.Errorf("line %d: task %q is already defined", keyNode.Line, keyNode.Value)
		}

		seen[keyNode.Value] = struct{}{}

		var versions []string

		if err := valueNode.Decode(&versions); err != nil {
			return fmt.Errorf("versions of task %q: %w", keyNode.Value, err)
		}

		if versions == nil {
			versions = []string{}
		}

		name := strings.ToLower(keyNode.Value)

		if _, ok := s.tasks[name]; ok {
			log.Warn(ctx, "task name given more than once, using the later versions", "task", name)
		} else {
			s.names = append(s.names, name)
		}

		s.tasks[name] = versions
	}

	return nil
}
