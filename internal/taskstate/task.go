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

package taskstate

import (
	"fmt"
	"strings"
)

// GitVersionName is the name of the special GitVersion task. Task names are
// matched against it without regard to case.
const GitVersionName = "gitversion"

// Kinds of tasks.
const (
	KindGeneric Kind = iota
	KindGitVersion
)

// Kind tells which variant of [Task] a task is.
type Kind int

// A Task identifies a CI task whose versions are checked. A task is either the
// GitVersion task, which has separate setup and execute versions, or
// a generic task that is identified by its lowercase name. Task is comparable
// and can be used as a map key.
type Task struct {
	name string
	kind Kind
}

// A ValidState is one accepted version configuration of a task. The concrete
// type is [GitVersionState] for the GitVersion task and [DefaultState] for
// the generic tasks.
type ValidState interface {
	fmt.Stringer

	// Versions returns the version strings that this state accepts.
	Versions() []string

	validState()
}

// GitVersionState is an accepted pair of versions of the GitVersion setup and
// execute steps.
type GitVersionState struct {
	SetupVersion   string `yaml:"setup_version"`
	ExecuteVersion string `yaml:"execute_version"`
}

// DefaultState is an accepted version of a generic task.
type DefaultState string

// GitVersion returns the GitVersion task.
func GitVersion() Task {
	return Task{name: GitVersionName, kind: KindGitVersion}
}

// Generic returns a generic task with the given name. The name is converted to
// lower case.
func Generic(name string) Task {
	return Task{name: strings.ToLower(name), kind: KindGeneric}
}

// ParseTask returns the task that the given name refers to. Names that match
// [GitVersionName] without regard to case refer to the GitVersion task, and all
// other names refer to generic tasks.
func ParseTask(name string) Task {
	if strings.EqualFold(name, GitVersionName) {
		return GitVersion()
	}

	return Generic(name)
}

// Kind returns the kind of t.
func (t Task) Kind() Kind {
	return t.kind
}

// Name returns the name of t.
func (t Task) Name() string {
	return t.name
}

// String returns the name of t.
func (t Task) String() string {
	return t.name
}

// String returns the string representation of k.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindGitVersion:
		return "gitversion"
	default:
		return "invalid"
	}
}

// Versions returns the setup and the execute version of s.
func (s GitVersionState) Versions() []string {
	return []string{s.SetupVersion, s.ExecuteVersion}
}

func (s GitVersionState) String() string {
	return fmt.Sprintf("setup %s, execute %s", s.SetupVersion, s.ExecuteVersion)
}

func (GitVersionState) validState() {}

// Versions returns s as the only version.
func (s DefaultState) Versions() []string {
	return []string{string(s)}
}

func (s DefaultState) String() string {
	return string(s)
}

func (DefaultState) validState() {}
