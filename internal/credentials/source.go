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

package credentials

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// DefaultDotfile is the dotfile that is read when no other file is given.
const DefaultDotfile = ".env"

// A Source looks up the values of environment variables.
type Source interface {
	// Lookup returns the value of the variable named by key. The boolean is
	// false if the variable is not present.
	Lookup(key string) (string, bool)
}

// EnvSource is a [Source] that looks up the variables from the process
// environment.
type EnvSource struct{}

// MapSource is a [Source] backed by a map.
type MapSource map[string]string

// LookupFunc is a function that implements [Source].
type LookupFunc func(key string) (string, bool)

// layeredSource looks up the variables from each of its sources in order and
// returns the first value found.
type layeredSource []Source

// Lookup returns the value of the environment variable named by key.
func (EnvSource) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Lookup returns the value in m for key.
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]

	return v, ok
}

// Lookup calls f(key).
func (f LookupFunc) Lookup(key string) (string, bool) {
	return f(key)
}

func (l layeredSource) Lookup(key string) (string, bool) {
	for _, s := range l {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}

	return "", false
}

// DotfileSource reads the dotfile at path and returns a source that has the
// variables from it layered under env. Like loading a dotfile into the process
// environment, a variable that is present in env is not replaced by the value
// from the dotfile. If env is nil, the process environment is used.
//
//nolint:ireturn // the layering is an implementation detail
func DotfileSource(fsys afero.Fs, path fspath.Path, env Source) (Source, error) {
	data, err := path.ReadFile(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to read dotfile %q: %w", path, err)
	}

	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dotfile %q: %w", path, err)
	}

	if env == nil {
		env = EnvSource{}
	}

	return layeredSource{env, MapSource(values)}, nil
}
