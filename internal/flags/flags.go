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

// Package flags contains the command-line flag set of ciprobe. It wraps the
// flag set of [pflag] with the flag types and the checks needed by the
// program. Parsing the flags and storing their values is still done by
// [pflag].
package flags

import (
	"errors"
	"fmt"

	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/spf13/pflag"
)

// errMutuallyExclusive is returned when two mutually exclusive flags are set.
var errMutuallyExclusive = errors.New("two mutually exclusive flags set at the same time")

// A FlagSet is a wrapper of [pflag.FlagSet] that knows which of its flags are
// mutually exclusive.
type FlagSet struct {
	*pflag.FlagSet

	// mutuallyExclusive is the list of flag names that are marked as
	// mutually exclusive. Each element of the slice is a slice that contains
	// the full names of the mutually exclusive flags in that group.
	mutuallyExclusive [][]string
}

// pathValue is a [pflag.Value] for [fspath.Path].
type pathValue fspath.Path

// NewFlagSet returns a new, empty flag set with the specified name, error
// handling property, and SortFlags set to true.
func NewFlagSet(name string, errorHandling pflag.ErrorHandling) *FlagSet {
	return &FlagSet{
		FlagSet:           pflag.NewFlagSet(name, errorHandling),
		mutuallyExclusive: [][]string{},
	}
}

// AddFlagSet adds the flags of newSet to f. If a flag is already present in f,
// the flag from newSet is ignored.
func (f *FlagSet) AddFlagSet(newSet *FlagSet) {
	if newSet == nil {
		return
	}

	f.FlagSet.AddFlagSet(newSet.FlagSet)
	f.mutuallyExclusive = append(f.mutuallyExclusive, newSet.mutuallyExclusive...)
}

// CheckMutuallyExclusive checks if two flags marked as mutually exclusive are
// set at the same time by the user. The function panics if it is called before
// parsing the flags or if any of the flags marked as mutually exclusive is not
// present in the flag set.
func (f *FlagSet) CheckMutuallyExclusive() error {
	if !f.Parsed() {
		panic("calling CheckMutuallyExclusive before parsing the flags")
	}

	for _, a := range f.mutuallyExclusive {
		var set string

		for _, s := range a {
			flag := f.Lookup(s)
			if flag == nil {
				panic("nil flag in the set of mutually exclusive flags: " + s)
			}

			if flag.Changed {
				if set != "" {
					return fmt.Errorf("%w: --%s and --%s (or their shorthands)", errMutuallyExclusive, set, s)
				}

				set = s
			}
		}
	}

	return nil
}

// MarkMutuallyExclusive marks two or more flags as mutually exclusive so that
// [FlagSet.CheckMutuallyExclusive] fails if the user sets more than one of
// them. This function panics on errors.
func (f *FlagSet) MarkMutuallyExclusive(a ...string) {
	if len(a) < 2 { //nolint:mnd // obvious
		panic("only one flag cannot be marked as mutually exclusive")
	}

	for _, s := range a {
		if flag := f.Lookup(s); flag == nil {
			panic(fmt.Sprintf("failed to find flag %q while marking it as mutually exclusive", s))
		}
	}

	f.mutuallyExclusive = append(f.mutuallyExclusive, a)
}

// Path defines a path flag with specified name, default value, and usage
// string. The return value is the address of a path variable that stores
// the value of the flag.
func (f *FlagSet) Path(name string, value fspath.Path, usage string) *fspath.Path {
	return f.PathP(name, "", value, usage)
}

// PathP is like Path, but accepts a shorthand letter that can be used after
// a single dash.
func (f *FlagSet) PathP(name, shorthand string, value fspath.Path, usage string) *fspath.Path {
	p := new(fspath.Path)
	*p = value

	f.VarP((*pathValue)(p), name, shorthand, usage)

	return p
}

// GetPath returns the value of the path flag with the given name.
func (f *FlagSet) GetPath(name string) (fspath.Path, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag accessed but not defined: %s", name) //nolint:err113 // same as pflag
	}

	v, ok := flag.Value.(*pathValue)
	if !ok {
		return "", fmt.Errorf("trying to get path value of flag of type %s", flag.Value.Type()) //nolint:err113 // same as pflag
	}

	return fspath.Path(*v), nil
}

func (p *pathValue) Set(s string) error {
	*p = pathValue(s)

	return nil
}

func (p *pathValue) String() string {
	return string(*p)
}

func (*pathValue) Type() string {
	return "path"
}
