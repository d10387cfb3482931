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

// Package credentials resolves the credentials used to authenticate against
// the CI provider. The credentials are taken from the first source that has
// them: an explicit "username:token" argument, the environment variables, or
// a dotfile that defines the same environment variables.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ciprobe-project/ciprobe/internal/log"
)

// Names of the environment variables that hold the credentials.
const (
	UsernameVar = "AZURE_USERNAME"
	TokenVar    = "AZURE_TOKEN" //nolint:gosec // name of the variable, not a credential
)

// Possible values for [SourceKind].
const (
	FromArgument SourceKind = iota + 1
	FromEnvironment
	FromDotfile
)

// Errors returned by the resolver.
var (
	ErrCredentialsFormat   = errors.New("invalid credentials format, expected \"username:token\"")
	ErrCredentialsNotFound = errors.New("credentials not found in environment or dotfile")
)

// SourceKind tells where the credentials were found.
type SourceKind int

// Credentials is a username and token pair. The zero value is not valid
// credentials.
type Credentials struct {
	Username string
	Token    string
	Source   SourceKind
}

// Options are the options for [Resolve].
type Options struct {
	// Env is the source of the environment variables. If it is nil, the
	// variables are looked up from the process environment.
	Env Source

	// Dotfile opens the dotfile source. It is only called if the credentials
	// are not found from the argument or from Env. If it is nil or it returns
	// an error, the dotfile is skipped.
	Dotfile func() (Source, error)

	// Argument is the "username:token" string given on the command line.
	Argument string

	// ArgumentSet tells whether Argument was given. If it is set, Argument is
	// used even if it is empty.
	ArgumentSet bool
}

// Resolve returns the credentials from the first source that has them. A given
// argument always decides the result, so a malformed argument is an error even
// if the environment has valid credentials. If no source has both a username
// and a token, the returned error wraps [ErrCredentialsNotFound].
func Resolve(ctx context.Context, opts Options) (Credentials, error) {
	if opts.ArgumentSet {
		log.Debug(ctx, "using credentials from argument")

		return Parse(opts.Argument)
	}

	env := opts.Env
	if env == nil {
		env = EnvSource{}
	}

	if c, ok := lookup(env); ok {
		c.Source = FromEnvironment

		log.Debug(ctx, "using credentials from environment", "credentials", c)

		return c, nil
	}

	if opts.Dotfile != nil {
		src, err := opts.Dotfile()
		if err != nil {
			log.Debug(ctx, "failed to load dotfile", "err", err)
		} else if c, ok := lookup(src); ok {
			c.Source = FromDotfile

			log.Debug(ctx, "using credentials from dotfile", "credentials", c)

			return c, nil
		}
	}

	return Credentials{}, fmt.Errorf("%w: set %s and %s", ErrCredentialsNotFound, UsernameVar, TokenVar)
}

// Parse parses credentials from a "username:token" string. The string must
// have exactly one colon.
func Parse(s string) (Credentials, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 { //nolint:mnd // username and token
		return Credentials{}, fmt.Errorf("%w: got %d parts", ErrCredentialsFormat, len(parts))
	}

	return Credentials{Username: parts[0], Token: parts[1], Source: FromArgument}, nil
}

// String returns the username and the source of c. It never includes the
// token.
func (c Credentials) String() string {
	return fmt.Sprintf("%s (from %s)", c.Username, c.Source)
}

// LogValue implements [slog.LogValuer] for [Credentials]. The token is
// redacted.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("token", "<redacted>"),
		slog.String("source", c.Source.String()),
	)
}

// String returns the string representation of k.
func (k SourceKind) String() string {
	switch k {
	case FromArgument:
		return "argument"
	case FromEnvironment:
		return "environment"
	case FromDotfile:
		return "dotfile"
	default:
		return "unknown"
	}
}

// lookup returns the credentials from src if it has both of the variables.
func lookup(src Source) (Credentials, bool) {
	username, ok := src.Lookup(UsernameVar)
	if !ok {
		return Credentials{}, false
	}

	token, ok := src.Lookup(TokenVar)
	if !ok {
		return Credentials{}, false
	}

	return Credentials{Username: username, Token: token}, true
}
