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

// Package config contains the program settings. The settings are parsed from
// an optional TOML file, environment variables, and command-line arguments, in
// that order of precedence from the lowest to the highest.
package config

import (
	"errors"

	"github.com/ciprobe-project/ciprobe/internal/credentials"
	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/ciprobe-project/ciprobe/internal/logger"
	"github.com/ciprobe-project/ciprobe/internal/taskstate"
	"github.com/ciprobe-project/ciprobe/internal/terminal"
)

// EnvPrefix is the prefix added to the names of the config values when reading
// them from environment variables.
const EnvPrefix = "CIPROBE"

// ConfigFileEnv is the environment variable for giving the settings file.
const ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"

const defaultFileName = "ciprobe"

// Errors returned from the configuration parser.
var (
	ErrInvalidConfig      = errors.New("invalid config")
	errConfigFileNotFound = errors.New("config file not found")
)

// Config is the parsed configuration of the program run. There should be only
// one effective Config per run, and it should not be modified after parsing.
//
// The fields that have the "flag" tag can be overridden with the command-line
// flag with that name. A tag with two names defines a flag and its inverse.
// All fields can be overridden with an environment variable that is named
// after the field, for example CIPROBE_TASK_STATES or CIPROBE_LOGGING_LEVEL.
type Config struct {
	// TaskStates is the YAML document with the known-good task versions.
	TaskStates fspath.Path `flag:"task-states" mapstructure:"task-states"`

	// Dotenv is the dotfile that is read for credentials if they are not set
	// in the environment.
	Dotenv fspath.Path `flag:"dotenv" mapstructure:"dotenv"`

	// Color tells whether colors should be enabled in the user output.
	Color terminal.ColorMode `flag:"color" mapstructure:"color"`

	// Logging contains the config values for logging.
	Logging logger.Config `mapstructure:"logging"`

	// Quiet tells the program to suppress all other output than errors.
	Quiet bool `flag:"quiet" mapstructure:"quiet"`

	// Verbose tells the program to print more verbose output.
	Verbose bool `flag:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the default values for the configuration.
func DefaultConfig() *Config {
	return &Config{
		TaskStates: taskstate.DefaultFile,
		Dotenv:     credentials.DefaultDotfile,
		Color:      terminal.ColorAuto,
		Logging:    logger.DefaultConfig(),
		Quiet:      false,
		Verbose:    false,
	}
}
