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

package cli

import (
	"context"

	"github.com/ciprobe-project/ciprobe/internal/flags"
	"github.com/spf13/pflag"
)

// A Command is a subcommand of the CLI.
type Command struct {
	// Name is the name of the command as it should be written by the user when
	// they run the command.
	Name string

	// UsageLine is the one-line usage synopsis for the command. It should start
	// with the command name without including the program name.
	UsageLine string

	// Short is the short description of the command shown in the command list
	// of the help output.
	Short string

	// Long is the long description of the command shown in the help output of
	// the command.
	Long string

	// MinArgs and MaxArgs are the minimum and maximum number of positional
	// arguments the command accepts.
	MinArgs, MaxArgs int

	// Run runs the command with the positional arguments left after parsing
	// the command-line flags.
	Run func(ctx context.Context, cmd *Command, args []string) error

	cli   *CLI           // containing CLI struct
	flags *flags.FlagSet // command-line options of the command
}

// Flags returns the set of command-line options specific to this command.
func (c *Command) Flags() *flags.FlagSet {
	if c.flags == nil {
		c.flags = flags.NewFlagSet(c.Name, pflag.ContinueOnError)
	}

	return c.flags
}
