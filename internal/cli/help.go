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
	"fmt"
	"io"
	"strings"

	"github.com/ciprobe-project/ciprobe/internal/terminal"
	"github.com/ciprobe-project/ciprobe/internal/text"
	"github.com/ciprobe-project/ciprobe/internal/version"
)

// descIndent is the indentation of the command description in the help
// output.
const descIndent = 2

// printHelp prints the help message for cmd to the standard output. If cmd is
// nil, the help message of the program is printed.
func (c *CLI) printHelp(cmd *Command) error {
	var sb strings.Builder

	width := terminal.Width()

	if cmd == nil {
		c.printUsage(&sb)
		sb.WriteString("\nCommands:\n")

		nameWidth := 0
		for _, sub := range c.commands {
			nameWidth = max(nameWidth, len(sub.Name))
		}

		for _, sub := range c.commands {
			fmt.Fprintf(&sb, "  %-*s  %s\n", nameWidth, sub.Name, sub.Short)
		}

		sb.WriteString("\nOptions:\n")
		sb.WriteString(c.flags.FlagUsagesWrapped(width))
		fmt.Fprintf(&sb, "\nRun '%s <command> --help' for the help of a command.\n", Name)
	} else {
		fmt.Fprintf(&sb, "usage: %s %s\n\n", Name, cmd.UsageLine)
		sb.WriteString(text.Indent(text.Wrap(cmd.Long, width-descIndent), strings.Repeat(" ", descIndent)))

		if usages := cmd.Flags().FlagUsagesWrapped(width); usages != "" {
			sb.WriteString("\nOptions:\n")
			sb.WriteString(usages)
		}

		sb.WriteString("\nGlobal options:\n")
		sb.WriteString(c.flags.FlagUsagesWrapped(width))
	}

	if _, err := io.WriteString(c.out, sb.String()); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// printUsage prints the usage line of the program to w.
func (c *CLI) printUsage(w io.Writer) {
	fmt.Fprint(w, text.Wrap("usage: "+c.UsageLine, terminal.Width()))
}

// printVersion prints the version information to the standard output.
func (c *CLI) printVersion() error {
	if _, err := fmt.Fprintf(c.out, "%s %v\n", Name, version.Version()); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
