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
	"fmt"

	"github.com/ciprobe-project/ciprobe/internal/log"
	"github.com/ciprobe-project/ciprobe/internal/taskstate"
)

// newCheck returns the command that checks a version of a task against
// the known-good versions.
func newCheck() *Command {
	cmd := &Command{ //nolint:exhaustruct // private fields need zero values
		Name:      "check",
		UsageLine: "check [--exact] <task> <version>",
		Short:     "check that a version of a task is known to be good",
		Long: `Check that <version> is one of the known-good versions of <task> in the task state document. ` +
			`The versions are compared as semantic versions so that "1.2" matches "1.2.0". ` +
			`For the gitversion task, the version may match either the setup or the execute version.

With --exact, the version must be exactly one of the recorded version strings and the task name is used as given.

The command exits with status 1 if the version is not valid.`,
		MinArgs: 2, //nolint:mnd // task and version
		MaxArgs: 2, //nolint:mnd // task and version
		Run:     runCheck,
	}

	cmd.Flags().Bool("exact", false, "compare the version strings exactly instead of as semantic versions")

	return cmd
}

func runCheck(ctx context.Context, cmd *Command, args []string) error {
	c := cmd.cli
	name, version := args[0], args[1]

	exact, err := cmd.Flags().GetBool("exact")
	if err != nil {
		return fmt.Errorf("failed to get the value for command-line option '--exact': %w", err)
	}

	store, err := c.loadStore(ctx)
	if err != nil {
		return err
	}

	task := taskstate.ParseTask(name)

	log.Debug(ctx, "checking version", "task", task, "version", version, "exact", exact)

	if exact {
		if store.IsValidVersion(name, version) {
			c.term.Successf("%s %s is valid\n", task, version)

			return nil
		}
	} else if state, ok := store.Match(task, version); ok {
		c.term.Successf("%s %s is valid (%s)\n", task, version, state)

		return nil
	}

	states := store.ValidStates(task)
	if len(states) == 0 {
		return &ExitError{err: fmt.Errorf("%w: %s", errUnknownTask, task), Code: ExitFailure, reported: false}
	}

	c.term.Failf("%s %s is not valid\n", task, version)

	for _, st := range states {
		c.term.Verbosef("  valid: %s\n", st)
	}

	return &ExitError{
		err:      fmt.Errorf("%w: %s %s", errInvalidVersion, task, version),
		Code:     ExitFailure,
		reported: true,
	}
}
