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

	"github.com/ciprobe-project/ciprobe/internal/taskstate"
)

// newTasks returns the command that lists the tasks and their valid states.
func newTasks() *Command {
	return &Command{ //nolint:exhaustruct // private fields need zero values
		Name:      "tasks",
		UsageLine: "tasks [<task>]",
		Short:     "list the tasks and their known-good versions",
		Long: `List the tasks in the task state document and their known-good versions. ` +
			`The gitversion task is always listed first. If <task> is given, only its versions are listed.`,
		MinArgs: 0,
		MaxArgs: 1,
		Run:     runTasks,
	}
}

func runTasks(ctx context.Context, cmd *Command, args []string) error {
	c := cmd.cli

	store, err := c.loadStore(ctx)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		task := taskstate.ParseTask(args[0])

		states := store.ValidStates(task)
		if len(states) == 0 {
			return &ExitError{err: fmt.Errorf("%w: %s", errUnknownTask, task), Code: ExitFailure, reported: false}
		}

		printStates(c, task, states)

		return nil
	}

	for _, task := range store.Tasks() {
		printStates(c, task, store.ValidStates(task))
	}

	return nil
}

func printStates(c *CLI, task taskstate.Task, states []taskstate.ValidState) {
	c.term.Printf("%s\n", task)

	if len(states) == 0 {
		c.term.Printf("  (none)\n")

		return
	}

	for _, st := range states {
		c.term.Printf("  %s\n", st)
	}
}
