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

	"github.com/ciprobe-project/ciprobe/internal/credentials"
)

// newCredentials returns the command that resolves the credentials for the CI
// provider.
func newCredentials() *Command {
	cmd := &Command{ //nolint:exhaustruct // private fields need zero values
		Name:      "credentials",
		UsageLine: "credentials [--credentials <username:token>]",
		Short:     "show where the credentials for the CI provider are found",
		Long: `Resolve the credentials for the CI provider and print the username and where it was found. ` +
			`The credentials are taken from --credentials if it is given. ` +
			`Otherwise they are read from the ` + credentials.UsernameVar + ` and ` + credentials.TokenVar +
			` environment variables, and then from the dotfile. The token is never printed.`,
		MinArgs: 0,
		MaxArgs: 0,
		Run:     runCredentials,
	}

	cmd.Flags().String("credentials", "", "use the credentials `<username:token>`")

	return cmd
}

func runCredentials(ctx context.Context, cmd *Command, _ []string) error {
	c := cmd.cli

	arg, err := cmd.Flags().GetString("credentials")
	if err != nil {
		return fmt.Errorf("failed to get the value for command-line option '--credentials': %w", err)
	}

	dotfile, err := c.resolvePath(c.Cfg.Dotenv)
	if err != nil {
		return err
	}

	env := credentials.LookupFunc(c.lookupEnv)

	creds, err := credentials.Resolve(ctx, credentials.Options{
		Env: env,
		Dotfile: func() (credentials.Source, error) {
			return credentials.DotfileSource(c.fs, dotfile, env)
		},
		Argument:    arg,
		ArgumentSet: cmd.Flags().Changed("credentials"),
	})
	if err != nil {
		return fmt.Errorf("failed to resolve credentials: %w", err)
	}

	c.term.Successf("%s\n", creds)

	return nil
}
