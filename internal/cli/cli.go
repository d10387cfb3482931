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

// Package cli defines the command-line interface of ciprobe.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ciprobe-project/ciprobe/internal/config"
	"github.com/ciprobe-project/ciprobe/internal/flags"
	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/ciprobe-project/ciprobe/internal/log"
	"github.com/ciprobe-project/ciprobe/internal/taskstate"
	"github.com/ciprobe-project/ciprobe/internal/terminal"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// Name is the name of the command that's run.
const Name = "ciprobe"

// A CLI is the command-line interface that runs the program. It handles
// the subcommands, the global command-line flags, and the program execution.
type CLI struct {
	// Cfg is the parsed config of the run. It is set by Initialize.
	Cfg *config.Config

	// UsageLine is the one-line synopsis of the program.
	UsageLine string

	out       io.Writer                       // standard output
	errOut    io.Writer                       // standard error output
	fs        afero.Fs                        // file system for all of the files
	lookupEnv func(key string) (string, bool) // environment variable lookup
	dir       fspath.Path                     // working directory for relative paths
	flags     *flags.FlagSet                  // global command-line flags
	commands  []*Command                      // list of subcommands
	cmd       *Command                        // command to run
	args      []string                        // positional arguments for cmd
	term      *terminal.Terminal              // user output
}

// Options are the options for creating a [CLI]. The zero value uses
// the standard streams, the operating system's file system and environment,
// and the current working directory.
type Options struct {
	Out       io.Writer
	ErrOut    io.Writer
	Fs        afero.Fs
	LookupEnv func(key string) (string, bool)
	Dir       fspath.Path
}

// New creates a new CLI and returns it. It panics on errors.
func New(opts Options) *CLI {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	c := &CLI{
		Cfg:       nil,
		UsageLine: Name + " [--version] [-h | --help] <command> [<args>]",
		out:       opts.Out,
		errOut:    opts.ErrOut,
		fs:        opts.Fs,
		lookupEnv: opts.LookupEnv,
		dir:       opts.Dir,
		flags:     flags.NewFlagSet(Name, pflag.ContinueOnError),
		commands:  []*Command{},
		cmd:       nil,
		args:      []string{},
		term:      nil,
	}

	c.flags.SetOutput(io.Discard)

	defaults := config.DefaultConfig()

	c.flags.Bool("version", false, "print the version information and exit")
	c.flags.BoolP("help", "h", false, "show the help message and exit")
	c.flags.PathP(
		"config",
		"c",
		"",
		"use `<path>` as the settings file instead of resolving it from the standard locations",
	)
	c.flags.Path(
		"task-states",
		defaults.TaskStates,
		"read the known-good task versions from `<path>`",
	)
	c.flags.Path("dotenv", defaults.Dotenv, "read the credentials from the dotfile at `<path>`")
	c.flags.BoolP("verbose", "v", defaults.Verbose, "print more output during the run")
	c.flags.BoolP("quiet", "q", defaults.Quiet, "print only error messages during the run")
	c.flags.MarkMutuallyExclusive("quiet", "verbose")

	colorMode := defaults.Color

	c.flags.Var(&colorMode, "color", "enable colors in the output (`<when>` is auto, always, or never)")

	c.flags.Bool("log", defaults.Logging.Enabled, "enable logging")
	c.flags.Bool("no-log", !defaults.Logging.Enabled, "disable logging")
	c.flags.MarkMutuallyExclusive("log", "no-log")

	if err := c.flags.MarkHidden("log"); err != nil {
		panic(fmt.Sprintf("failed to mark --log hidden: %v", err))
	}

	c.add(newCheck())
	c.add(newTasks())
	c.add(newCredentials())

	return c
}

// Initialize parses the command-line arguments, finds the command to run, and
// parses the config. The returned boolean is false if the program should exit
// without running a command, for example after printing the help.
func (c *CLI) Initialize(ctx context.Context, args []string) (bool, error) {
	c.flags.SetInterspersed(false)

	if err := c.flags.Parse(args); err != nil {
		return false, usageError(fmt.Errorf("%w", err))
	}

	if done, err := c.handleInfoFlags(c.flags, nil); done || err != nil {
		return false, err
	}

	rest := c.flags.Args()
	if len(rest) == 0 {
		c.printUsage(c.errOut)

		return false, usageError(errNoCommand)
	}

	c.cmd = c.lookup(rest[0])
	if c.cmd == nil {
		return false, usageError(fmt.Errorf("%w: %s", errUnknownCommand, rest[0]))
	}

	log.Trace(ctx, "found command", "cmd", c.cmd.Name)

	flagSet := flags.NewFlagSet(Name+" "+c.cmd.Name, pflag.ContinueOnError)

	flagSet.SetOutput(io.Discard)
	flagSet.AddFlagSet(c.flags)
	flagSet.AddFlagSet(c.cmd.Flags())

	if err := flagSet.Parse(rest[1:]); err != nil {
		return false, usageError(fmt.Errorf("%s: %w", c.cmd.Name, err))
	}

	if err := flagSet.CheckMutuallyExclusive(); err != nil {
		return false, usageError(fmt.Errorf("%w", err))
	}

	if done, err := c.handleInfoFlags(flagSet, c.cmd); done || err != nil {
		return false, err
	}

	c.args = flagSet.Args()
	if len(c.args) < c.cmd.MinArgs || len(c.args) > c.cmd.MaxArgs {
		return false, usageError(
			fmt.Errorf("%w: usage: %s %s", errArgs, Name, c.cmd.UsageLine),
		)
	}

	cfg, err := config.Parse(ctx, config.ParseOptions{
		Fs:        c.fs,
		FlagSet:   flagSet,
		LookupEnv: c.lookupEnv,
		Dir:       c.dir,
	})
	if err != nil {
		return false, fmt.Errorf("failed to parse the config: %w", err)
	}

	c.Cfg = cfg
	c.term = terminal.New(c.out, c.errOut, cfg.Quiet, cfg.Verbose, cfg.Color)

	return true, nil
}

// Execute runs the command found by Initialize. It panics if it is called
// before a successful Initialize.
func (c *CLI) Execute(ctx context.Context) error {
	if c.cmd == nil || c.Cfg == nil {
		panic("CLI executed before it was initialized")
	}

	log.Info(ctx, "executing command", "cmd", c.cmd.Name, "args", c.args)

	if err := c.cmd.Run(ctx, c.cmd, c.args); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// Terminal returns the user output of the run. It is nil before Initialize.
func (c *CLI) Terminal() *terminal.Terminal {
	return c.term
}

// add adds the given command to the list of subcommands of c.
func (c *CLI) add(cmd *Command) {
	if c.lookup(cmd.Name) != nil {
		panic("duplicate command: " + cmd.Name)
	}

	cmd.cli = c
	c.commands = append(c.commands, cmd)
}

// handleInfoFlags prints the help or the version information if requested in
// fs. It reports whether the program should exit after that.
func (c *CLI) handleInfoFlags(fs *flags.FlagSet, cmd *Command) (bool, error) {
	helpSet, err := fs.GetBool("help")
	if err != nil {
		return false, fmt.Errorf("failed to get the value for command-line option '--help': %w", err)
	}

	if helpSet {
		if err := c.printHelp(cmd); err != nil {
			return false, fmt.Errorf("failed to print the usage info: %w", err)
		}

		return true, nil
	}

	versionSet, err := fs.GetBool("version")
	if err != nil {
		return false, fmt.Errorf("failed to get the value for command-line option '--version': %w", err)
	}

	if versionSet {
		if err := c.printVersion(); err != nil {
			return false, fmt.Errorf("failed to print the version info: %w", err)
		}

		return true, nil
	}

	return false, nil
}

// loadStore loads the task state document set in the config.
func (c *CLI) loadStore(ctx context.Context) (*taskstate.Store, error) {
	path, err := c.resolvePath(c.Cfg.TaskStates)
	if err != nil {
		return nil, err
	}

	store, err := taskstate.Load(ctx, c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load task states: %w", err)
	}

	return store, nil
}

// lookup returns the subcommand for the given name, if any. Otherwise it
// returns nil.
func (c *CLI) lookup(name string) *Command {
	for _, cmd := range c.commands {
		if cmd.Name == name {
			return cmd
		}
	}

	return nil
}

// resolvePath expands the given path and makes it relative to the working
// directory of the CLI.
func (c *CLI) resolvePath(p fspath.Path) (fspath.Path, error) {
	expanded, err := p.ExpandUser()
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", p, err)
	}

	p = expanded.ExpandEnv()

	if !p.IsAbs() && c.dir != "" {
		p = fspath.New(string(c.dir), string(p))
	}

	return p.Clean(), nil
}
