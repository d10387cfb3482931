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

// Package main is the entry point for ciprobe, the checker for the versions of
// CI tasks.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ciprobe-project/ciprobe/internal/cli"
	"github.com/ciprobe-project/ciprobe/internal/fspath"
	"github.com/ciprobe-project/ciprobe/internal/log"
	"github.com/ciprobe-project/ciprobe/internal/logger"
	"github.com/ciprobe-project/ciprobe/internal/panichandler"
	"github.com/ciprobe-project/ciprobe/internal/version"
)

func main() {
	code := run()
	if code != 0 {
		os.Exit(code)
	}
}

func run() int {
	defer panichandler.Handle()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	panichandler.SetCancel(cancel)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InitBootstrap()
	log.Info(ctx, "bootstrapping ciprobe", "version", version.Version(), "commit", version.Revision())

	if err := runCLI(ctx); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if !exitErr.Reported() {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return cli.ExitFailure
	}

	return 0
}

func runCLI(ctx context.Context) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get the working directory: %w", err)
	}

	c := cli.New(cli.Options{ //nolint:exhaustruct // use the standard streams and environment
		Dir: fspath.Path(wd),
	})

	if ok, err := c.Initialize(ctx, os.Args[1:]); err != nil {
		return fmt.Errorf("%w", err)
	} else if !ok {
		return nil
	}

	closeLog, err := logger.Init(c.Cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to close the log output: %v\n", err)
		}
	}()

	log.Debug(ctx, "logging initialized")
	log.Info(ctx, "executing ciprobe", "version", version.Version())

	if err := c.Execute(ctx); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
