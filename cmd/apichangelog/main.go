// Package main is the entry point for the apichangelog CLI.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	apichangelog "github.com/erraggy/apichangelog"
	"github.com/erraggy/apichangelog/cmd/apichangelog/commands"
	"github.com/erraggy/apichangelog/internal/cliutil"
)

func main() {
	exitCode := runSafely(os.Args[1:], runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			cliutil.Errorf(errWriter, "panic recovered: %v\n%s", r, debug.Stack())
			exitCode = 1
		}
	}()

	return runner(args)
}

func runWithArgs(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.NewRootCmd(apichangelog.Version(), apichangelog.Commit(), apichangelog.BuildTime())
	rootCmd.SetArgs(args)

	return toExitCode(rootCmd.ErrOrStderr(), rootCmd.ExecuteContext(ctx))
}

// toExitCode maps a command error to the process exit code, reporting it on w.
func toExitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, commands.ErrChangesFound):
		return 1
	default:
		cliutil.Errorf(w, "%v", err)
		return 1
	}
}
