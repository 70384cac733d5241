// Package main is the lectern command-line entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/lectern/internal/cli"
	"github.com/rshade/lectern/internal/portal"
	"github.com/rshade/lectern/pkg/version"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	// exitAuth signals a missing or expired login so scripts can re-authenticate.
	exitAuth = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// run executes the root command with args.
func run(ctx context.Context, args []string) error {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, portal.ErrNotLoggedIn), errors.Is(err, portal.ErrUnauthorized):
		return exitAuth
	default:
		return exitError
	}
}
