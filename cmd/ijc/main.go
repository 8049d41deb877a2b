// Command ijc is a terminal client for ImageJ module servers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imagej/ijc/internal/app"
	"github.com/imagej/ijc/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.NewRoot().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode prints err and returns the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit app.ExitResult
	if errors.As(err, &exit) {
		if exit.Message != "" {
			if exit.UseStderr() {
				fmt.Fprintln(os.Stderr, exit.Message)
			} else {
				fmt.Fprintln(os.Stdout, exit.Message)
			}
		}
		return exit.ExitCode()
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return 1
}
