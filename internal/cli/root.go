package cli

import (
	"context"
	"errors"

	"github.com/dshills/manage/internal/cmdctx"
	"github.com/dshills/manage/internal/preflight"
	"github.com/dshills/manage/internal/runner"
)

// Version is reported by the version command.
var Version = "0.3.0"

// Exit codes.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitUsageError  = 2
	ExitInterrupted = 130
)

// Main runs one invocation with opts and returns the process exit code.
func Main(ctx context.Context, opts Options) int {
	return New(opts).Run(ctx)
}

// exitCode maps a handler error to an exit code. Errors are classified in
// order: cancellation, explicit exit, preflight failure, child process
// failure, anything else.
func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return ExitSuccess
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	var exit *cmdctx.ExitCode
	if errors.As(err, &exit) {
		return exit.Code
	}
	var perr *preflight.Error
	if errors.As(err, &perr) {
		return ExitFailure
	}
	var child *runner.ExitError
	if errors.As(err, &child) {
		if child.Code <= 0 {
			return ExitFailure
		}
		return child.Code
	}
	return ExitFailure
}
