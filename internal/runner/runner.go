package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Cmd describes a single program invocation.
type Cmd struct {
	Name string
	Args []string
	// Dir is the working directory of the child. Empty means the current one.
	Dir string
	// Capture collects stdout and stderr instead of streaming them.
	Capture bool
}

// Argv returns the program name followed by its arguments.
func (c Cmd) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

func (c Cmd) String() string {
	return strings.Join(c.Argv(), " ")
}

// Result is the outcome of a process that ran to completion.
type Result struct {
	Code   int
	Stdout string
	Stderr string
}

// Runner starts external programs.
type Runner interface {
	// Run executes c and waits for it. The error is non-nil only when the
	// program could not be started.
	Run(ctx context.Context, c Cmd) (Result, error)
	// Replace hands control to c. On platforms with process replacement it
	// only returns on failure.
	Replace(c Cmd) error
}

// ExitError reports a child process that exited with a non-zero status.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Cmd, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// waitDelay bounds how long an interrupted child may take to exit before it
// is killed.
const waitDelay = 10 * time.Second

// OS runs programs with os/exec.
type OS struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an OS runner attached to the process's standard streams.
func New() *OS {
	return &OS{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements Runner.
func (r *OS) Run(ctx context.Context, c Cmd) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	// Forward the interrupt so long-running children (logs -f, stats) can
	// exit cleanly before being killed.
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	if c.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdin = r.Stdin
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.Code = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("running %s: %w", c.Name, err)
}
