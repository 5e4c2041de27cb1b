package preflight

import (
	"context"
	"errors"
	"io"

	"github.com/dshills/manage/internal/runner"
	"github.com/sirupsen/logrus"
)

// Error is a failed preflight check. Msg is suitable for the user.
type Error struct {
	Check string
	Msg   string
	Err   error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// Checker runs the preflight checks.
type Checker struct {
	Runner runner.Runner
	// Docker is the runtime binary. Defaults to "docker".
	Docker string
	// Compose is the compose subcommand. Defaults to "compose".
	Compose string
	Logger  logrus.FieldLogger
}

// Run checks that the daemon answers "docker info" and that
// "docker compose version" succeeds. It stops at the first failure.
func (c *Checker) Run(ctx context.Context) error {
	docker, compose := c.Docker, c.Compose
	if docker == "" {
		docker = "docker"
	}
	if compose == "" {
		compose = "compose"
	}
	log := c.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	res, err := c.probe(ctx, log, docker, "info")
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &Error{Check: "docker", Msg: "Docker is not installed or not in PATH", Err: err}
	case res.Code != 0:
		return &Error{Check: "docker", Msg: "Docker daemon is not running", Err: exitErr(docker+" info", res)}
	}

	res, err = c.probe(ctx, log, docker, compose, "version")
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &Error{Check: "compose", Msg: "Docker Compose is not installed or not working", Err: err}
	case res.Code != 0:
		return &Error{Check: "compose", Msg: "Docker Compose is not installed or not working", Err: exitErr(docker+" "+compose+" version", res)}
	}
	return nil
}

func (c *Checker) probe(ctx context.Context, log logrus.FieldLogger, name string, args ...string) (runner.Result, error) {
	if c.Runner == nil {
		return runner.Result{}, errors.New("preflight: no runner")
	}
	cmd := runner.Cmd{Name: name, Args: args, Capture: true}
	res, err := c.Runner.Run(ctx, cmd)
	log.WithFields(logrus.Fields{"cmd": cmd.String(), "code": res.Code}).Debug("preflight probe")
	return res, err
}

func exitErr(cmd string, res runner.Result) error {
	return &runner.ExitError{Cmd: cmd, Code: res.Code, Stderr: res.Stderr}
}
