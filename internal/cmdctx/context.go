package cmdctx

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dshills/manage/internal/project"
	"github.com/dshills/manage/internal/redact"
	"github.com/dshills/manage/internal/runner"
	"github.com/sirupsen/logrus"
)

// Printer writes user-facing status lines.
type Printer interface {
	Status(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	// Println writes msg untagged.
	Println(msg string)
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(prompt string) bool
}

// Tool names the orchestration binaries.
type Tool struct {
	// Docker is the container runtime CLI, e.g. "docker".
	Docker string
	// Compose is the subcommand selecting compose operations, e.g. "compose".
	Compose string
	// Redact masks secrets in echoed command lines.
	Redact bool
}

// Params are the inputs to New.
type Params struct {
	Config      project.Config
	Environment string
	ProjectDir  string
	Args        *Args
	Program     string
	Tool        Tool
	Runner      runner.Runner
	Printer     Printer
	Prompter    Prompter
	Logger      logrus.FieldLogger
}

// Context is the per-invocation state passed to a handler. Its fields are
// read-only for handlers.
type Context struct {
	Config      project.Config
	Environment string
	ProjectDir  string
	Args        *Args
	// Program is the name users type to run this tool.
	Program string

	ctx    context.Context
	tool   Tool
	runner runner.Runner
	out    Printer
	prompt Prompter
	log    logrus.FieldLogger
}

// New builds a Context. ctx is the invocation's cancellation context.
func New(ctx context.Context, p Params) *Context {
	if p.Args == nil {
		p.Args = NewArgs("", "")
	}
	if p.Tool.Docker == "" {
		p.Tool.Docker = "docker"
	}
	if p.Tool.Compose == "" {
		p.Tool.Compose = "compose"
	}
	if p.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		p.Logger = l
	}
	if p.Program == "" {
		p.Program = "manage"
	}
	return &Context{
		Config:      p.Config,
		Environment: p.Environment,
		ProjectDir:  p.ProjectDir,
		Args:        p.Args,
		Program:     p.Program,
		ctx:         ctx,
		tool:        p.Tool,
		runner:      p.Runner,
		out:         p.Printer,
		prompt:      p.Prompter,
		log:         p.Logger,
	}
}

// Context returns the cancellation context of the invocation.
func (c *Context) Context() context.Context { return c.ctx }

// Out returns the status printer.
func (c *Context) Out() Printer { return c.out }

// Logger returns the diagnostic logger.
func (c *Context) Logger() logrus.FieldLogger { return c.log }

// Docker returns the container runtime binary name.
func (c *Context) Docker() string { return c.tool.Docker }

// Confirm asks the user to confirm prompt. Without a prompter it declines.
func (c *Context) Confirm(prompt string) bool {
	if c.prompt == nil {
		return false
	}
	return c.prompt.Confirm(prompt)
}

// ComposeFileArgs returns the -f flags for the environment. Base compose
// files, and an environment file naming one of them, are always included;
// any other environment file only if it exists under the project root.
func (c *Context) ComposeFileArgs() []string {
	files := c.Config.ResolveComposeFiles(c.Environment)
	base := c.Config.BaseCount()
	var args []string
	for i, f := range files {
		if i < base || slices.Contains(c.Config.ComposeFiles, f) || c.exists(f) {
			args = append(args, "-f", f)
		}
	}
	return args
}

// ComposePrefix returns the docker compose invocation with its -f flags,
// e.g. ["docker", "compose", "-f", "docker-compose.yml"].
func (c *Context) ComposePrefix() []string {
	return append([]string{c.tool.Docker, c.tool.Compose}, c.ComposeFileArgs()...)
}

func (c *Context) exists(file string) bool {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.ProjectDir, file)
	}
	_, err := os.Stat(path)
	return err == nil
}

// RunOption adjusts a single invocation.
type RunOption func(*runOptions)

type runOptions struct {
	noCheck bool
	capture bool
}

// NoCheck returns the result of a failing child instead of an *runner.ExitError.
func NoCheck() RunOption { return func(o *runOptions) { o.noCheck = true } }

// Capture collects the child's output in the result instead of streaming it.
func Capture() RunOption { return func(o *runOptions) { o.capture = true } }

// Compose runs docker compose with the environment's compose files followed
// by args, in the project root. A non-zero exit is returned as an
// *runner.ExitError unless NoCheck is given.
func (c *Context) Compose(args []string, opts ...RunOption) (runner.Result, error) {
	prefix := c.ComposePrefix()
	return c.Run(prefix[0], append(prefix[1:], args...), opts...)
}

// Run executes name with args in the project root, with the same checking
// rules as Compose.
func (c *Context) Run(name string, args []string, opts ...RunOption) (runner.Result, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	cmd := runner.Cmd{Name: name, Args: args, Dir: c.ProjectDir, Capture: o.capture}
	c.echo(cmd)

	res, err := c.runner.Run(c.ctx, cmd)
	if err != nil {
		return res, err
	}
	if res.Code != 0 && !o.noCheck {
		if o.capture {
			if s := strings.TrimSpace(res.Stdout); s != "" {
				c.log.Debug(s)
			}
		}
		return res, &runner.ExitError{Cmd: c.display(cmd), Code: res.Code, Stderr: res.Stderr}
	}
	return res, nil
}

// ExecCompose hands the terminal to docker compose with args. It only
// returns on failure, or on platforms without process replacement.
func (c *Context) ExecCompose(args []string) error {
	prefix := c.ComposePrefix()
	cmd := runner.Cmd{Name: prefix[0], Args: append(prefix[1:], args...), Dir: c.ProjectDir}
	c.echo(cmd)
	return c.runner.Replace(cmd)
}

func (c *Context) echo(cmd runner.Cmd) {
	line := c.display(cmd)
	c.log.WithField("dir", cmd.Dir).Debug("starting " + line)
	if c.out != nil {
		c.out.Status("Running: " + line)
	}
}

func (c *Context) display(cmd runner.Cmd) string {
	argv := cmd.Argv()
	if c.tool.Redact {
		argv = redact.Args(argv)
	}
	return strings.Join(argv, " ")
}

// runningServices lists services in the running state. Errors are returned
// to the caller, which decides how to degrade.
func (c *Context) runningServices() ([]string, error) {
	res, err := c.Compose([]string{"ps", "--services", "--status", "running"}, Capture())
	if err != nil {
		return nil, err
	}
	var services []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			services = append(services, s)
		}
	}
	return services, nil
}

// ActiveServices returns the running services, or nil if they cannot be
// determined.
func (c *Context) ActiveServices() []string {
	services, err := c.runningServices()
	if err != nil {
		c.log.WithError(err).Debug("listing running services failed")
		return nil
	}
	return services
}

// IsServiceActive reports whether service is running. Any failure of the
// query counts as not running.
func (c *Context) IsServiceActive(service string) bool {
	for _, s := range c.ActiveServices() {
		if s == service {
			return true
		}
	}
	return false
}

// RequireServiceActive returns a fatal error naming the remediation command
// when service is not running.
func (c *Context) RequireServiceActive(service string) error {
	if c.IsServiceActive(service) {
		return nil
	}
	return Fatalf("Service '%s' is not running. Start with: %s up", service, c.Program)
}
