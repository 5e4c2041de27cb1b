package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/dshills/manage/internal/builtin"
	"github.com/dshills/manage/internal/cmdctx"
	"github.com/dshills/manage/internal/config"
	"github.com/dshills/manage/internal/extension"
	"github.com/dshills/manage/internal/grammar"
	"github.com/dshills/manage/internal/output"
	"github.com/dshills/manage/internal/preflight"
	"github.com/dshills/manage/internal/project"
	"github.com/dshills/manage/internal/registry"
	"github.com/dshills/manage/internal/runner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Options configure an App. Zero values select the process defaults.
type Options struct {
	// Args is the command line without the program name.
	Args    []string
	Program string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Executable is the path the project root is located from. Defaults to
	// the running binary with symlinks resolved.
	Executable string
	// Settings replaces the settings normally read by config.Load.
	Settings *config.Config
	Runner   runner.Runner

	// Config and Extensions are the embedding program's extension. They are
	// applied before the project manifest, which therefore wins.
	Config     *project.Config
	Extensions []extension.Func
}

// App runs one invocation.
type App struct {
	opts     Options
	settings config.Config
	log      *logrus.Logger
	out      *output.Printer

	buildGrammar func(grammar.Options) (*grammar.Grammar, error)
	chdir        func(string) error
}

// New returns an App for opts.
func New(opts Options) *App {
	if opts.Args == nil {
		opts.Args = []string{}
	}
	if opts.Program == "" {
		opts.Program = "manage"
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &App{
		opts:         opts,
		buildGrammar: grammar.Build,
		chdir:        os.Chdir,
	}
}

// Run executes the invocation and returns its exit code.
func (a *App) Run(ctx context.Context) int {
	if err := a.setup(); err != nil {
		fmt.Fprintf(a.opts.Stderr, "Error: %v\n", err)
		return ExitFailure
	}

	root, err := a.locate()
	if err != nil {
		a.out.Error(err.Error())
		return ExitFailure
	}
	a.log.WithField("root", root).Debug("project root located")

	if err := a.preflight(ctx); err != nil {
		var perr *preflight.Error
		if errors.As(err, &perr) {
			a.out.Error(perr.Msg)
			a.log.WithError(perr.Err).WithField("check", perr.Check).Debug("preflight failed")
			return ExitFailure
		}
		return a.fail(ctx, err)
	}

	reg, cfg, err := a.loadExtensions(root)
	if err != nil {
		a.out.Error(err.Error())
		return ExitFailure
	}
	a.log.WithFields(logrus.Fields{"project": cfg.Name, "commands": len(reg.Commands())}).Debug("extensions loaded")

	g, err := a.buildGrammar(grammar.Options{
		Program:  a.opts.Program,
		Version:  Version,
		Config:   cfg,
		EnvVar:   a.settings.EnvironmentVar,
		Builtins: builtin.Entries(Version),
		Registry: reg,
		Dispatch: a.dispatcher(ctx, root, cfg),
		Logger:   a.log,
		Stdout:   a.opts.Stdout,
		Stderr:   a.opts.Stderr,
	})
	if err != nil {
		a.out.Error(err.Error())
		return ExitFailure
	}

	cmd, err := g.Execute(a.opts.Args)
	if err == nil {
		return ExitSuccess
	}
	var herr *grammar.HandlerError
	if errors.As(err, &herr) {
		return a.fail(ctx, herr.Err)
	}
	return a.usage(cmd, err)
}

// setup loads settings and configures logging and output.
func (a *App) setup() error {
	if a.opts.Settings != nil {
		a.settings = *a.opts.Settings
	} else {
		overrides := make(map[string]any)
		if slices.Contains(a.opts.Args, "--"+grammar.FlagDebug) {
			overrides["debug"] = true
		}
		if slices.Contains(a.opts.Args, "--"+grammar.FlagNoColor) {
			overrides["no_color"] = true
		}
		s, err := config.Load(overrides)
		if err != nil {
			return err
		}
		a.settings = s
	}
	if a.opts.Runner == nil {
		a.opts.Runner = &runner.OS{Stdin: a.opts.Stdin, Stdout: a.opts.Stdout, Stderr: a.opts.Stderr}
	}

	a.log = logrus.New()
	a.log.SetOutput(a.opts.Stderr)
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(a.settings.LogLevel)
	if err != nil {
		a.log.WithField("log_level", a.settings.LogLevel).Warn("invalid log level, using warn")
		level = logrus.WarnLevel
	}
	a.log.SetLevel(level)
	if a.settings.Debug {
		a.log.SetLevel(logrus.DebugLevel)
	}

	a.out = output.New(a.opts.Stdout, a.opts.Stderr, a.settings.NoColor)
	return nil
}

// locate returns the absolute project root.
func (a *App) locate() (string, error) {
	if dir := a.settings.ProjectDir; dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolving project dir %s: %w", dir, err)
		}
		return abs, nil
	}
	exe := a.opts.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return "", fmt.Errorf("locating executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
	}
	abs, err := filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", exe, err)
	}
	return project.Locate(abs, a.settings.ScriptsDir), nil
}

func (a *App) preflight(ctx context.Context) error {
	c := &preflight.Checker{
		Runner:  a.opts.Runner,
		Docker:  a.settings.DockerBinary,
		Compose: a.settings.ComposeSubcommand,
		Logger:  a.log,
	}
	return c.Run(ctx)
}

// loadExtensions fills a fresh registry from the injected extensions and
// the project manifest, and returns the effective project configuration.
func (a *App) loadExtensions(root string) (*registry.Registry, project.Config, error) {
	reg := registry.New()
	reg.OnReplace = func(parent, name string) {
		a.log.WithFields(logrus.Fields{"parent": parent, "name": name}).Debug("registration replaced")
	}

	cfg := a.opts.Config
	if err := extension.Apply(reg, a.opts.Extensions...); err != nil {
		return nil, project.Config{}, err
	}

	path := filepath.Join(root, a.settings.PluginsFile)
	m, err := extension.Load(path)
	if err != nil {
		return nil, project.Config{}, err
	}
	if m != nil {
		a.log.WithField("path", path).Debug("loading manifest")
		if err := m.Register(reg); err != nil {
			return nil, project.Config{}, err
		}
		if m.Config != nil {
			cfg = m.Config
		}
	}

	if cfg == nil {
		synth := project.New(filepath.Base(root))
		cfg = &synth
	}
	resolved := cfg.WithDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, project.Config{}, err
	}
	return reg, resolved, nil
}

// dispatcher returns the grammar callback that builds the execution
// context and runs the selected handler from the project root.
func (a *App) dispatcher(ctx context.Context, root string, cfg project.Config) grammar.Dispatch {
	return func(inv grammar.Invocation) error {
		if inv.Debug {
			a.log.SetLevel(logrus.DebugLevel)
		}
		if inv.NoColor {
			a.out.DisableColor()
		}
		c := cmdctx.New(ctx, cmdctx.Params{
			Config:      cfg,
			Environment: inv.Environment,
			ProjectDir:  root,
			Args:        inv.Args,
			Program:     a.opts.Program,
			Tool: cmdctx.Tool{
				Docker:  a.settings.DockerBinary,
				Compose: a.settings.ComposeSubcommand,
				Redact:  a.settings.Redact,
			},
			Runner:   a.opts.Runner,
			Printer:  a.out,
			Prompter: output.Prompt{In: a.opts.Stdin, Out: a.opts.Stdout},
			Logger:   a.log,
		})
		if err := a.chdir(root); err != nil {
			return fmt.Errorf("changing to project root: %w", err)
		}
		return inv.Handler(c)
	}
}

// fail reports err and returns its exit code.
func (a *App) fail(ctx context.Context, err error) int {
	code := exitCode(ctx, err)
	var (
		exit  *cmdctx.ExitCode
		child *runner.ExitError
	)
	switch {
	case code == ExitInterrupted:
		a.out.Println("\nInterrupted.")
	case errors.As(err, &exit):
		if exit.Message != "" {
			a.out.Error(exit.Message)
		}
	case errors.As(err, &child):
		// The child's own output has already been shown unless it was captured.
		if child.Stderr != "" {
			a.out.Error(child.Error())
		}
		a.log.WithError(err).Debug("command failed")
	default:
		a.out.Error(err.Error())
	}
	return code
}

// usage reports a command-line error against the command it was found in.
func (a *App) usage(cmd *cobra.Command, err error) int {
	fmt.Fprintf(a.opts.Stderr, "Error: %v\n", err)
	if cmd != nil {
		fmt.Fprint(a.opts.Stderr, cmd.UsageString())
	}
	return ExitUsageError
}
