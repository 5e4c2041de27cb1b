package grammar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/manage/internal/cmdctx"
	"github.com/dshills/manage/internal/project"
	"github.com/dshills/manage/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Global flag names.
const (
	FlagEnv     = "env"
	FlagDebug   = "debug"
	FlagNoColor = "no-color"
)

// Invocation is a fully parsed command line.
type Invocation struct {
	Command     *cobra.Command
	Handler     registry.Handler
	Args        *cmdctx.Args
	Environment string
	Debug       bool
	NoColor     bool
}

// Dispatch receives the parsed invocation from the selected command.
type Dispatch func(inv Invocation) error

// Options configure Build.
type Options struct {
	// Program is the root command name.
	Program string
	// Version is reported by --version when non-empty.
	Version string
	Config  project.Config
	// EnvVar names the environment variable overriding the default
	// environment. Defaults to "ENVIRONMENT".
	EnvVar   string
	Builtins []registry.Entry
	Registry *registry.Registry
	Dispatch Dispatch
	Logger   logrus.FieldLogger
	Stdout   io.Writer
	Stderr   io.Writer
}

// Grammar is a built command tree.
type Grammar struct {
	Root *cobra.Command
	env  *viper.Viper
}

// Environment returns the resolved environment: the --env flag if given,
// else the environment variable, else the project default.
func (g *Grammar) Environment() string {
	return g.env.GetString(FlagEnv)
}

// Execute parses argv and runs the selected command. It returns the command
// cobra selected along with any error, so callers can print its usage. A
// nil argv is an empty command line, never the process arguments.
func (g *Grammar) Execute(argv []string) (*cobra.Command, error) {
	if argv == nil {
		argv = []string{}
	}
	g.Root.SetArgs(argv)
	return g.Root.ExecuteC()
}

type builder struct {
	opts Options
	g    *Grammar
	log  logrus.FieldLogger
}

// Build constructs the grammar. Built-in entries are entered first, then
// registry commands, so a registry command replaces a built-in of the same
// name. Subcommands attach to registry commands only.
func Build(opts Options) (*Grammar, error) {
	if opts.EnvVar == "" {
		opts.EnvVar = "ENVIRONMENT"
	}
	if opts.Program == "" {
		opts.Program = "manage"
	}
	if opts.Registry == nil {
		opts.Registry = registry.New()
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	cfg := opts.Config.WithDefaults()

	b := &builder{opts: opts, log: log, g: &Grammar{env: viper.New()}}
	root := b.root(cfg)
	b.g.Root = root

	for _, parent := range opts.Registry.OrphanParents() {
		log.WithField("parent", parent).Warn("subcommands registered for unknown command; ignoring")
	}

	type slot struct {
		entry  registry.Entry
		plugin bool
	}
	var order []string
	table := make(map[string]slot)
	for _, e := range opts.Builtins {
		if _, ok := table[e.Name]; !ok {
			order = append(order, e.Name)
		}
		table[e.Name] = slot{entry: e}
	}
	for _, e := range opts.Registry.Commands() {
		if prev, ok := table[e.Name]; ok && !prev.plugin {
			log.WithField("command", e.Name).Debug("extension command replaces built-in")
		} else if !ok {
			order = append(order, e.Name)
		}
		table[e.Name] = slot{entry: e, plugin: true}
	}

	for _, name := range order {
		s := table[name]
		var subs []registry.Entry
		if s.plugin {
			subs = opts.Registry.Subcommands(name)
		}
		cmd, err := b.command(s.entry, subs)
		if err != nil {
			return nil, err
		}
		root.AddCommand(cmd)
	}
	return b.g, nil
}

func (b *builder) root(cfg project.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           b.opts.Program,
		Short:         fmt.Sprintf("Manage Docker containers for %s", cfg.Name),
		Version:       b.opts.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("a command is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	if b.opts.Stdout != nil {
		root.SetOut(b.opts.Stdout)
	}
	if b.opts.Stderr != nil {
		root.SetErr(b.opts.Stderr)
	}

	def := cfg.DefaultEnv
	if v := os.Getenv(b.opts.EnvVar); v != "" {
		def = v
	}
	pf := root.PersistentFlags()
	pf.StringP(FlagEnv, "e", def, fmt.Sprintf("Environment (falls back to $%s)", b.opts.EnvVar))
	pf.Bool(FlagDebug, false, "Enable debug logging")
	pf.Bool(FlagNoColor, false, "Disable colored output")

	v := b.g.env
	v.SetDefault(FlagEnv, cfg.DefaultEnv)
	_ = v.BindEnv(FlagEnv, b.opts.EnvVar)
	_ = v.BindPFlag(FlagEnv, pf.Lookup(FlagEnv))
	return root
}

// command builds the cobra command for e. When subs is non-empty the
// command requires one of them and its own flags become persistent.
func (b *builder) command(e registry.Entry, subs []registry.Entry) (*cobra.Command, error) {
	parent := len(subs) > 0
	if e.Handler == nil && !parent {
		return nil, &ConfigError{Command: e.Name, Err: fmt.Errorf("no handler")}
	}

	cmd := &cobra.Command{Use: e.Name, Short: e.Help}
	fs := cmd.Flags()
	if parent {
		fs = cmd.PersistentFlags()
	}
	bs, err := bindArgs(fs, e.Arguments, reservedNames())
	if err != nil {
		return nil, &ConfigError{Command: e.Name, Err: err}
	}

	if !parent {
		cmd.Use = e.Name + bs.usage()
		cmd.Args = bs.positionalArgs()
		cmd.RunE = b.run(e.Name, "", e.Handler, bs, nil)
		return cmd, nil
	}
	if bs.hasPositionals() {
		return nil, &ConfigError{Command: e.Name, Err: fmt.Errorf("a command with subcommands cannot declare positional arguments")}
	}

	cmd.Use = e.Name + " <subcommand>"
	cmd.RunE = func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return usagef("%s requires a subcommand", e.Name)
		}
		return usagef("unknown subcommand %q for %q", args[0], e.Name)
	}

	reserved := reservedNames()
	for _, f := range bs.flags {
		reserved.add(f)
	}
	for _, s := range subs {
		if s.Handler == nil {
			return nil, &ConfigError{Command: e.Name + " " + s.Name, Err: fmt.Errorf("no handler")}
		}
		sub := &cobra.Command{Use: s.Name, Short: s.Help}
		sbs, err := bindArgs(sub.Flags(), s.Arguments, reserved)
		if err != nil {
			return nil, &ConfigError{Command: e.Name + " " + s.Name, Err: err}
		}
		sub.Use = s.Name + sbs.usage()
		sub.Args = sbs.positionalArgs()
		sub.RunE = b.run(e.Name, s.Name, s.Handler, sbs, bs)
		cmd.AddCommand(sub)
	}
	return cmd, nil
}

// run returns the RunE for a leaf command. inherited carries the parent's
// flag bindings for subcommands.
func (b *builder) run(command, subcommand string, h registry.Handler, own, inherited *bindings) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, positional []string) error {
		args := cmdctx.NewArgs(command, subcommand)
		if inherited != nil {
			if err := inherited.collect(cmd, nil, args); err != nil {
				return err
			}
		}
		if err := own.collect(cmd, positional, args); err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool(FlagDebug)
		noColor, _ := cmd.Flags().GetBool(FlagNoColor)
		inv := Invocation{
			Command:     cmd,
			Handler:     h,
			Args:        args,
			Environment: b.g.Environment(),
			Debug:       debug,
			NoColor:     noColor,
		}
		b.log.WithFields(logrus.Fields{
			"command": strings.TrimSpace(command + " " + subcommand),
			"env":     inv.Environment,
			"args":    args.Names(),
		}).Debug("dispatching")
		if b.opts.Dispatch == nil {
			return nil
		}
		if err := b.opts.Dispatch(inv); err != nil {
			return &HandlerError{Err: err}
		}
		return nil
	}
}

func reservedNames() names {
	n := newNames()
	for _, l := range []string{FlagEnv, "help", FlagDebug, FlagNoColor} {
		n.long[l] = true
	}
	n.short["e"] = true
	n.short["h"] = true
	return n
}
