package registry

import (
	"github.com/dshills/manage/internal/cmdctx"
)

// Handler runs a command with its execution context.
type Handler func(*cmdctx.Context) error

// Action values for Arg.Action.
const (
	ActionStore     = "store"
	ActionStoreTrue = "store_true"
	ActionAppend    = "append"
)

// Nargs values for positional arguments.
const (
	NargsOne        = ""
	NargsOptional   = "?"
	NargsZeroOrMore = "*"
	NargsOneOrMore  = "+"
)

// Arg declares one flag or positional argument of a command.
//
// Flags holds either flag tokens ("-v", "--verbose") or a single positional
// name ("service").
type Arg struct {
	Flags    []string `yaml:"flags"`
	Dest     string   `yaml:"dest"`
	Action   string   `yaml:"action"`
	Nargs    string   `yaml:"nargs"`
	Required bool     `yaml:"required"`
	Default  string   `yaml:"default"`
	Choices  []string `yaml:"choices"`
	Help     string   `yaml:"help"`
}

// Entry is a registered command or subcommand.
type Entry struct {
	Name      string
	Help      string
	Arguments []Arg
	Handler   Handler
}

// Registry maps command names to entries, plus one level of subcommands
// keyed by parent command name.
type Registry struct {
	commands    map[string]Entry
	order       []string
	subcommands map[string]map[string]Entry
	subOrder    map[string][]string
	parents     []string

	// OnReplace, if set, is called when a registration overwrites an
	// existing entry. parent is empty for top-level commands.
	OnReplace func(parent, name string)
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		commands:    make(map[string]Entry),
		subcommands: make(map[string]map[string]Entry),
		subOrder:    make(map[string][]string),
	}
}

// RegisterCommand inserts or replaces the top-level command name.
func (r *Registry) RegisterCommand(name, help string, args []Arg, h Handler) {
	if _, exists := r.commands[name]; exists {
		r.replaced("", name)
	} else {
		r.order = append(r.order, name)
	}
	r.commands[name] = Entry{Name: name, Help: help, Arguments: cloneArgs(args), Handler: h}
}

// RegisterSubcommand inserts or replaces subcommand name under parent,
// creating the parent bucket on first use.
func (r *Registry) RegisterSubcommand(parent, name, help string, args []Arg, h Handler) {
	bucket, ok := r.subcommands[parent]
	if !ok {
		bucket = make(map[string]Entry)
		r.subcommands[parent] = bucket
		r.parents = append(r.parents, parent)
	}
	if _, exists := bucket[name]; exists {
		r.replaced(parent, name)
	} else {
		r.subOrder[parent] = append(r.subOrder[parent], name)
	}
	bucket[name] = Entry{Name: name, Help: help, Arguments: cloneArgs(args), Handler: h}
}

func (r *Registry) replaced(parent, name string) {
	if r.OnReplace != nil {
		r.OnReplace(parent, name)
	}
}

// Lookup returns the top-level command name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.commands[name]
	return e, ok
}

// LookupSubcommand returns subcommand name of parent.
func (r *Registry) LookupSubcommand(parent, name string) (Entry, bool) {
	e, ok := r.subcommands[parent][name]
	return e, ok
}

// Commands returns the top-level commands in first-registration order.
func (r *Registry) Commands() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Subcommands returns the subcommands of parent in first-registration order.
func (r *Registry) Subcommands(parent string) []Entry {
	names := r.subOrder[parent]
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, r.subcommands[parent][name])
	}
	return out
}

// HasSubcommands reports whether any subcommand is registered under parent.
func (r *Registry) HasSubcommands(parent string) bool {
	return len(r.subOrder[parent]) > 0
}

// OrphanParents returns subcommand parents that have no top-level command.
// Their subcommands are not reachable from the grammar.
func (r *Registry) OrphanParents() []string {
	var out []string
	for _, p := range r.parents {
		if _, ok := r.commands[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func cloneArgs(args []Arg) []Arg {
	if len(args) == 0 {
		return nil
	}
	out := make([]Arg, len(args))
	for i, a := range args {
		a.Flags = append([]string(nil), a.Flags...)
		a.Choices = append([]string(nil), a.Choices...)
		out[i] = a
	}
	return out
}
