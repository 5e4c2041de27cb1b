package grammar

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/manage/internal/cmdctx"
	"github.com/dshills/manage/internal/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagBinding struct {
	spec  registry.Arg
	long  string
	short string
	dest  string
}

type positionalBinding struct {
	spec registry.Arg
	name string
	dest string
}

type bindings struct {
	flags       []flagBinding
	positionals []positionalBinding
}

// names tracks taken long and short flag names.
type names struct {
	long  map[string]bool
	short map[string]bool
}

func newNames() names {
	return names{long: make(map[string]bool), short: make(map[string]bool)}
}

func (n names) add(f flagBinding) {
	n.long[f.long] = true
	if f.short != "" {
		n.short[f.short] = true
	}
}

func (n names) has(f flagBinding) bool {
	return n.long[f.long] || (f.short != "" && n.short[f.short])
}

// bindArgs validates specs and defines their flags on fs. reserved holds
// names already taken by enclosing commands; it is not modified.
func bindArgs(fs *pflag.FlagSet, specs []registry.Arg, reserved names) (*bindings, error) {
	bs := &bindings{}
	seen := newNames()
	dests := make(map[string]bool)
	variadicSeen := false

	for i, spec := range specs {
		if len(spec.Flags) == 0 {
			return nil, fmt.Errorf("argument %d: no flags or name given", i+1)
		}
		if len(spec.Choices) > 0 && spec.Default != "" && !slices.Contains(spec.Choices, spec.Default) {
			return nil, fmt.Errorf("argument %s: default %q is not one of %s", spec.Flags[0], spec.Default, strings.Join(spec.Choices, ", "))
		}

		if isPositional(spec.Flags) {
			p, err := positional(spec)
			if err != nil {
				return nil, err
			}
			if variadicSeen {
				return nil, fmt.Errorf("argument %s: follows an optional or variadic positional", p.name)
			}
			if p.spec.Nargs != registry.NargsOne {
				variadicSeen = true
			}
			if dests[p.dest] {
				return nil, fmt.Errorf("argument %s: duplicate destination %q", p.name, p.dest)
			}
			dests[p.dest] = true
			bs.positionals = append(bs.positionals, p)
			continue
		}

		f, err := flagSpec(spec)
		if err != nil {
			return nil, err
		}
		if reserved.has(f) {
			return nil, fmt.Errorf("argument %s: shadows a global or inherited flag", spec.Flags[0])
		}
		if seen.has(f) {
			return nil, fmt.Errorf("argument %s: duplicate flag", spec.Flags[0])
		}
		seen.add(f)
		if dests[f.dest] {
			return nil, fmt.Errorf("argument %s: duplicate destination %q", spec.Flags[0], f.dest)
		}
		dests[f.dest] = true
		define(fs, f)
		if f.spec.Required {
			if err := cobra.MarkFlagRequired(fs, f.long); err != nil {
				return nil, err
			}
		}
		bs.flags = append(bs.flags, f)
	}
	return bs, nil
}

func isPositional(tokens []string) bool {
	for _, t := range tokens {
		if !strings.HasPrefix(t, "-") {
			return true
		}
	}
	return false
}

func positional(spec registry.Arg) (positionalBinding, error) {
	if len(spec.Flags) != 1 {
		return positionalBinding{}, fmt.Errorf("argument %s: positional arguments take exactly one name and no flag tokens", strings.Join(spec.Flags, "/"))
	}
	name := spec.Flags[0]
	if spec.Required {
		return positionalBinding{}, fmt.Errorf("argument %s: 'required' is not valid for positionals", name)
	}
	switch spec.Action {
	case "", registry.ActionStore:
	default:
		return positionalBinding{}, fmt.Errorf("argument %s: action %q is not valid for positionals", name, spec.Action)
	}
	switch spec.Nargs {
	case registry.NargsOne, registry.NargsOptional, registry.NargsZeroOrMore, registry.NargsOneOrMore:
	default:
		return positionalBinding{}, fmt.Errorf("argument %s: unknown nargs %q", name, spec.Nargs)
	}
	dest := spec.Dest
	if dest == "" {
		dest = name
	}
	return positionalBinding{spec: spec, name: name, dest: cmdctx.NormalizeName(dest)}, nil
}

func flagSpec(spec registry.Arg) (flagBinding, error) {
	f := flagBinding{spec: spec}
	for _, t := range spec.Flags {
		switch {
		case strings.HasPrefix(t, "--"):
			name := t[2:]
			if name == "" {
				return f, fmt.Errorf("argument %q: empty flag name", t)
			}
			if f.long != "" {
				return f, fmt.Errorf("argument %s: more than one long flag", spec.Flags[0])
			}
			f.long = name
		default:
			name := t[1:]
			if len(name) != 1 {
				return f, fmt.Errorf("argument %q: short flags must be a single letter", t)
			}
			if f.short != "" {
				return f, fmt.Errorf("argument %s: more than one short flag", spec.Flags[0])
			}
			f.short = name
		}
	}
	if f.long == "" {
		f.long = f.short
	}
	if spec.Nargs != "" {
		return f, fmt.Errorf("argument %s: nargs is only valid for positionals", spec.Flags[0])
	}
	switch spec.Action {
	case "", registry.ActionStore, registry.ActionAppend:
	case registry.ActionStoreTrue:
		if len(spec.Choices) > 0 {
			return f, fmt.Errorf("argument %s: choices are not valid for switches", spec.Flags[0])
		}
		if spec.Default != "" {
			if _, err := strconv.ParseBool(spec.Default); err != nil {
				return f, fmt.Errorf("argument %s: default %q is not a boolean", spec.Flags[0], spec.Default)
			}
		}
	default:
		return f, fmt.Errorf("argument %s: unknown action %q", spec.Flags[0], spec.Action)
	}
	dest := spec.Dest
	if dest == "" {
		dest = f.long
	}
	f.dest = cmdctx.NormalizeName(dest)
	return f, nil
}

// define adds f to fs. A flag declared only by its letter gets that letter
// as both name and shorthand.
func define(fs *pflag.FlagSet, f flagBinding) {
	s := f.spec
	switch s.Action {
	case registry.ActionStoreTrue:
		def := false
		if s.Default != "" {
			def, _ = strconv.ParseBool(s.Default)
		}
		fs.BoolP(f.long, f.short, def, s.Help)
	case registry.ActionAppend:
		var def []string
		if s.Default != "" {
			def = []string{s.Default}
		}
		fs.StringArrayP(f.long, f.short, def, s.Help)
	default:
		fs.StringP(f.long, f.short, s.Default, s.Help)
	}
}

func (bs *bindings) hasPositionals() bool { return len(bs.positionals) > 0 }

// usage renders the positional part of the usage line.
func (bs *bindings) usage() string {
	var b strings.Builder
	for _, p := range bs.positionals {
		b.WriteByte(' ')
		switch p.spec.Nargs {
		case registry.NargsOptional:
			b.WriteString("[" + p.name + "]")
		case registry.NargsZeroOrMore:
			b.WriteString("[" + p.name + "...]")
		case registry.NargsOneOrMore:
			b.WriteString("<" + p.name + ">...")
		default:
			b.WriteString("<" + p.name + ">")
		}
	}
	return b.String()
}

// positionalArgs returns the cobra validator for the declared positionals.
func (bs *bindings) positionalArgs() cobra.PositionalArgs {
	lo, hi := 0, 0
	for _, p := range bs.positionals {
		switch p.spec.Nargs {
		case registry.NargsOne:
			lo++
			hi++
		case registry.NargsOptional:
			hi++
		case registry.NargsZeroOrMore:
			hi = -1
		case registry.NargsOneOrMore:
			lo++
			hi = -1
		}
	}
	switch {
	case hi < 0:
		return cobra.MinimumNArgs(lo)
	case lo == 0 && hi == 0:
		return cobra.NoArgs
	default:
		return cobra.RangeArgs(lo, hi)
	}
}

// collect stores the parsed values of the bindings into args.
func (bs *bindings) collect(cmd *cobra.Command, positional []string, args *cmdctx.Args) error {
	fs := cmd.Flags()
	for _, f := range bs.flags {
		fl := fs.Lookup(f.long)
		if fl == nil {
			return fmt.Errorf("flag --%s not defined", f.long)
		}
		switch f.spec.Action {
		case registry.ActionStoreTrue:
			v, err := fs.GetBool(f.long)
			if err != nil {
				return err
			}
			args.Set(f.dest, v, fl.Changed)
		case registry.ActionAppend:
			v, err := fs.GetStringArray(f.long)
			if err != nil {
				return err
			}
			for _, s := range v {
				if err := checkChoice(f.spec, s); err != nil {
					return err
				}
			}
			args.Set(f.dest, v, fl.Changed)
		default:
			v, err := fs.GetString(f.long)
			if err != nil {
				return err
			}
			if fl.Changed {
				if err := checkChoice(f.spec, v); err != nil {
					return err
				}
			}
			args.Set(f.dest, v, fl.Changed)
		}
	}

	rest := positional
	for i, p := range bs.positionals {
		switch p.spec.Nargs {
		case registry.NargsOne, registry.NargsOptional:
			v, changed := p.spec.Default, false
			// Later required positionals keep their share of the values.
			if len(rest) > bs.minAfter(i) {
				v, changed = rest[0], true
				rest = rest[1:]
			}
			if changed {
				if err := checkChoice(p.spec, v); err != nil {
					return err
				}
			}
			args.Set(p.dest, v, changed)
		default:
			vals := append([]string(nil), rest...)
			rest = nil
			changed := len(vals) > 0
			if !changed && p.spec.Default != "" {
				vals = []string{p.spec.Default}
			}
			if changed {
				for _, v := range vals {
					if err := checkChoice(p.spec, v); err != nil {
						return err
					}
				}
			}
			if vals == nil {
				vals = []string{}
			}
			args.Set(p.dest, vals, changed)
		}
	}
	return nil
}

// minAfter returns the minimum number of values the positionals after i need.
func (bs *bindings) minAfter(i int) int {
	n := 0
	for _, p := range bs.positionals[i+1:] {
		if p.spec.Nargs == registry.NargsOne || p.spec.Nargs == registry.NargsOneOrMore {
			n++
		}
	}
	return n
}

func checkChoice(spec registry.Arg, v string) error {
	if len(spec.Choices) == 0 || slices.Contains(spec.Choices, v) {
		return nil
	}
	return usagef("argument %s: invalid choice %q (choose from %s)", spec.Flags[0], v, strings.Join(spec.Choices, ", "))
}
