package cmdctx

import (
	"sort"
	"strings"
)

// Args holds the parsed values of the selected command's arguments. Names
// are normalised so "remove_orphans" and "remove-orphans" are the same key.
type Args struct {
	command    string
	subcommand string
	values     map[string]any
	changed    map[string]bool
}

// NewArgs returns an empty argument set for command (and subcommand, which
// may be empty).
func NewArgs(command, subcommand string) *Args {
	return &Args{
		command:    command,
		subcommand: subcommand,
		values:     make(map[string]any),
		changed:    make(map[string]bool),
	}
}

// NormalizeName maps an argument name to its lookup key.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimLeft(name, "-"), "_", "-")
}

// Set records value for name. Values are string, bool or []string.
// changed reports whether the user supplied it explicitly.
func (a *Args) Set(name string, value any, changed bool) {
	key := NormalizeName(name)
	a.values[key] = value
	a.changed[key] = changed
}

// Command returns the selected top-level command.
func (a *Args) Command() string { return a.command }

// Subcommand returns the selected subcommand, or "".
func (a *Args) Subcommand() string { return a.subcommand }

// Value returns the raw value of name.
func (a *Args) Value(name string) (any, bool) {
	v, ok := a.values[NormalizeName(name)]
	return v, ok
}

// Changed reports whether name was given on the command line.
func (a *Args) Changed(name string) bool {
	return a.changed[NormalizeName(name)]
}

// String returns the string value of name, or "" when it is unset or not a
// string.
func (a *Args) String(name string) string {
	switch v := a.values[NormalizeName(name)].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	}
	return ""
}

// Bool returns the boolean value of name.
func (a *Args) Bool(name string) bool {
	v, _ := a.values[NormalizeName(name)].(bool)
	return v
}

// Strings returns the list value of name. A single string is returned as a
// one-element list unless it is empty.
func (a *Args) Strings(name string) []string {
	switch v := a.values[NormalizeName(name)].(type) {
	case []string:
		return append([]string(nil), v...)
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

// Truthy reports whether name holds a non-zero value.
func (a *Args) Truthy(name string) bool {
	switch v := a.values[NormalizeName(name)].(type) {
	case bool:
		return v
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	}
	return false
}

// Names returns the argument names in sorted order.
func (a *Args) Names() []string {
	names := make([]string, 0, len(a.values))
	for k := range a.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns the values keyed by both the dashed and the underscored form
// of each name, for use in templates.
func (a *Args) Map() map[string]any {
	m := make(map[string]any, len(a.values)*2)
	for k, v := range a.values {
		m[k] = v
		m[strings.ReplaceAll(k, "-", "_")] = v
	}
	return m
}
