package extension

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/dshills/manage/internal/project"
	"github.com/dshills/manage/internal/registry"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest file name looked up in the project root.
const DefaultFile = "manage_plugins.yaml"

// LoadError reports a manifest that could not be read or is invalid.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading extension %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Manifest is the decoded manifest file.
type Manifest struct {
	Config      *project.Config `yaml:"config"`
	Commands    []Command       `yaml:"commands"`
	Subcommands []Subcommand    `yaml:"subcommands"`

	path string
}

// Command declares a command and, for top-level commands, its subcommands.
type Command struct {
	Name        string         `yaml:"name"`
	Help        string         `yaml:"help"`
	Arguments   []registry.Arg `yaml:"arguments"`
	Steps       []Step         `yaml:"steps"`
	Subcommands []Command      `yaml:"subcommands"`
}

// Subcommand declares a subcommand outside its parent's block.
type Subcommand struct {
	Parent  string `yaml:"parent"`
	Command `yaml:",inline"`
}

// Step is one action of a command. Exactly one action field is set.
type Step struct {
	Compose        []string `yaml:"compose"`
	Run            []string `yaml:"run"`
	RequireRunning string   `yaml:"require_running"`
	Print          string   `yaml:"print"`
	Confirm        string   `yaml:"confirm"`
	// When names an argument that must be truthy for the step to run.
	// A leading "!" inverts the check.
	When string `yaml:"when"`

	tokens []token
}

// Path returns the file the manifest was read from.
func (m *Manifest) Path() string { return m.path }

// Load reads and validates the manifest at path. A missing file yields
// (nil, nil).
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m.path = path
	return m, nil
}

// Parse decodes and validates manifest data. Unknown keys are errors.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if m.Config != nil {
		if err := m.Config.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	for i := range m.Commands {
		c := &m.Commands[i]
		if err := c.compile(c.Name); err != nil {
			return err
		}
		for j := range c.Subcommands {
			s := &c.Subcommands[j]
			if len(s.Subcommands) > 0 {
				return fmt.Errorf("command %s %s: subcommands cannot be nested further", c.Name, s.Name)
			}
			if err := s.compile(c.Name + " " + s.Name); err != nil {
				return err
			}
			if len(s.Steps) == 0 {
				return fmt.Errorf("command %s %s: no steps", c.Name, s.Name)
			}
		}
		if len(c.Steps) == 0 && len(c.Subcommands) == 0 && !m.hasFlatChildren(c.Name) {
			return fmt.Errorf("command %s: no steps or subcommands", c.Name)
		}
	}
	for i := range m.Subcommands {
		s := &m.Subcommands[i]
		if s.Parent == "" {
			return fmt.Errorf("subcommand %s: parent is required", s.Name)
		}
		if len(s.Subcommands) > 0 {
			return fmt.Errorf("command %s %s: subcommands cannot be nested further", s.Parent, s.Name)
		}
		if err := s.compile(s.Parent + " " + s.Name); err != nil {
			return err
		}
		if len(s.Steps) == 0 {
			return fmt.Errorf("command %s %s: no steps", s.Parent, s.Name)
		}
	}
	return nil
}

func (m *Manifest) hasFlatChildren(parent string) bool {
	for _, s := range m.Subcommands {
		if s.Parent == parent {
			return true
		}
	}
	return false
}

func (c *Command) compile(label string) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("command %q: name is required", label)
	}
	for i := range c.Steps {
		if err := c.Steps[i].compile(); err != nil {
			return fmt.Errorf("command %s: step %d: %w", label, i+1, err)
		}
	}
	return nil
}

// Register adds the manifest's commands and subcommands to reg.
func (m *Manifest) Register(reg *registry.Registry) error {
	for _, c := range m.Commands {
		reg.RegisterCommand(c.Name, c.Help, c.Arguments, c.handler())
		for _, s := range c.Subcommands {
			reg.RegisterSubcommand(c.Name, s.Name, s.Help, s.Arguments, s.handler())
		}
	}
	for _, s := range m.Subcommands {
		reg.RegisterSubcommand(s.Parent, s.Name, s.Help, s.Arguments, s.handler())
	}
	return nil
}

// token is a compiled step token.
type token struct {
	splat string
	tmpl  *template.Template
}

func (s *Step) compile() error {
	var raw []string
	set := 0
	if len(s.Compose) > 0 {
		set++
		raw = s.Compose
	}
	if len(s.Run) > 0 {
		set++
		raw = s.Run
	}
	for _, v := range []string{s.RequireRunning, s.Print, s.Confirm} {
		if v != "" {
			set++
			raw = []string{v}
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of compose, run, require_running, print or confirm must be set")
	}
	if w := strings.TrimPrefix(s.When, "!"); s.When != "" && w == "" {
		return fmt.Errorf("when: argument name is required")
	}

	s.tokens = make([]token, 0, len(raw))
	for _, r := range raw {
		if name, ok := strings.CutPrefix(r, "..."); ok && name != "" && (len(s.Compose) > 0 || len(s.Run) > 0) {
			s.tokens = append(s.tokens, token{splat: name})
			continue
		}
		t, err := template.New("step").Funcs(funcs).Option("missingkey=error").Parse(r)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", r, err)
		}
		s.tokens = append(s.tokens, token{tmpl: t})
	}
	return nil
}

var funcs = template.FuncMap{
	"join":   strings.Join,
	"getenv": os.Getenv,
	"upper":  strings.ToUpper,
	"lower":  strings.ToLower,
}
