package project

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultComposeFile is the base compose file used when none is configured.
	DefaultComposeFile = "docker-compose.yml"
	// DefaultEnv is the environment used when none is configured.
	DefaultEnv = "dev"
	// EnvPlaceholder is substituted with the environment name in EnvComposePattern.
	EnvPlaceholder = "{env}"
)

// Config is the static description of a project's compose layout.
type Config struct {
	Name              string   `yaml:"name"`
	ComposeFiles      []string `yaml:"compose_files"`
	DefaultEnv        string   `yaml:"default_env"`
	EnvComposePattern string   `yaml:"env_compose_pattern"`
}

// New returns a Config for name with all defaults applied.
func New(name string) Config {
	return Config{Name: name}.WithDefaults()
}

// WithDefaults returns a copy of c with empty fields defaulted. The returned
// ComposeFiles slice is never empty and never aliases c's.
func (c Config) WithDefaults() Config {
	if len(c.ComposeFiles) == 0 {
		c.ComposeFiles = []string{DefaultComposeFile}
	} else {
		c.ComposeFiles = append([]string(nil), c.ComposeFiles...)
	}
	if c.DefaultEnv == "" {
		c.DefaultEnv = DefaultEnv
	}
	return c
}

// Validate reports whether c can be used to run commands.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("project config: name is required")
	}
	for i, f := range c.ComposeFiles {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("project config: compose_files[%d] is empty", i)
		}
	}
	return nil
}

// ResolveComposeFiles returns the base compose files followed by the
// environment-specific file when EnvComposePattern is set. Later files
// override earlier ones, so the order is significant.
func (c Config) ResolveComposeFiles(env string) []string {
	files := append([]string(nil), c.ComposeFiles...)
	if len(files) == 0 {
		files = []string{DefaultComposeFile}
	}
	if c.EnvComposePattern != "" {
		files = append(files, strings.ReplaceAll(c.EnvComposePattern, EnvPlaceholder, env))
	}
	return files
}

// BaseCount returns how many leading entries of ResolveComposeFiles are
// unconditional base files.
func (c Config) BaseCount() int {
	if len(c.ComposeFiles) == 0 {
		return 1
	}
	return len(c.ComposeFiles)
}

// Locate returns the project root for an executable at scriptPath. When the
// executable lives in a directory named scriptsDir, the root is its parent.
func Locate(scriptPath, scriptsDir string) string {
	dir := filepath.Dir(filepath.Clean(scriptPath))
	if scriptsDir != "" && filepath.Base(dir) == scriptsDir {
		dir = filepath.Dir(dir)
	}
	return dir
}
