package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MANAGE"

// Config represents the tool settings.
type Config struct {
	// DockerBinary is the container runtime CLI.
	DockerBinary string `mapstructure:"docker_binary"`
	// ComposeSubcommand selects compose operations on DockerBinary.
	ComposeSubcommand string `mapstructure:"compose_subcommand"`
	// PluginsFile is the manifest file name in the project root.
	PluginsFile string `mapstructure:"plugins_file"`
	// EnvironmentVar overrides the project's default environment.
	EnvironmentVar string `mapstructure:"environment_var"`
	// ScriptsDir is the directory name that is skipped when locating the
	// project root from the executable.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ProjectDir, when set, is used as the project root as is.
	ProjectDir string `mapstructure:"project_dir"`
	LogLevel   string `mapstructure:"log_level"`
	NoColor    bool   `mapstructure:"no_color"`
	Redact     bool   `mapstructure:"redact"`
	Debug      bool   `mapstructure:"debug"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		DockerBinary:      "docker",
		ComposeSubcommand: "compose",
		PluginsFile:       "manage_plugins.yaml",
		EnvironmentVar:    "ENVIRONMENT",
		ScriptsDir:        "scripts",
		LogLevel:          "warn",
		Redact:            true,
	}
}

// ConfigDir returns the platform-appropriate config directory for manage.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "manage"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "manage"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "manage"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "manage"), nil
	default:
		return filepath.Join(home, ".config", "manage"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only explicitly set values should be present).
// Without a resolvable config directory there is no file layer.
func Load(overrides map[string]any) (Config, error) {
	path, _ := ConfigPath()
	return load(path, overrides)
}

func load(path string, overrides map[string]any) (Config, error) {
	v := newViper()

	if err := readFile(v, path); err != nil {
		return Config{}, err
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// newViper returns a viper instance with the defaults and environment
// bindings registered.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("docker_binary", d.DockerBinary)
	v.SetDefault("compose_subcommand", d.ComposeSubcommand)
	v.SetDefault("plugins_file", d.PluginsFile)
	v.SetDefault("environment_var", d.EnvironmentVar)
	v.SetDefault("scripts_dir", d.ScriptsDir)
	v.SetDefault("project_dir", d.ProjectDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("redact", d.Redact)
	v.SetDefault("debug", d.Debug)
	return v
}

// readFile merges the settings file at path into v. An empty path or a
// missing file leaves v unchanged.
func readFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}
