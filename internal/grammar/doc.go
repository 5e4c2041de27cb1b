// Package grammar builds the command-line grammar from the built-in
// commands and the extension registry, on top of cobra.
//
// Built-in entries are placed first and registry commands second, so a
// registry command with a built-in's name replaces the built-in entirely.
// Commands that have registered subcommands require one: invoking the parent
// alone is a usage error. Declarative [registry.Arg] specifications become
// pflag flags or positional arguments; malformed specifications are reported
// as a [*ConfigError] by [Build], before anything is parsed.
//
// The global --env/-e flag is resolved through viper: an explicit flag wins,
// then the configured environment variable, then the project's default
// environment.
package grammar
