// Package registry holds the commands and subcommands contributed by project
// extensions. Registrations happen before the command-line grammar is built
// and are never removed. Registering a name that already exists in the same
// scope replaces the earlier entry but keeps its original position.
package registry
