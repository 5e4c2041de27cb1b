// Package config loads the tool's own settings from multiple sources.
//
// Precedence (highest to lowest):
//  1. Overrides passed to [Load] (global command-line flags)
//  2. Environment variables (MANAGE_DOCKER_BINARY, MANAGE_LOG_LEVEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/manage/config.yaml)
//  4. Built-in defaults
//
// These settings belong to the tool, not to a project. Project layout comes
// from the project's manifest; see package extension.
package config
