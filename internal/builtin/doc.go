// Package builtin provides the lifecycle commands every project gets:
// build, rebuild, up, down, restart, status, logs, shell, clean, stats and
// version. Extensions may replace any of them by registering a command with
// the same name.
package builtin
