// Package preflight verifies that the container runtime and its compose
// plugin are usable before any command line is parsed.
package preflight
