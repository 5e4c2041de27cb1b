// Package project describes a compose project: which compose files make up
// its base configuration, which environment is used by default, and how the
// per-environment override file is named.
//
// [Config.ResolveComposeFiles] returns the files in the order the
// orchestration tool must apply them. [Locate] derives the project root from
// the location of the running executable.
package project
