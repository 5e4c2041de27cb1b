// Package cli is the entry point of the manage binary.
//
// [App.Run] drives one invocation through fixed stages: locate the project
// root, check that docker and docker compose work, load project extensions,
// build and parse the command line, and run the selected handler from the
// project root. Each stage must succeed before the next one starts. The
// outcome is mapped to a process exit code.
package cli
