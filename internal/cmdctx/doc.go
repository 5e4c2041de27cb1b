// Package cmdctx provides the execution context handed to every command
// handler.
//
// A [Context] binds the project's compose configuration, the selected
// environment, the project root and the parsed command-line [Args]. Its
// methods build the docker compose invocation (including the -f flags for
// the environment) and run it in the project root. The best-effort queries
// [Context.IsServiceActive] and [Context.ActiveServices] never fail; any
// error from the underlying query is reported as "not running".
//
// Handlers stop early by returning [Exit] or [Fatalf].
package cmdctx
