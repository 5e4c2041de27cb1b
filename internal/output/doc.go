// Package output writes the user-facing status lines of the tool and asks
// for confirmation before destructive operations.
//
// Status and success lines go to stdout; warnings and errors go to stderr.
// Each line starts with a coloured tag such as [INFO] or [ERROR]. Colour is
// disabled when the writer is not a terminal or when NoColor is set.
package output
