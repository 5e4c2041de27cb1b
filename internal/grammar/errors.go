package grammar

import "fmt"

// ConfigError reports a malformed command or argument specification.
type ConfigError struct {
	Command string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid specification for command %q: %v", e.Command, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UsageError reports invalid command-line input detected after flag parsing.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usagef(format string, a ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, a...)}
}

// HandlerError wraps an error returned by a command handler, separating it
// from parse errors reported by cobra.
type HandlerError struct {
	Err error
}

func (e *HandlerError) Error() string { return e.Err.Error() }

func (e *HandlerError) Unwrap() error { return e.Err }
