package cmdctx

import "fmt"

// ExitCode stops the current command and ends the process with Code. A
// non-empty Message is printed as an error first.
type ExitCode struct {
	Code    int
	Message string
}

func (e *ExitCode) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exit returns an early-exit error with code.
func Exit(code int) error {
	return &ExitCode{Code: code}
}

// Fatalf returns an early-exit error with code 1 and a formatted message.
func Fatalf(format string, a ...any) error {
	return &ExitCode{Code: 1, Message: fmt.Sprintf(format, a...)}
}
