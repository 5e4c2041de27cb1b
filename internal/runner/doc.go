// Package runner executes external programs on behalf of command handlers.
//
// [Runner.Run] performs one blocking invocation, either streaming the
// child's output to the terminal or capturing it. A non-zero exit status is
// reported in [Result.Code], not as an error; callers decide whether it is
// fatal and wrap it in an [ExitError]. [Runner.Replace] hands the terminal to
// another program by replacing the current process image where the platform
// allows it.
package runner
