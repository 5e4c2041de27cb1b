//go:build !unix

package runner

import "context"

// Replace implements Runner on platforms without process replacement: the
// child inherits the standard streams and its exit status is returned as an
// *ExitError.
func (r *OS) Replace(c Cmd) error {
	res, err := r.Run(context.Background(), c)
	if err != nil {
		return err
	}
	if res.Code != 0 {
		return &ExitError{Cmd: c.String(), Code: res.Code}
	}
	return nil
}
