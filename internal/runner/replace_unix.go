//go:build unix

package runner

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Replace implements Runner by replacing the current process image with c.
// It never returns on success.
func (r *OS) Replace(c Cmd) error {
	path, err := exec.LookPath(c.Name)
	if err != nil {
		return fmt.Errorf("command not found: %s: %w", c.Name, err)
	}
	if c.Dir != "" {
		if err := os.Chdir(c.Dir); err != nil {
			return fmt.Errorf("changing directory to %s: %w", c.Dir, err)
		}
	}
	if err := unix.Exec(path, c.Argv(), os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", c.Name, err)
	}
	return nil
}
