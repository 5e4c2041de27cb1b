package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompt asks yes/no questions on a pair of streams.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// Confirm implements cmdctx.Prompter.
func (p Prompt) Confirm(prompt string) bool {
	return Confirm(p.In, p.Out, prompt)
}

// Confirm prints prompt followed by " [y/N]: " and reads one line from in.
// Only "y" and "yes" (any case) confirm; end of input declines.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
