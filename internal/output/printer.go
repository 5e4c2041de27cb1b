package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes tagged status lines.
type Printer struct {
	Out io.Writer
	Err io.Writer

	info    *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// New returns a Printer writing to out and errOut. Colour is used only when
// noColor is false and color's own terminal detection allows it.
func New(out, errOut io.Writer, noColor bool) *Printer {
	p := &Printer{
		Out:     out,
		Err:     errOut,
		info:    color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	if noColor {
		p.DisableColor()
	}
	return p
}

// DisableColor turns off colouring of the tags.
func (p *Printer) DisableColor() {
	for _, c := range []*color.Color{p.info, p.success, p.warning, p.failure} {
		c.DisableColor()
	}
}

// Status prints an informational line.
func (p *Printer) Status(msg string) { p.line(p.Out, p.info, "[INFO]", msg) }

// Success prints a success line.
func (p *Printer) Success(msg string) { p.line(p.Out, p.success, "[SUCCESS]", msg) }

// Warning prints a warning to the error stream.
func (p *Printer) Warning(msg string) { p.line(p.Err, p.warning, "[WARNING]", msg) }

// Error prints an error to the error stream.
func (p *Printer) Error(msg string) { p.line(p.Err, p.failure, "[ERROR]", msg) }

// Println prints msg without a tag.
func (p *Printer) Println(msg string) { fmt.Fprintln(p.Out, msg) }

func (p *Printer) line(w io.Writer, c *color.Color, tag, msg string) {
	fmt.Fprintf(w, "%s %s\n", c.Sprint(tag), msg)
}
