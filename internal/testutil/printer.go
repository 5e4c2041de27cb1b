package testutil

import "fmt"

// Printer records status lines.
type Printer struct {
	Lines []string
}

func (p *Printer) Status(msg string)  { p.add("INFO", msg) }
func (p *Printer) Success(msg string) { p.add("SUCCESS", msg) }
func (p *Printer) Warning(msg string) { p.add("WARNING", msg) }
func (p *Printer) Error(msg string)   { p.add("ERROR", msg) }
func (p *Printer) Println(msg string) { p.Lines = append(p.Lines, msg) }

func (p *Printer) add(tag, msg string) {
	p.Lines = append(p.Lines, fmt.Sprintf("[%s] %s", tag, msg))
}

// Answer is a prompter that always gives the same answer and counts calls.
type Answer struct {
	Yes   bool
	Asked []string
}

// Confirm implements cmdctx.Prompter.
func (a *Answer) Confirm(prompt string) bool {
	a.Asked = append(a.Asked, prompt)
	return a.Yes
}
