package cli

import (
	"fmt"
	"io"
	"os"
)

// Printer is where user-visible output of a CLI goes.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a [Printer] that writes to out, or STDERR if out is nil.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stderr
	}
	return &Printer{out: out}
}

func (p *Printer) Print(msg ...any) {
	_, _ = fmt.Fprint(p.out, msg...)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Println(msg ...any) {
	_, _ = fmt.Fprintln(p.out, msg...)
}
