package main

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
)

// progressPrinter renders install progress, redrawing a single line on a
// terminal and writing one line per change otherwise.
type progressPrinter struct {
	w       io.Writer
	tty     bool
	last    int
	started bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	type fder interface {
		Fd() uintptr
	}
	tty := false
	if f, ok := w.(fder); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	return &progressPrinter{w: w, tty: tty}
}

func (p *progressPrinter) update(pct int) {
	if p.started && pct == p.last {
		return
	}
	if p.tty {
		fmt.Fprintf(p.w, "\r%3d%%", pct)
	} else {
		fmt.Fprintf(p.w, "%d%%\n", pct)
	}
	p.started = true
	p.last = pct
}

func (p *progressPrinter) done() {
	if p.tty && p.started {
		fmt.Fprintln(p.w)
	}
}
