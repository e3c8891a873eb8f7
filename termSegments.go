package main

import (
	"strings"
	"sync"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"

	"dscheirer.com/segd/segments"
)

// termSegments draws the display in the terminal, for running without a Pi.
type termSegments struct {
	mu   sync.Mutex
	open bool
}

func (ts *termSegments) OpenDriver(settings configSettings) error {
	if err := termbox.Init(); err != nil {
		return errors.Wrap(err, "termbox init")
	}
	ts.open = true
	return nil
}

func (ts *termSegments) Name() string {
	return "term"
}

// DebugDump is a no-op, the terminal is the dump.
func (ts *termSegments) DebugDump(on bool) {}

func (ts *termSegments) Assert(p segments.Pattern) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !ts.open {
		return errors.New("term: driver not open")
	}
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	for y, line := range strings.Split(p.Render(), "\n") {
		for x, ch := range line {
			termbox.SetCell(2+x, 1+y, ch, termbox.ColorRed|termbox.AttrBold, termbox.ColorDefault)
		}
	}
	return termbox.Flush()
}

func (ts *termSegments) Close() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.open {
		termbox.Close()
		ts.open = false
	}
	return nil
}
