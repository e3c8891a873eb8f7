package main

import (
	"errors"
	"sync"

	"dscheirer.com/segd/segments"
)

var errSimulatedFault = errors.New("simulated segment fault")

// logSegments is the no-hardware driver: it logs what would be shown and
// keeps an audit of every assert.
type logSegments struct {
	mu        sync.Mutex
	debugDump bool
	current   segments.Pattern
	audit     []segments.Pattern
	fails     int
	closed    bool
	logger    flogger
}

func (ls *logSegments) OpenDriver(settings configSettings) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.debugDump = settings.GetBool(sDebug)
	ls.current = 0
	ls.audit = []segments.Pattern{}
	ls.closed = false
	ls.logger = &ThreadLogger{name: "Segments"}
	return nil
}

func (ls *logSegments) Name() string {
	return "log"
}

func (ls *logSegments) DebugDump(on bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.debugDump = on
}

func (ls *logSegments) Assert(p segments.Pattern) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.fails > 0 {
		ls.fails--
		return errSimulatedFault
	}
	if p != ls.current && ls.logger != nil {
		ls.logger.Printf("segments %s", p)
	}
	if ls.debugDump && ls.logger != nil {
		ls.logger.Printf("\n%s", p.Render())
	}
	ls.current = p
	ls.audit = append(ls.audit, p)
	return nil
}

func (ls *logSegments) Close() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.closed = true
	return nil
}

// setFails makes the next n asserts fail.
func (ls *logSegments) setFails(n int) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.fails = n
}

func (ls *logSegments) getAudit() []segments.Pattern {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return append([]segments.Pattern(nil), ls.audit...)
}
