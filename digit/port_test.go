package digit

import (
	"errors"
	"sync"

	"dscheirer.com/segd/segments"
)

// auditPort records every assert, and can fail or stall on demand.
type auditPort struct {
	mu    sync.Mutex
	audit []segments.Pattern
	fails int
	hold  chan struct{}
	// told when an assert starts waiting on hold
	entered chan struct{}
	closed  bool
	// asserts currently running, and whether Close ever saw one
	inAssert int
	overlap  bool
}

var errBus = errors.New("bus error")

func (p *auditPort) Assert(pat segments.Pattern) error {
	p.mu.Lock()
	hold, entered := p.hold, p.entered
	p.inAssert++
	p.mu.Unlock()
	if hold != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-hold
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inAssert--
	if p.fails > 0 {
		p.fails--
		return errBus
	}
	p.audit = append(p.audit, pat)
	return nil
}

func (p *auditPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.inAssert > 0 {
		p.overlap = true
	}
	return nil
}

func (p *auditPort) setFails(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fails = n
}

func (p *auditPort) setHold(hold, entered chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hold = hold
	p.entered = entered
}

func (p *auditPort) calls() []segments.Pattern {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]segments.Pattern(nil), p.audit...)
}

func (p *auditPort) last() segments.Pattern {
	c := p.calls()
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

func pattern(d int) segments.Pattern {
	p, _ := segments.Encode(d)
	return p
}

func (p *auditPort) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *auditPort) overlapped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overlap
}
