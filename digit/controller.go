// Package digit owns the digit shown on a single seven-segment display.
//
// A Controller holds the value and drives it onto a Port. A Device wraps the
// Controller with its lifetime: byte-stream Sessions and the named Attribute
// are both handed out by the Device and share its one Controller.
package digit

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"dscheirer.com/segd/segments"
)

// Port puts a segment pattern on the physical display.
type Port interface {
	Assert(p segments.Pattern) error
}

// Controller serializes writes to the digit and the hardware behind it.
type Controller struct {
	// mu covers store+assert, readers go through digit only
	mu    sync.Mutex
	digit atomic.Int32
	dead  atomic.Bool

	port    Port
	clock   clockwork.Clock
	timeout time.Duration
	// an assert we gave up on, still running
	pending chan struct{}
}

// NewController starts at DefaultDigit without touching the hardware.
func NewController(port Port, opts ...Option) *Controller {
	o := buildOptions(opts)
	c := &Controller{
		port:    port,
		clock:   o.clock,
		timeout: o.timeout,
	}
	c.digit.Store(DefaultDigit)
	return c
}

// Read returns the stored digit.
func (c *Controller) Read() int {
	return int(c.digit.Load())
}

// Write decodes an ASCII digit and applies it. An invalid byte leaves
// everything untouched and never reaches the Port.
func (c *Controller) Write(ch byte) (int, error) {
	d, err := segments.Decode(ch)
	if err != nil {
		return 0, err
	}
	if err := c.WriteDigit(d); err != nil {
		return d, err
	}
	return d, nil
}

// WriteDigit stores d and asserts its pattern, as one step with respect to
// other writers. On a HardwareFault the new digit stays stored.
func (c *Controller) WriteDigit(d int) error {
	p, err := segments.Encode(d)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead.Load() {
		return ErrResourceUnavailable
	}
	c.digit.Store(int32(d))
	return c.assert(d, p)
}

// Resync drives the stored digit onto the hardware again, to recover after a
// HardwareFault left the display behind.
func (c *Controller) Resync() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead.Load() {
		return ErrResourceUnavailable
	}
	d := c.Read()
	p, _ := segments.Encode(d)
	return c.assert(d, p)
}

// Pattern is the pattern for the stored digit.
func (c *Controller) Pattern() segments.Pattern {
	p, _ := segments.Encode(c.Read())
	return p
}

// shutdown waits out any writer in progress and any abandoned assert still
// on the port, then refuses further writes. It reports false if the
// controller was already retired. If ctx ends while an abandoned assert is
// still running the controller stays live.
func (c *Controller) shutdown(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		select {
		case <-c.pending:
			c.pending = nil
		case <-ctx.Done():
			return false, errors.Wrap(ctx.Err(), "abandoned assert still running")
		}
	}
	return !c.dead.Swap(true), nil
}

func (c *Controller) released() bool {
	return c.dead.Load()
}

// assert must be called with mu held.
func (c *Controller) assert(d int, p segments.Pattern) error {
	if c.timeout <= 0 {
		if err := c.port.Assert(p); err != nil {
			return &HardwareFault{Digit: d, Err: err}
		}
		return nil
	}

	deadline := c.clock.After(c.timeout)

	// never let two asserts overlap on the wire
	if c.pending != nil {
		select {
		case <-c.pending:
			c.pending = nil
		case <-deadline:
			return &HardwareFault{Digit: d, Err: ErrAssertTimeout}
		}
	}

	result := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result <- c.port.Assert(p)
	}()

	select {
	case err := <-result:
		if err != nil {
			return &HardwareFault{Digit: d, Err: err}
		}
		return nil
	case <-deadline:
		c.pending = finished
		return &HardwareFault{Digit: d, Err: ErrAssertTimeout}
	}
}
