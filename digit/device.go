package digit

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Device is one allocated display: its Controller plus the bookkeeping that
// lets Release wait for open sessions.
type Device struct {
	ctl    *Controller
	port   Port
	strict bool

	mu       sync.Mutex
	sessions map[string]*Session
	closing  bool
	// closed when closing and the last session detaches
	drained chan struct{}
	done    bool
}

// Allocate builds the Device, puts DefaultDigit on the display, and only
// then returns it, so no transport can see the device before the hardware
// agrees with it.
func Allocate(port Port, opts ...Option) (*Device, error) {
	if port == nil {
		return nil, errors.New("digit: nil port")
	}
	o := buildOptions(opts)
	d := &Device{
		ctl:      NewController(port, opts...),
		port:     port,
		strict:   o.strict,
		sessions: make(map[string]*Session),
		drained:  make(chan struct{}),
	}
	if err := d.ctl.Resync(); err != nil {
		return nil, errors.Wrap(err, "assert default digit")
	}
	return d, nil
}

// Controller is shared by every session and the attribute.
func (d *Device) Controller() *Controller {
	return d.ctl
}

// Open binds a new byte-stream session.
func (d *Device) Open() (*Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closing {
		return nil, ErrResourceUnavailable
	}
	s := &Session{id: uuid.New().String(), dev: d}
	d.sessions[s.id] = s
	return s, nil
}

// Attribute returns the named show/store view of the device.
func (d *Device) Attribute() *Attribute {
	return &Attribute{dev: d}
}

// Sessions is the number of sessions currently open.
func (d *Device) Sessions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

// Released reports whether Release has started.
func (d *Device) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closing
}

func (d *Device) detach(s *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.sessions, s.id)
	if d.closing && len(d.sessions) == 0 && !d.done {
		d.done = true
		close(d.drained)
	}
}

// Release stops new sessions, waits for the open ones to close and for any
// timed out assert to come back, then retires the controller and closes the
// port if it is an io.Closer.
//
// If ctx ends first the device stays in the closing state and Release may be
// called again.
func (d *Device) Release(ctx context.Context) error {
	d.mu.Lock()
	d.closing = true
	if len(d.sessions) == 0 && !d.done {
		d.done = true
		close(d.drained)
	}
	open := len(d.sessions)
	d.mu.Unlock()

	select {
	case <-d.drained:
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "release: %d sessions still open", open)
	}

	retired, err := d.ctl.shutdown(ctx)
	if err != nil {
		return err
	}
	if !retired {
		return nil
	}

	if c, ok := d.port.(io.Closer); ok {
		err = multierr.Append(err, errors.Wrap(c.Close(), "close port"))
	}
	return err
}
