package digit

import (
	"sync"

	"github.com/pkg/errors"

	"dscheirer.com/segd/segments"
)

// Session is one open/close cycle on the byte-stream side. It reads as an
// endless run of the current digit and writes by its first byte.
type Session struct {
	id  string
	dev *Device

	mu     sync.Mutex
	closed bool
}

// ID identifies the session in logs and status output.
func (s *Session) ID() string {
	return s.id
}

// Read fills p with the ASCII digit.
func (s *Session) Read(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrSessionClosed
	}
	ch := segments.Char(s.dev.ctl.Read())
	for i := range p {
		p[i] = ch
	}
	return len(p), nil
}

// Write applies p[0]; a one digit display ignores the rest of the buffer.
//
// An invalid digit still reports the whole buffer consumed unless the device
// was allocated WithStrictWrites. On a HardwareFault the digit was stored, so
// the buffer counts as consumed and the fault is returned alongside.
func (s *Session) Write(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrSessionClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	_, err := s.dev.ctl.Write(p[0])
	switch {
	case err == nil:
		return len(p), nil
	case errors.Is(err, ErrInvalidDigit):
		if s.dev.strict {
			return 0, err
		}
		return len(p), nil
	case errors.Is(err, ErrHardwareFault):
		return len(p), err
	default:
		return 0, err
	}
}

// Close detaches the session; closing twice is fine.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.dev.detach(s)
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
