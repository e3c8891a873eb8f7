package digit

import (
	"fmt"

	"github.com/pkg/errors"

	"dscheirer.com/segd/segments"
)

var (
	// ErrInvalidDigit: the request was outside '0'-'9'. State is unchanged.
	ErrInvalidDigit = segments.ErrInvalidDigit
	// ErrHardwareFault matches every *HardwareFault.
	ErrHardwareFault = errors.New("hardware fault")
	// ErrResourceUnavailable: the device has been released (or is being released).
	ErrResourceUnavailable = errors.New("resource unavailable")
	// ErrSessionClosed is returned by a Session after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrAssertTimeout is wrapped by a HardwareFault when the port didn't answer in time.
	ErrAssertTimeout = errors.New("hardware assert timed out")
)

// HardwareFault reports a failed assert. The stored digit is not rolled back,
// so Digit is what the controller holds and the display may still show
// something else until the next successful assert (see Controller.Resync).
type HardwareFault struct {
	Digit int
	Err   error
}

func (f *HardwareFault) Error() string {
	return fmt.Sprintf("hardware fault asserting %d: %v", f.Digit, f.Err)
}

func (f *HardwareFault) Unwrap() error {
	return f.Err
}

func (f *HardwareFault) Is(target error) bool {
	return target == ErrHardwareFault
}
