package digit

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDigit is shown from allocation until the first write.
const DefaultDigit = 1

// StoreAck is what Attribute.Store reports for a handled request.
const StoreAck = 1

type options struct {
	clock   clockwork.Clock
	timeout time.Duration
	strict  bool
}

// Option tweaks a Controller or Device.
type Option func(*options)

// WithClock sets the clock used for assert timeouts.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithAssertTimeout bounds each Port.Assert call, zero means wait forever.
func WithAssertTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithStrictWrites makes sessions and attributes reject invalid digits with
// ErrInvalidDigit and a zero count, instead of reporting the input consumed.
func WithStrictWrites(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
