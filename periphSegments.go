package main

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"dscheirer.com/segd/segments"
)

// periphSegments is the same wiring as rpioSegments, through periph.io, for
// boards go-rpio doesn't know.
type periphSegments struct {
	pins      []gpio.PinIO
	activeLow bool
	dump      bool
	logger    flogger
}

func (ps *periphSegments) OpenDriver(settings configSettings) error {
	nums, err := segmentPins(settings)
	if err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "periph host init")
	}

	ps.pins = make([]gpio.PinIO, len(nums))
	for i, n := range nums {
		name := fmt.Sprintf("GPIO%d", n)
		pin := gpioreg.ByName(name)
		if pin == nil {
			return fmt.Errorf("periph: no pin %s", name)
		}
		ps.pins[i] = pin
	}
	ps.activeLow = settings.GetBool(sGPIOActiveLow)
	ps.dump = settings.GetBool(sDebug)
	ps.logger = &ThreadLogger{name: "periph"}
	return nil
}

func (ps *periphSegments) Name() string {
	return "periph"
}

func (ps *periphSegments) DebugDump(on bool) {
	ps.dump = on
}

func (ps *periphSegments) Assert(p segments.Pattern) error {
	if ps.pins == nil {
		return errors.New("periph: driver not open")
	}
	var err error
	for i, pin := range ps.pins {
		level := gpio.Level(p.On(uint(i)) != ps.activeLow)
		err = multierr.Append(err, errors.Wrapf(pin.Out(level), "segment %d", i))
	}
	if ps.dump {
		ps.logger.Printf("\n%s", p.Render())
	}
	return err
}

func (ps *periphSegments) Close() error {
	if ps.pins == nil {
		return nil
	}
	var err error
	for _, pin := range ps.pins {
		err = multierr.Append(err, pin.Out(gpio.Level(ps.activeLow)))
	}
	ps.pins = nil
	return err
}
