package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio"

	"dscheirer.com/segd/segments"
)

// rpioSegments drives one GPIO pin per segment through /dev/gpiomem.
type rpioSegments struct {
	pins      []rpio.Pin
	activeLow bool
	dump      bool
	logger    flogger
}

func segmentPins(settings configSettings) ([]int, error) {
	pins, err := settings.GetIntList(sGPIOPins)
	if err != nil {
		return nil, err
	}
	// the decimal point is optional
	if len(pins) != 7 && len(pins) != 8 {
		return nil, fmt.Errorf("%s needs 7 or 8 pins, got %d", sGPIOPins, len(pins))
	}
	return pins, nil
}

func (rs *rpioSegments) OpenDriver(settings configSettings) error {
	nums, err := segmentPins(settings)
	if err != nil {
		return err
	}
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "rpio open")
	}

	rs.pins = make([]rpio.Pin, len(nums))
	for i, n := range nums {
		rs.pins[i] = rpio.Pin(n)
		rs.pins[i].Output()
	}
	rs.activeLow = settings.GetBool(sGPIOActiveLow)
	rs.dump = settings.GetBool(sDebug)
	rs.logger = &ThreadLogger{name: "rpio"}
	return nil
}

func (rs *rpioSegments) Name() string {
	return "rpio"
}

func (rs *rpioSegments) DebugDump(on bool) {
	rs.dump = on
}

func (rs *rpioSegments) Assert(p segments.Pattern) error {
	if rs.pins == nil {
		return errors.New("rpio: driver not open")
	}
	for i, pin := range rs.pins {
		// common anode displays light a segment on low
		if p.On(uint(i)) != rs.activeLow {
			pin.High()
		} else {
			pin.Low()
		}
	}
	if rs.dump {
		rs.logger.Printf("\n%s", p.Render())
	}
	return nil
}

func (rs *rpioSegments) Close() error {
	if rs.pins == nil {
		return nil
	}
	// leave the display dark
	for _, pin := range rs.pins {
		if rs.activeLow {
			pin.High()
		} else {
			pin.Low()
		}
	}
	rs.pins = nil
	return rpio.Close()
}
