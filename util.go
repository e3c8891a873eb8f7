// utility functions
package main

import (
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"dscheirer.com/segd/digit"
)

type commChannels struct {
	quit   chan struct{}
	resync chan struct{}
}

type runtimeConfig struct {
	settings    configSettings
	clock       clockwork.Clock
	comms       commChannels
	driver      segmentDriver
	device      *digit.Device
	attrService attrService
	logger      flogger
}

func initCommChannels() commChannels {
	return commChannels{
		quit:   make(chan struct{}),
		resync: make(chan struct{}, 1),
	}
}

// initRuntime allocates the display on an already opened driver. Both
// transports get the device through the returned runtimeConfig.
func initRuntime(settings configSettings, clock clockwork.Clock, driver segmentDriver, svc attrService) (runtimeConfig, error) {
	dev, err := digit.Allocate(driver,
		digit.WithClock(clock),
		digit.WithAssertTimeout(settings.GetDuration(sHWTimeout)),
		digit.WithStrictWrites(settings.GetBool(sStrictWrites)))
	if err != nil {
		return runtimeConfig{}, errors.Wrapf(err, "allocate display on %s", driver.Name())
	}

	return runtimeConfig{
		settings:    settings,
		clock:       clock,
		comms:       initCommChannels(),
		driver:      driver,
		device:      dev,
		attrService: svc,
		logger:      &ThreadLogger{name: "Main"},
	}, nil
}

// requestResync pokes the resync watcher without blocking; one pending
// request is as good as many.
func requestResync(comms commChannels) {
	select {
	case comms.resync <- struct{}{}:
	default:
	}
}
