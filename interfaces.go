package main

import "dscheirer.com/segd/digit"

// segmentDriver is a digit.Port that can be set up from the settings.
type segmentDriver interface {
	digit.Port
	OpenDriver(settings configSettings) error
	DebugDump(on bool)
	Name() string
	Close() error
}

type attrService interface {
	launch(handler *attrHandler, addr string)
	stop()
}
