package main

import "fmt"

func newSegmentDriver(name string) (segmentDriver, error) {
	switch name {
	case "log", "":
		return &logSegments{}, nil
	case "rpio":
		return &rpioSegments{}, nil
	case "periph":
		return &periphSegments{}, nil
	case "backpack":
		return &backpackSegments{}, nil
	case "term":
		return &termSegments{}, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", name)
	}
}

// openSegmentDriver picks the driver named in the settings and opens it.
func openSegmentDriver(settings configSettings) (segmentDriver, error) {
	driver, err := newSegmentDriver(settings.GetString(sDriver))
	if err != nil {
		return nil, err
	}
	if err := driver.OpenDriver(settings); err != nil {
		return nil, err
	}
	return driver, nil
}
