package main

import "time"

// runResyncWatcher puts the stored digit back on the hardware every
// resync_interval (if set) and whenever a resync is requested.
func runResyncWatcher(rt runtimeConfig) {
	defer wg.Done()
	logger := &ThreadLogger{name: "Resync"}
	defer logger.Println("Exiting runResyncWatcher")

	interval := rt.settings.GetDuration(sResyncInterval)
	for {
		var tick <-chan time.Time
		if interval > 0 {
			tick = rt.clock.After(interval)
		}

		select {
		case <-rt.comms.quit:
			logger.Println("quit from runResyncWatcher")
			return
		case <-rt.comms.resync:
			resyncDisplay(rt, logger, "requested")
		case <-tick:
			resyncDisplay(rt, logger, "interval")
		}
	}
}

func resyncDisplay(rt runtimeConfig, logger flogger, why string) {
	ctl := rt.device.Controller()
	if err := ctl.Resync(); err != nil {
		logger.Printf("resync (%s) of %d failed: %v", why, ctl.Read(), err)
		return
	}
	logger.Printf("resync (%s): %d", why, ctl.Read())
}
