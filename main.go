package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
)

var wg sync.WaitGroup

// how long teardown waits for stream sessions to close
const releaseTimeout = 5 * time.Second

// segd -config={config file}

func startServices(rt runtimeConfig) (*streamServer, error) {
	stream := newStreamServer(rt)
	if err := stream.launch(rt.settings.GetString(sStreamAddr), rt.settings.GetInt(sMaxSessions)); err != nil {
		return nil, err
	}

	// stream, attr, resync
	wg.Add(3)
	go runStreamService(rt, stream)
	go runAttrService(rt)
	go runResyncWatcher(rt)
	return stream, nil
}

// shutdown stops the services first, so their sessions are gone before the
// display is released.
func shutdown(rt runtimeConfig) error {
	close(rt.comms.quit)
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	return rt.device.Release(ctx)
}

func main() {
	configFile := flag.String("config", "/etc/default/segd/segd.conf", "config file path")
	flag.Parse()

	settings, err := initSettings(*configFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	logger := setupLogging(settings, true)
	defer logger.Close()

	log.Println(">>> Settings <<<")
	settings.Dump()

	driver, err := openSegmentDriver(settings)
	if err != nil {
		log.Fatalf("Could not open %s driver: %v", settings.GetString(sDriver), err)
	}

	rt, err := initRuntime(settings, clockwork.NewRealClock(), driver, &httpAttrService{})
	if err != nil {
		driver.Close()
		log.Fatal(err.Error())
	}

	if _, err := startServices(rt); err != nil {
		rt.device.Release(context.Background())
		log.Fatal(err.Error())
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigs {
		if sig == syscall.SIGHUP {
			requestResync(rt.comms)
			continue
		}
		rt.logger.Printf("Got %v, shutting down", sig)
		break
	}

	if err := shutdown(rt); err != nil {
		rt.logger.Printf("release: %v", err)
	}
	rt.logger.Println("done")
}
