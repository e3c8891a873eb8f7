package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type flogger interface {
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// ThreadLogger tags every line with the goroutine loop it came from.
type ThreadLogger struct {
	name string
}

func (tl *ThreadLogger) Printf(format string, args ...interface{}) {
	log.Printf("[%s] %s", tl.name, fmt.Sprintf(format, args...))
}

func (tl *ThreadLogger) Println(args ...interface{}) {
	log.Printf("[%s] %s", tl.name, fmt.Sprintln(args...))
}

// setupLogging sends the log to a rotating file, and to stdout as well when
// asked. The caller closes the returned logger on exit.
func setupLogging(settings configSettings, stdout bool) *lumberjack.Logger {
	lj := &lumberjack.Logger{
		Filename:   settings.GetString(sLogFile),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	var out io.Writer = lj
	if stdout {
		out = io.MultiWriter(os.Stdout, lj)
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return lj
}
