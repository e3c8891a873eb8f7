package main

import (
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/assert"
)

func TestSetupLogging(t *testing.T) {
	defer log.SetOutput(ioutil.Discard)

	settings := testSettings()
	path := filepath.Join(t.TempDir(), "segd.log")
	settings.set(sLogFile, path)

	lj := setupLogging(settings, false)
	tl := &ThreadLogger{name: "Test"}
	tl.Printf("digit %d", 7)
	tl.Println("bye")
	assert.NilError(t, lj.Close())

	data, err := ioutil.ReadFile(path)
	assert.NilError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, len(lines), 2)
	assert.Assert(t, strings.HasSuffix(lines[0], "[Test] digit 7"))
	assert.Assert(t, strings.HasSuffix(lines[1], "[Test] bye"))
}
