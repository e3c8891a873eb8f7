package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// setting keys
const (
	sDriver         = "driver"
	sGPIOPins       = "gpio_pins"
	sGPIOActiveLow  = "gpio_active_low"
	sI2CBus         = "i2c_bus"
	sI2CDev         = "i2c_device"
	sI2CSim         = "i2c_simulated"
	sDigitPos       = "digit_position"
	sStreamAddr     = "stream_addr"
	sAttrAddr       = "attr_addr"
	sAttrUser       = "attr_user"
	sAttrSecret     = "attr_secret"
	sMaxSessions    = "max_sessions"
	sStrictWrites   = "strict_writes"
	sHWTimeout      = "hw_timeout"
	sResyncInterval = "resync_interval"
	sDebug          = "debug_dump"
	sLogFile        = "logFile"
)

// keep settings generic, type-convert on the fly
type configSettings struct {
	settings map[string]interface{}
}

func defaultSettings() configSettings {
	s := make(map[string]interface{})

	// setting the type here makes the conversion "automatic" later
	s[sDriver] = "log"
	s[sGPIOPins] = "17,27,22,5,6,13,19,26" // a-g, then the decimal point
	s[sGPIOActiveLow] = false
	s[sI2CBus] = 1
	s[sI2CDev] = byte(0x70)
	s[sDigitPos] = byte(0)
	s[sStreamAddr] = ":7070"
	s[sAttrAddr] = ":8080"
	s[sAttrUser] = "segd"
	s[sAttrSecret] = "" // no auth
	s[sMaxSessions] = 16
	s[sStrictWrites] = false
	s[sHWTimeout], _ = time.ParseDuration("250ms")
	s[sResyncInterval] = time.Duration(0)
	s[sDebug] = false
	s[sLogFile] = "/var/log/segd.log"

	on := true
	if runtime.GOARCH == "arm" {
		on = false
	}
	s[sI2CSim] = on

	return configSettings{settings: s}
}

func (s configSettings) settingsFromJSON(data []byte) error {
	tmp := defaultSettings()
	for k, initVal := range tmp.settings {
		// ignore missing fields
		if _, _, _, err := jsonparser.Get(data, k); err != nil {
			continue
		}

		var err error
		switch initVal.(type) {
		case uint8:
			var val int64
			val, err = jsonparser.GetInt(data, k)
			if err != nil {
				// "0x70" style
				var valString string
				valString, err = jsonparser.GetString(data, k)
				if err == nil {
					val, err = strconv.ParseInt(valString, 0, 64)
				}
			}
			if err == nil && (val < 0 || val > 0xff) {
				err = fmt.Errorf("%s out of range: %d", k, val)
			}
			if err == nil {
				s.settings[k] = byte(val)
			}
		case int:
			var val int64
			val, err = jsonparser.GetInt(data, k)
			if err == nil {
				s.settings[k] = int(val)
			}
		case bool:
			var bVal bool
			bVal, err = jsonparser.GetBoolean(data, k)
			if err != nil {
				// try "true" and "false"
				str, _ := jsonparser.GetString(data, k)
				switch strings.ToLower(str) {
				case "true":
					bVal, err = true, nil
				case "false":
					bVal, err = false, nil
				}
			}
			if err == nil {
				s.settings[k] = bVal
			}
		case time.Duration:
			var dur string
			dur, err = jsonparser.GetString(data, k)
			if err == nil {
				var dur2 time.Duration
				dur2, err = time.ParseDuration(dur)
				if err == nil {
					s.settings[k] = dur2
				}
			}
		case string:
			s.settings[k], err = jsonparser.GetString(data, k)
		default:
			err = fmt.Errorf("bad type: %T", initVal)
		}
		if err != nil {
			return errors.Wrapf(err, "setting %s", k)
		}
	}
	return nil
}

func initSettings(configFile string) (configSettings, error) {
	log.Println("initSettings")

	s := defaultSettings()

	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		return s, errors.Wrapf(err, "could not load conf file '%s'", configFile)
	}

	log.Printf("Reading configuration from '%s'", configFile)

	if err := s.settingsFromJSON(data); err != nil {
		return s, errors.Wrapf(err, "bad conf file '%s'", configFile)
	}
	return s, nil
}

func (s configSettings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s configSettings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s configSettings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s configSettings) GetByte(key string) byte {
	switch v := s.settings[key].(type) {
	case byte:
		return v
	case int: // cast to byte
		return byte(v)
	default:
		return 0
	}
}

func (s configSettings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case byte:
		return int(v)
	default:
		return 0
	}
}

// GetIntList splits a "1,2,3" setting.
func (s configSettings) GetIntList(key string) ([]int, error) {
	str := strings.TrimSpace(s.GetString(key))
	if str == "" {
		return nil, nil
	}
	parts := strings.Split(str, ",")
	ret := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "setting %s", key)
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func (s configSettings) set(key string, val interface{}) {
	s.settings[key] = val
}

func (s configSettings) Dump() {
	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.settings[k]
		if k == sAttrSecret && v != "" {
			v = "********"
		}
		log.Printf("%s : %T: %v\n", k, v, v)
	}
}
