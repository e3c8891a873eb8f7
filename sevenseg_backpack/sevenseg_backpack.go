package sevenseg_backpack

import (
	"fmt"
	"log"

	"dscheirer.com/segd/i2c"
	"dscheirer.com/segd/segments"
)

// commands we support
// OSC on/off 0/1
const i2c_OSC_ON = 0x21
const i2c_OSC_OFF = 0x20

// display on/off, blink stays off
const i2cDISPLAY_ON = 0x81
const i2cDISPLAY_OFF = 0x80

// brightness is fixed at max
const i2cBRIGHTNESS_MAX = 0xEF

// MaxPosition is the last digit position on the backpack (0-3, colon excluded).
const MaxPosition = 3

// one address byte, plus 7-seg skips bytes for each display element
const displaySize = 1 + 5*2

// Sevenseg drives a single digit position of an HT16K33 backpack; every
// other position stays dark.
type Sevenseg struct {
	i2cDev         *i2c.I2C
	display        [displaySize]uint8
	currentDisplay [displaySize]uint8
	written        bool
	dump           bool
}

func Open(address uint8, bus int, simulated bool) (*Sevenseg, error) {
	i2cDev, err := i2c.Open(address, bus, simulated)
	if err != nil {
		return nil, err
	}
	return newSevenseg(i2cDev)
}

func newSevenseg(i2cDev *i2c.I2C) (*Sevenseg, error) {
	ss := &Sevenseg{i2cDev: i2cDev}
	// turn on the oscillator, set brightness
	if err := ss.i2cDev.WriteByte(i2c_OSC_ON); err != nil {
		return nil, err
	}
	if err := ss.i2cDev.WriteByte(i2cBRIGHTNESS_MAX); err != nil {
		return nil, err
	}
	// you still need to call DisplayOn(true) to turn on the display
	return ss, nil
}

func (ss *Sevenseg) DebugDump(on bool) {
	ss.dump = on
}

func (ss *Sevenseg) DisplayOn(on bool) error {
	var val byte = i2cDISPLAY_ON
	if !on {
		val = i2cDISPLAY_OFF
	}
	return ss.i2cDev.WriteByte(val)
}

func getDisplayPos(digit byte) byte {
	// add one for the colon at position '2'
	if digit > 1 {
		digit++
	}
	return 1 + digit*2
}

// SetPattern lights mask at position and clears everything else.
func (ss *Sevenseg) SetPattern(position byte, mask byte) error {
	if position > MaxPosition {
		return fmt.Errorf("bad position: %d", position)
	}
	var display [displaySize]uint8
	display[getDisplayPos(position)] = mask
	ss.display = display
	return ss.refreshDisplay()
}

func (ss *Sevenseg) refreshDisplay() error {
	// refreshing on the same thing?
	if ss.written && ss.currentDisplay == ss.display {
		return nil
	}

	// display has the address 0 embedded in it
	if ss.dump {
		for pos := byte(0); pos <= MaxPosition; pos++ {
			if m := ss.display[getDisplayPos(pos)]; m != 0 {
				log.Printf("backpack %d:\n%s", pos, segments.Pattern(m).Render())
			}
		}
	}

	if _, err := ss.i2cDev.Write(ss.display[:]); err != nil {
		// force a rewrite next time
		ss.written = false
		return err
	}
	ss.currentDisplay = ss.display
	ss.written = true
	return nil
}

// Close blanks the display and releases the bus.
func (ss *Sevenseg) Close() error {
	offErr := ss.DisplayOn(false)
	oscErr := ss.i2cDev.WriteByte(i2c_OSC_OFF)
	if err := ss.i2cDev.Close(); err != nil {
		return err
	}
	if offErr != nil {
		return offErr
	}
	return oscErr
}
