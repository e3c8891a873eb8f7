package main

import (
	"github.com/pkg/errors"

	"dscheirer.com/segd/segments"
	"dscheirer.com/segd/sevenseg_backpack"
)

// backpackSegments uses one position of an HT16K33 i2c LED backpack.
type backpackSegments struct {
	ssb      *sevenseg_backpack.Sevenseg
	position byte
}

func (bs *backpackSegments) OpenDriver(settings configSettings) error {
	var err error
	bs.ssb, err = sevenseg_backpack.Open(
		settings.GetByte(sI2CDev),
		settings.GetInt(sI2CBus),
		settings.GetBool(sI2CSim))
	if err != nil {
		return errors.Wrap(err, "open backpack")
	}
	bs.position = settings.GetByte(sDigitPos)
	if bs.position > sevenseg_backpack.MaxPosition {
		return errors.Errorf("%s must be 0-%d", sDigitPos, sevenseg_backpack.MaxPosition)
	}
	bs.ssb.DebugDump(settings.GetBool(sDebug))
	return bs.ssb.DisplayOn(true)
}

func (bs *backpackSegments) Name() string {
	return "backpack"
}

func (bs *backpackSegments) DebugDump(on bool) {
	bs.ssb.DebugDump(on)
}

func (bs *backpackSegments) Assert(p segments.Pattern) error {
	return bs.ssb.SetPattern(bs.position, byte(p))
}

func (bs *backpackSegments) Close() error {
	return bs.ssb.Close()
}
