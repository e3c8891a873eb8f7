// Package segments maps decimal digits to seven-segment patterns.
package segments

import (
	"errors"
	"fmt"
	"strings"
)

// positions of segments within a Pattern
const (
	SegTop      = 0
	SegTopR     = 1
	SegBotR     = 2
	SegBot      = 3
	SegBotL     = 4
	SegTopL     = 5
	SegMid      = 6
	SegDecimal  = 7
	DecimalMask = 0x80
)

// ErrInvalidDigit is returned for anything outside 0-9 (or '0'-'9').
var ErrInvalidDigit = errors.New("invalid digit")

// Pattern is one bit per segment, bit 0 is the top segment, bit 7 the decimal point.
type Pattern byte

// translate digits to bitmasks
var digitValues = [10]Pattern{
	0x3F, // 0
	0x06, // 1
	0x5B, // 2
	0x4F, // 3
	0x66, // 4
	0x6D, // 5
	0x7D, // 6
	0x07, // 7
	0x7F, // 8
	0x6F, // 9
}

// Encode returns the glyph for digit.
func Encode(digit int) (Pattern, error) {
	if digit < 0 || digit > 9 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDigit, digit)
	}
	return digitValues[digit], nil
}

// Decode turns an ASCII digit into its value.
func Decode(ch byte) (int, error) {
	// a byte below '0' would go negative here, reject both ends
	v := int(ch) - '0'
	if v < 0 || v > 9 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDigit, ch)
	}
	return v, nil
}

// Char is the ASCII character for digit. digit must already be valid.
func Char(digit int) byte {
	return byte('0' + digit)
}

func (p Pattern) On(segment uint) bool {
	return p&(1<<segment) != 0
}

func (p Pattern) String() string {
	return fmt.Sprintf("0x%02X", byte(p))
}

// Render draws the pattern as three lines of ASCII art:
//
//	 _
//	|_|
//	|_|.
func (p Pattern) Render() string {
	var sb strings.Builder

	pick := func(seg uint, on string) string {
		if p.On(seg) {
			return on
		}
		return " "
	}

	sb.WriteString(" " + pick(SegTop, "_") + " \n")
	sb.WriteString(pick(SegTopL, "|") + pick(SegMid, "_") + pick(SegTopR, "|") + "\n")
	sb.WriteString(pick(SegBotL, "|") + pick(SegBot, "_") + pick(SegBotR, "|") + pick(SegDecimal, "."))
	return sb.String()
}
