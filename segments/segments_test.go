package segments

import (
	"errors"
	"testing"

	"gotest.tools/assert"
)

func TestEncodeDistinct(t *testing.T) {
	seen := make(map[Pattern]int)
	for d := 0; d <= 9; d++ {
		p, err := Encode(d)
		assert.NilError(t, err)

		again, _ := Encode(d)
		assert.Equal(t, p, again)

		prev, dup := seen[p]
		assert.Assert(t, !dup, "digits %d and %d share pattern %s", prev, d, p)
		seen[p] = d
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	for _, d := range []int{-1, 10, 255, -128} {
		_, err := Encode(d)
		assert.Assert(t, errors.Is(err, ErrInvalidDigit), "digit %d", d)
	}
}

func TestDecode(t *testing.T) {
	for ch := 0; ch < 256; ch++ {
		v, err := Decode(byte(ch))
		if ch >= '0' && ch <= '9' {
			assert.NilError(t, err)
			assert.Equal(t, v, ch-'0')
		} else {
			assert.Assert(t, errors.Is(err, ErrInvalidDigit), "char %d", ch)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for d := 0; d <= 9; d++ {
		v, err := Decode(Char(d))
		assert.NilError(t, err)
		assert.Equal(t, v, d)
	}
}

func TestRender(t *testing.T) {
	p, _ := Encode(8)
	assert.Equal(t, p.Render(), " _ \n|_|\n|_| ")

	p, _ = Encode(1)
	assert.Equal(t, p.Render(), "   \n  |\n  | ")

	assert.Equal(t, (p | DecimalMask).Render(), "   \n  |\n  |.")
}

func TestPatternBits(t *testing.T) {
	p, _ := Encode(7)
	assert.Assert(t, p.On(SegTop))
	assert.Assert(t, p.On(SegTopR))
	assert.Assert(t, p.On(SegBotR))
	assert.Assert(t, !p.On(SegMid))
	assert.Equal(t, p.String(), "0x07")
}
