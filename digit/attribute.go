package digit

import (
	"fmt"

	"github.com/pkg/errors"

	"dscheirer.com/segd/segments"
)

// AttrName is the attribute's name on the show/store surface.
const AttrName = "digit_to_display"

// Attribute is the textual show/store view of a Device.
type Attribute struct {
	dev *Device
}

// Name is always AttrName.
func (a *Attribute) Name() string {
	return AttrName
}

// Show formats the digit followed by a newline.
func (a *Attribute) Show() (string, error) {
	if a.dev.ctl.released() {
		return "", ErrResourceUnavailable
	}
	return fmt.Sprintf("%c\n", segments.Char(a.dev.ctl.Read())), nil
}

// Store applies the first character of text and acknowledges with StoreAck,
// valid or not, unless the device was allocated WithStrictWrites.
func (a *Attribute) Store(text string) (int, error) {
	if a.dev.ctl.released() {
		return 0, ErrResourceUnavailable
	}
	if text == "" {
		if a.dev.strict {
			return 0, errors.Wrap(ErrInvalidDigit, "empty input")
		}
		return StoreAck, nil
	}

	_, err := a.dev.ctl.Write(text[0])
	switch {
	case err == nil:
		return StoreAck, nil
	case errors.Is(err, ErrInvalidDigit):
		if a.dev.strict {
			return 0, err
		}
		return StoreAck, nil
	case errors.Is(err, ErrHardwareFault):
		return StoreAck, err
	default:
		return 0, err
	}
}
