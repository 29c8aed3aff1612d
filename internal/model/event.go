package model

import (
	"strconv"

	"github.com/atikulmunna/sigma-input/internal/keycode"
)

// KeyValue is the EV_KEY value reported by the driver.
type KeyValue int32

const (
	Released KeyValue = 0
	Pressed  KeyValue = 1
	Repeated KeyValue = 2
)

func (v KeyValue) String() string {
	switch v {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case Repeated:
		return "repeated"
	default:
		return "value(" + strconv.Itoa(int(v)) + ")"
	}
}

// KeyEvent is a single key transition read from the device.
type KeyEvent struct {
	Code  keycode.Code
	Value KeyValue
}
