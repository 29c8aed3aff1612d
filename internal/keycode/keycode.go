// Package keycode names Linux EV_KEY codes using the evdev code tables.
package keycode

import (
	"strconv"

	evdev "github.com/holoplot/go-evdev"
)

// Code is a kernel EV_KEY code.
type Code uint16

// Codes referenced by name in this module. Everything else is still named by
// String through the full kernel table.
const (
	KEY_ESC      = Code(evdev.KEY_ESC)
	KEY_Q        = Code(evdev.KEY_Q)
	KEY_W        = Code(evdev.KEY_W)
	KEY_E        = Code(evdev.KEY_E)
	KEY_R        = Code(evdev.KEY_R)
	KEY_T        = Code(evdev.KEY_T)
	KEY_I        = Code(evdev.KEY_I)
	KEY_ENTER    = Code(evdev.KEY_ENTER)
	KEY_LEFTCTRL = Code(evdev.KEY_LEFTCTRL)
	KEY_A        = Code(evdev.KEY_A)
	KEY_H        = Code(evdev.KEY_H)
	KEY_X        = Code(evdev.KEY_X)
	KEY_C        = Code(evdev.KEY_C)
	KEY_B        = Code(evdev.KEY_B)
	KEY_LEFTALT  = Code(evdev.KEY_LEFTALT)
	KEY_102ND    = Code(evdev.KEY_102ND)
	KEY_RIGHTALT = Code(evdev.KEY_RIGHTALT)
	KEY_PRINT    = Code(evdev.KEY_PRINT)
	KEY_MICMUTE  = Code(evdev.KEY_MICMUTE)
	BTN_LEFT     = Code(evdev.BTN_LEFT)
	BTN_RIGHT    = Code(evdev.BTN_RIGHT)
	BTN_TOUCH    = Code(evdev.BTN_TOUCH)
)

// String returns the kernel identifier (KEY_* or BTN_*), or KEY_UNKNOWN_<code>
// when the kernel table has no name for it.
func (c Code) String() string {
	if name, ok := evdev.KEYToString[evdev.EvCode(c)]; ok {
		return name
	}
	return "KEY_UNKNOWN_" + strconv.Itoa(int(c))
}
