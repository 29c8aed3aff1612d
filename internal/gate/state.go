// Package gate decides which key events reach the keystroke log. The tracked
// modifier is always logged; every other key is logged only while the
// modifier is held.
package gate

import (
	"fmt"

	"github.com/atikulmunna/sigma-input/internal/keycode"
	"github.com/atikulmunna/sigma-input/internal/model"
)

// Modifier is the key whose held state gates logging.
const Modifier = keycode.KEY_LEFTALT

// State tracks whether the modifier is currently held. The zero value is the
// initial "up" state.
type State struct {
	altDown bool
}

// AltDown reports whether the modifier is held.
func (s *State) AltDown() bool {
	return s.altDown
}

// Observe applies one event and returns the description to log, if any.
// Repeats of the modifier are logged but leave the state unchanged.
func (s *State) Observe(ev model.KeyEvent) (string, bool) {
	if ev.Code == Modifier {
		switch ev.Value {
		case model.Pressed:
			s.altDown = true
		case model.Released:
			s.altDown = false
		}
		return ModifierDescription(ev), true
	}
	if !s.altDown {
		return "", false
	}
	return KeyDescription(ev), true
}

// ModifierDescription is the log text for a modifier event.
func ModifierDescription(ev model.KeyEvent) string {
	return fmt.Sprintf("LEFTALT: key code: %s, value: %d", ev.Code, int32(ev.Value))
}

// KeyDescription is the log text for a key seen while the modifier is held.
func KeyDescription(ev model.KeyEvent) string {
	return fmt.Sprintf("key %s got with value %d", ev.Code, int32(ev.Value))
}
