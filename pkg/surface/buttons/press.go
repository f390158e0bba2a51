package buttons

import (
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/geometry"
)

// SetInteractionEnabled hides or restores the hit surface of every control.
// While disabled, presses are dropped and hit tests miss; the controls keep
// their state.
func (e *Engine) SetInteractionEnabled(enabled bool) {
	if e.interaction == enabled {
		return
	}
	e.interaction = enabled
	if !enabled && e.hasPress {
		if t, ok := e.toggles[e.pressing]; ok {
			t.Up()
		}
		e.hasPress = false
	}
	e.logger.Debug("interaction", "enabled", enabled)
}

// InteractionEnabled reports whether controls accept presses.
func (e *Engine) InteractionEnabled() bool { return e.interaction }

// HitTest returns the role of the pressable control under p.
func (e *Engine) HitTest(p geometry.Point) (control.Role, bool) {
	if !e.interaction {
		return 0, false
	}
	for _, en := range e.rec.Entries() {
		if en.Removing || !en.Rect.Contains(p) {
			continue
		}
		return en.Key, true
	}
	return 0, false
}

// PressDown starts a press on a role. It reports whether the press was
// accepted: the control must be live, enabled, not fading out, and
// interaction must be enabled. Only one press is tracked at a time.
func (e *Engine) PressDown(r control.Role) bool {
	if !e.interaction || e.hasPress {
		return false
	}
	en, ok := e.rec.Lookup(r)
	if !ok || en.Removing || !en.Desc.Enabled {
		return false
	}
	t, ok := e.toggles[r]
	if !ok {
		return false
	}
	t.Down()
	e.pressing, e.hasPress = r, true
	return true
}

// PressUp ends the press on a role and emits the role's intent.
func (e *Engine) PressUp(r control.Role) (control.Intent, bool) {
	if !e.hasPress || e.pressing != r {
		return 0, false
	}
	e.hasPress = false
	if t, ok := e.toggles[r]; ok {
		t.Up()
	}
	intent := control.IntentFor(r)
	e.logger.Debug("pressed", "role", r, "intent", intent)
	if e.onPressed != nil {
		e.onPressed(intent)
	}
	return intent, true
}

// Tap presses and releases a role.
func (e *Engine) Tap(r control.Role) (control.Intent, bool) {
	if !e.PressDown(r) {
		return 0, false
	}
	return e.PressUp(r)
}
