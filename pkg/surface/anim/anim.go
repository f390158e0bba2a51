// Package anim describes animations as commands and runs them on a clock the
// caller controls.
//
// The surface engines never spin a clock. They emit [Command] values ("animate
// property P of target T from A to B over D after L, then call C") to a
// [Scheduler]. The scheduler owns time: a UI toolkit adapter would forward
// commands to the platform compositor, while [Timeline] runs them on a
// virtual clock advanced explicitly, which makes every animation in the
// repository reproducible in tests, previews and the HTTP server.
//
// Scheduler contract:
//
//   - At most one command runs per (target, property). Scheduling a new one
//     supersedes the old one, and engines cancel explicitly before issuing.
//   - Cancel freezes the property at its current presentation value and drops
//     the cancelled command's completion without calling it.
//   - Presentation reports what is on screen right now, including mid-flight
//     interpolation, so interrupted animations restart from where they are.
//
// [ToggleAnimator] drives the per-control press bounce and on/off morph on top
// of a Scheduler.
package anim

import (
	"math"
	"time"

	"github.com/matzehuels/callsurface/pkg/surface/geometry"
)

// Layer selects a sub-layer of a rendered control.
type Layer int

const (
	LayerRoot      Layer = iota // the whole control
	LayerFrontMask              // circular mask over the off-state glyph
	LayerBackMask               // circular mask over the on-state glyph
	LayerContainer              // wrapper scaled on removal, outside the press bounce
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerFrontMask:
		return "front-mask"
	case LayerBackMask:
		return "back-mask"
	case LayerContainer:
		return "container"
	}
	return "root"
}

// Target addresses one layer of one rendered instance.
type Target struct {
	Handle string
	Layer  Layer
}

// Root returns the root layer target of handle.
func Root(handle string) Target { return Target{Handle: handle, Layer: LayerRoot} }

// Container returns the container layer target of handle.
func Container(handle string) Target { return Target{Handle: handle, Layer: LayerContainer} }

// DisplayScale is the scale a handle is drawn at: the press bounce on the
// root composed with the removal scale on the container.
func DisplayScale(s Scheduler, handle string) float64 {
	return PresentationOr(s, Root(handle), PropScale).Scalar *
		PresentationOr(s, Container(handle), PropScale).Scalar
}

// Property is an animatable attribute.
type Property int

const (
	PropFrame Property = iota
	PropAlpha
	PropScale
	PropMaskScale
)

// String returns the property name.
func (p Property) String() string {
	switch p {
	case PropFrame:
		return "frame"
	case PropAlpha:
		return "alpha"
	case PropScale:
		return "scale"
	case PropMaskScale:
		return "mask-scale"
	}
	return "unknown"
}

// Default returns the value a property has before anything sets it.
func (p Property) Default() Value {
	if p == PropFrame {
		return Value{}
	}
	return Scalar(1)
}

// Value is an animatable value. Frame properties use Rect, all others Scalar.
type Value struct {
	Rect   geometry.Rect `json:"rect,omitzero"`
	Scalar float64       `json:"scalar,omitempty"`
}

// Scalar wraps a scalar value.
func Scalar(v float64) Value { return Value{Scalar: v} }

// Frame wraps a rect value.
func Frame(r geometry.Rect) Value { return Value{Rect: r} }

// Lerp interpolates between v and to.
func (v Value) Lerp(to Value, t float64) Value {
	return Value{
		Rect:   v.Rect.Lerp(to.Rect, t),
		Scalar: v.Scalar + (to.Scalar-v.Scalar)*t,
	}
}

// Curve is a timing function.
type Curve int

const (
	Linear Curve = iota
	EaseIn
	EaseOut
	EaseInOut
	Spring
)

// String returns the curve name.
func (c Curve) String() string {
	switch c {
	case EaseIn:
		return "ease-in"
	case EaseOut:
		return "ease-out"
	case EaseInOut:
		return "ease-in-out"
	case Spring:
		return "spring"
	}
	return "linear"
}

// Apply maps linear progress t in [0, 1] to eased progress. Spring may
// overshoot 1 before settling.
func (c Curve) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch c {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		return t * t * (3 - 2*t)
	case Spring:
		return 1 - math.Exp(-6*t)*math.Cos(9*t)
	}
	return t
}

// Motion is a duration paired with a curve.
type Motion struct {
	Duration time.Duration
	Curve    Curve
}

// Command asks the scheduler to animate one property.
type Command struct {
	Target     Target
	Property   Property
	From, To   Value
	Duration   time.Duration
	Delay      time.Duration
	Curve      Curve
	Completion func(finished bool)
}

// Scheduler runs animation commands.
type Scheduler interface {
	// Schedule starts cmd, superseding any command on the same property.
	Schedule(cmd Command)
	// Set assigns v immediately, cancelling any running command.
	Set(target Target, prop Property, v Value)
	// Cancel stops the running command, if any, leaving the property at its
	// presentation value. The cancelled completion is not called.
	Cancel(target Target, prop Property)
	// Presentation returns the value currently on screen.
	Presentation(target Target, prop Property) (Value, bool)
}

// PresentationOr returns the presentation value or the property default.
func PresentationOr(s Scheduler, target Target, prop Property) Value {
	if v, ok := s.Presentation(target, prop); ok {
		return v
	}
	return prop.Default()
}

// Restart cancels whatever runs on cmd's property and schedules cmd from
// the current presentation value.
func Restart(s Scheduler, cmd Command) {
	s.Cancel(cmd.Target, cmd.Property)
	cmd.From = PresentationOr(s, cmd.Target, cmd.Property)
	s.Schedule(cmd)
}
