package frame

import (
	"math"
	"time"

	"github.com/matzehuels/callsurface/pkg/surface/anim"
	"github.com/matzehuels/callsurface/pkg/surface/buttons"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/geometry"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// ToastGap separates the toast stack from the button cluster when both are
// drawn on one canvas.
const ToastGap = 24.0

// Frame is what the call screen shows at one instant: every live button and
// toast with its presentation values read from the scheduler.
type Frame struct {
	Index       int           `json:"index"`
	At          time.Duration `json:"at"`
	Width       float64       `json:"width"`
	ToastHeight float64       `json:"toast_height"`
	Buttons     geometry.Size `json:"buttons"`
	Interaction bool          `json:"interaction"`

	Controls []Button `json:"controls"`
	Toasts   []Toast  `json:"toasts"`
}

// Height is the canvas height: the toast stack, the gap, then the buttons.
func (f Frame) Height() float64 {
	return f.ButtonsTop() + f.Buttons.H
}

// ButtonsTop is the y offset of the button cluster on the canvas.
func (f Frame) ButtonsTop() float64 {
	if f.ToastHeight <= 0 {
		return 0
	}
	return f.ToastHeight + ToastGap
}

// Button is one captured control.
type Button struct {
	Role       control.Role       `json:"role"`
	Handle     string             `json:"handle"`
	Visual     control.Visual     `json:"visual"`
	Appearance control.Appearance `json:"appearance"`
	Label      string             `json:"label"`
	Enabled    bool               `json:"enabled"`
	On         bool               `json:"on"`
	Loading    bool               `json:"loading,omitempty"`
	Removing   bool               `json:"removing,omitempty"`
	// Hidden is set while interaction is disabled: the control keeps its
	// state but is not drawn.
	Hidden bool `json:"hidden,omitempty"`

	// Rect is the presentation frame, relative to the button cluster.
	Rect  geometry.Rect `json:"rect"`
	Alpha float64       `json:"alpha"`
	Scale float64       `json:"scale"`
	// Fill is how much of the on-state glyph is revealed, 0 to 1.
	Fill  float64         `json:"fill"`
	Press anim.PressPhase `json:"press"`
	Morph anim.MorphPhase `json:"morph"`
}

// Toast is one captured toast.
type Toast struct {
	Kind     toast.Kind `json:"kind"`
	Handle   string     `json:"handle"`
	Icon     toast.Icon `json:"icon"`
	Text     string     `json:"text"`
	FontSize float64    `json:"font_size"`
	Removing bool       `json:"removing,omitempty"`

	// Rect is the presentation frame, relative to the toast stack. The
	// background, icon and text rects are relative to Rect.
	Rect       geometry.Rect `json:"rect"`
	Background geometry.Rect `json:"background"`
	IconRect   geometry.Rect `json:"icon_rect"`
	TextRect   geometry.Rect `json:"text_rect"`
	Alpha      float64       `json:"alpha"`
	Scale      float64       `json:"scale"`
}

// Surface is the set of engines a frame is captured from. Either engine may
// be nil.
type Surface struct {
	Sched   anim.Scheduler
	Buttons *buttons.Engine
	Toasts  *toast.Engine
	Width   float64
}

// Capture reads the current presentation state of every live element.
func (s Surface) Capture(index int, at time.Duration) Frame {
	f := Frame{
		Index:       index,
		At:          at,
		Width:       s.Width,
		Interaction: true,
		Controls:    []Button{},
		Toasts:      []Toast{},
	}
	if s.Buttons != nil {
		f.Buttons = s.Buttons.Size()
		f.Interaction = s.Buttons.InteractionEnabled()
		for _, c := range s.Buttons.Controls() {
			b := s.button(c)
			b.Hidden = !f.Interaction
			f.Controls = append(f.Controls, b)
		}
	}
	if s.Toasts != nil {
		f.ToastHeight = s.Toasts.Height()
		for _, t := range s.Toasts.Toasts() {
			f.Toasts = append(f.Toasts, s.toast(t))
		}
	}
	return f
}

func (s Surface) button(c buttons.Control) Button {
	root := anim.Root(c.Handle)
	front := anim.Target{Handle: c.Handle, Layer: anim.LayerFrontMask}
	d := c.Descriptor
	return Button{
		Role:       c.Role,
		Handle:     c.Handle,
		Visual:     d.Visual,
		Appearance: d.Appearance,
		Label:      d.Label,
		Enabled:    d.Enabled,
		On:         c.Toggle.VisualOn,
		Loading:    d.Loading,
		Removing:   c.Removing,
		Rect:       s.frameOf(root, c.Rect),
		Alpha:      anim.PresentationOr(s.Sched, root, anim.PropAlpha).Scalar,
		Scale:      anim.DisplayScale(s.Sched, c.Handle),
		Fill:       clamp01(1 - anim.PresentationOr(s.Sched, front, anim.PropMaskScale).Scalar),
		Press:      c.Press,
		Morph:      c.Toggle.Phase,
	}
}

func (s Surface) toast(t toast.Toast) Toast {
	root := anim.Root(t.Handle)
	d := t.Descriptor
	return Toast{
		Kind:       t.Kind,
		Handle:     t.Handle,
		Icon:       d.Icon,
		Text:       d.Text.Plain,
		FontSize:   d.Font.Size,
		Removing:   t.Removing,
		Rect:       s.frameOf(root, t.Rect),
		Background: d.Background,
		IconRect:   d.IconRect,
		TextRect:   d.TextRect,
		Alpha:      anim.PresentationOr(s.Sched, root, anim.PropAlpha).Scalar,
		Scale:      anim.DisplayScale(s.Sched, t.Handle),
	}
}

func (s Surface) frameOf(t anim.Target, target geometry.Rect) geometry.Rect {
	if v, ok := s.Sched.Presentation(t, anim.PropFrame); ok {
		return v.Rect
	}
	return target
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
