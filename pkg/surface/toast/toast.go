// Package toast composes the stack of transient status toasts shown above
// the call buttons.
//
// The stack is a single column in a fixed priority order (camera,
// microphone, mute, battery) with 18 units between items. Toast heights come
// from text measurement, so a long peer name that wraps to two lines pushes
// the toasts below it down. Entrances fade in; exits fade and shrink to half
// size. Every kind leaves the same way.
package toast

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/i18n"
	"github.com/matzehuels/callsurface/pkg/surface/anim"
	"github.com/matzehuels/callsurface/pkg/surface/geometry"
	"github.com/matzehuels/callsurface/pkg/surface/reconcile"
	"github.com/matzehuels/callsurface/pkg/text"
)

// Kind identifies a toast. At most one toast of each kind is shown.
type Kind int

const (
	KindCamera Kind = iota
	KindMicrophone
	KindMute
	KindBattery
)

// Kinds returns every kind in stacking order.
func Kinds() []Kind { return []Kind{KindCamera, KindMicrophone, KindMute, KindBattery} }

var kindNames = [...]string{"camera", "microphone", "mute", "battery"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown toast %q", s)
}

// Set is a set of visible toast kinds.
type Set uint8

// SetOf returns the set holding ks.
func SetOf(ks ...Kind) Set {
	var s Set
	for _, k := range ks {
		s = s.With(k)
	}
	return s
}

// With returns s plus k.
func (s Set) With(k Kind) Set { return s | 1<<uint(k) }

// Without returns s minus k.
func (s Set) Without(k Kind) Set { return s &^ (1 << uint(k)) }

// Has reports whether k is in s.
func (s Set) Has(k Kind) bool { return s&(1<<uint(k)) != 0 }

// Kinds returns the members of s in stacking order.
func (s Set) Kinds() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Icon is the glyph a toast shows on its leading edge.
type Icon int

const (
	IconCamera Icon = iota
	IconMicrophone
	IconBattery
)

func (i Icon) String() string {
	switch i {
	case IconCamera:
		return "camera"
	case IconMicrophone:
		return "microphone"
	case IconBattery:
		return "battery"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (i Icon) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// Layout constants.
const (
	Spacing        = 18.0
	IconWidth      = 44.0
	IconHeight     = 28.0
	SideMargin     = 60.0
	TrailingInset  = 12.0
	VerticalInset  = 8.0
	MaxLines       = 2
	NarrowWidth    = 320.0
	NarrowFontSize = 15.0
	FontSize       = 17.0
)

// Descriptor is the content and internal layout of one toast. Rects are
// relative to the toast's own frame.
type Descriptor struct {
	Kind       Kind          `json:"kind"`
	Icon       Icon          `json:"icon"`
	Text       i18n.Rich     `json:"text"`
	Font       text.Font     `json:"font"`
	Background geometry.Rect `json:"background"`
	IconRect   geometry.Rect `json:"icon_rect"`
	TextRect   geometry.Rect `json:"text_rect"`
}

// Formatter fills localized templates.
type Formatter interface {
	Rich(key string, args ...string) i18n.Rich
}

// Config configures an Engine.
type Config struct {
	Width    float64
	Strings  Formatter
	Measurer text.Measurer
	Logger   *log.Logger
}

// Toast is a snapshot of one live toast.
type Toast struct {
	Kind       Kind
	Handle     string
	Descriptor Descriptor
	Rect       geometry.Rect
	Removing   bool
}

type input struct {
	set   Set
	peer  string
	width float64
}

// Engine is the toast stack's composition engine. It is single-threaded.
type Engine struct {
	rec     *reconcile.Reconciler[Kind, Descriptor]
	strings Formatter
	measure text.Measurer
	logger  *log.Logger
	width   float64
	last    *input
	height  float64
}

// New creates an engine emitting animation commands to s.
func New(s anim.Scheduler, cfg Config) *Engine {
	e := &Engine{
		strings: cfg.Strings,
		measure: cfg.Measurer,
		logger:  cfg.Logger,
		width:   geometry.NonNegative(cfg.Width),
	}
	if e.strings == nil {
		e.strings = i18n.English()
	}
	if e.measure == nil {
		e.measure = text.NewCellMeasurer(MaxLines)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	e.rec = reconcile.New(s, reconcile.Policy[Kind]{
		FadeIn: anim.Motion{Duration: 300 * time.Millisecond, Curve: anim.Spring},
		Move:   anim.Motion{Duration: 300 * time.Millisecond, Curve: anim.Spring},
		Remove: func(Kind) reconcile.Removal {
			return reconcile.Removal{Motion: anim.Motion{Duration: 200 * time.Millisecond, Curve: anim.EaseIn}, Scale: 0.5}
		},
	},
		reconcile.WithLogger[Kind, Descriptor](e.logger),
		reconcile.WithName[Kind, Descriptor]("toasts"),
	)
	return e
}

// SetWidth changes the container width for the next Update.
func (e *Engine) SetWidth(width float64) { e.width = geometry.NonNegative(width) }

// UpdateOption qualifies one Update call.
type UpdateOption func(*updateOptions)

type updateOptions struct{ animated bool }

// Immediate applies the update without animation.
func Immediate() UpdateOption {
	return func(o *updateOptions) { o.animated = false }
}

// Update shows exactly the toasts in set, naming the peer where a template
// asks for it, and returns the stack height. Equal input does nothing.
func (e *Engine) Update(set Set, peer string, opts ...UpdateOption) float64 {
	o := updateOptions{animated: true}
	for _, opt := range opts {
		opt(&o)
	}
	in := input{set: set, peer: peer, width: e.width}
	if e.last != nil && *e.last == in {
		return e.height
	}

	kinds := set.Kinds()
	descs := make([]Descriptor, len(kinds))
	heights := make([]float64, len(kinds))
	for i, k := range kinds {
		descs[i] = e.describe(k, peer)
		heights[i] = descs[i].Background.H
	}
	col := geometry.SolveColumn(heights, e.width, Spacing)

	placed := make([]reconcile.Placed[Kind, Descriptor], len(kinds))
	for i, k := range kinds {
		placed[i] = reconcile.Placed[Kind, Descriptor]{Key: k, Desc: descs[i], Rect: col.Rects[i]}
	}
	e.rec.Reconcile(placed, reconcile.Pass{Animated: o.animated})

	e.last = &in
	e.height = col.Height
	return e.height
}

// Height returns the stack height from the last Update.
func (e *Engine) Height() float64 { return e.height }

// Toasts returns every live toast, including ones fading out.
func (e *Engine) Toasts() []Toast {
	entries := e.rec.Entries()
	out := make([]Toast, len(entries))
	for i, en := range entries {
		out[i] = Toast{Kind: en.Key, Handle: en.Handle, Descriptor: en.Desc, Rect: en.Rect, Removing: en.Removing}
	}
	return out
}

func (e *Engine) describe(k Kind, peer string) Descriptor {
	var (
		icon Icon
		rich i18n.Rich
	)
	switch k {
	case KindCamera:
		icon, rich = IconCamera, e.strings.Rich(i18n.KeyCameraOff, peer)
	case KindMicrophone:
		icon, rich = IconMicrophone, e.strings.Rich(i18n.KeyMicrophoneOff, peer)
	case KindMute:
		icon, rich = IconMicrophone, e.strings.Rich(i18n.KeyYourMicrophoneOff)
	case KindBattery:
		icon, rich = IconBattery, e.strings.Rich(i18n.KeyBatteryLow, peer)
	default:
		errors.Invariant(errors.ErrCodeUnknownRole, "no toast content for kind %d", k)
	}

	font, iconSpacing := text.Regular(FontSize), 1.0
	if e.width <= NarrowWidth {
		font, iconSpacing = text.Regular(NarrowFontSize), 0
	}
	maxWidth := geometry.NonNegative(e.width - SideMargin - IconWidth - iconSpacing)
	size := e.measure.Measure(rich.Plain, font, maxWidth)

	bg := geometry.Size{
		W: IconWidth + iconSpacing + size.W + TrailingInset,
		H: math.Max(IconHeight, size.H+VerticalInset),
	}
	return Descriptor{
		Kind:       k,
		Icon:       icon,
		Text:       rich,
		Font:       font,
		Background: geometry.Rect{X: math.Floor((e.width - bg.W) / 2), W: bg.W, H: bg.H},
		IconRect:   geometry.Rect{Y: math.Floor((bg.H - IconHeight) / 2), W: IconWidth, H: IconHeight},
		TextRect: geometry.Rect{
			X: IconWidth + iconSpacing,
			Y: math.Floor((bg.H - size.H) / 2),
			W: size.W,
			H: size.H,
		},
	}
}
