package control

import (
	"strings"
)

// Visual identifies the glyph a control shows.
type Visual int

const (
	VisualAccept Visual = iota
	VisualEnd
	VisualCancel
	VisualCamera
	VisualFlipCamera
	VisualSpeaker
	VisualBluetooth
	VisualAirPods
	VisualAirPodsPro
	VisualAirPodsMax
	VisualHeadphones
	VisualMute
)

var visualNames = [...]string{
	VisualAccept:     "accept",
	VisualEnd:        "end",
	VisualCancel:     "cancel",
	VisualCamera:     "camera",
	VisualFlipCamera: "flipCamera",
	VisualSpeaker:    "speaker",
	VisualBluetooth:  "bluetooth",
	VisualAirPods:    "airpods",
	VisualAirPodsPro: "airpodsPro",
	VisualAirPodsMax: "airpodsMax",
	VisualHeadphones: "headphones",
	VisualMute:       "mute",
}

// String returns the visual's name.
func (v Visual) String() string {
	if v >= 0 && int(v) < len(visualNames) {
		return visualNames[v]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (v Visual) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Morphs reports whether pressing a control with this visual plays the
// on/off reveal. Action glyphs never morph.
func (v Visual) Morphs() bool {
	switch v {
	case VisualFlipCamera, VisualEnd, VisualAccept, VisualCancel:
		return false
	}
	return true
}

// AppearanceKind is the background treatment of a control.
type AppearanceKind int

const (
	AppearanceOutline AppearanceKind = iota // translucent, glyph tinted white
	AppearanceFilled                        // opaque white, glyph knocked out
	AppearanceSolid                         // opaque brand color
)

// Color is the solid background color of action controls.
type Color int

const (
	ColorNone Color = iota
	ColorGreen
	ColorRed
)

// Appearance is the background treatment plus, for solid controls, its color.
type Appearance struct {
	Kind  AppearanceKind
	Color Color
}

// Blurred returns the outline or filled appearance.
func Blurred(filled bool) Appearance {
	if filled {
		return Appearance{Kind: AppearanceFilled}
	}
	return Appearance{Kind: AppearanceOutline}
}

// Solid returns a solid appearance in color c.
func Solid(c Color) Appearance {
	return Appearance{Kind: AppearanceSolid, Color: c}
}

// String returns a short description such as "filled" or "solid(red)".
func (a Appearance) String() string {
	switch a.Kind {
	case AppearanceFilled:
		return "filled"
	case AppearanceSolid:
		switch a.Color {
		case ColorGreen:
			return "solid(green)"
		case ColorRed:
			return "solid(red)"
		}
		return "solid"
	}
	return "outline"
}

// MarshalText implements encoding.TextMarshaler.
func (a Appearance) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Traits is a set of accessibility traits.
type Traits uint8

const (
	TraitButton Traits = 1 << iota
	TraitDisabled
	TraitSelected
)

// Has reports whether all traits in o are set.
func (t Traits) Has(o Traits) bool { return t&o == o }

// String lists the set traits, comma separated.
func (t Traits) String() string {
	var parts []string
	if t.Has(TraitButton) {
		parts = append(parts, "button")
	}
	if t.Has(TraitDisabled) {
		parts = append(parts, "disabled")
	}
	if t.Has(TraitSelected) {
		parts = append(parts, "selected")
	}
	return strings.Join(parts, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (t Traits) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Accessibility is the assistive-technology description of a control.
type Accessibility struct {
	Label  string `json:"label"`
	Value  string `json:"value,omitempty"`
	Traits Traits `json:"traits"`
}

// Descriptor is the intended content and state of one control for a single
// layout pass. It is compared by value, never by identity.
type Descriptor struct {
	Role          Role          `json:"role"`
	Visual        Visual        `json:"visual"`
	Appearance    Appearance    `json:"appearance"`
	Label         string        `json:"label"`
	Enabled       bool          `json:"enabled"`
	ToggledOn     bool          `json:"toggled_on"`
	Loading       bool          `json:"loading,omitempty"`
	Screencast    bool          `json:"screencast,omitempty"`
	Accessibility Accessibility `json:"accessibility"`
}

func (d Descriptor) withTraits() Descriptor {
	d.Accessibility.Traits |= TraitButton
	if !d.Enabled {
		d.Accessibility.Traits |= TraitDisabled
	}
	if d.ToggledOn {
		d.Accessibility.Traits |= TraitSelected
	}
	if d.Accessibility.Label == "" {
		d.Accessibility.Label = d.Label
	}
	return d
}
