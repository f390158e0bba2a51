package frame

import (
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// Tint is the color a glyph is drawn in.
type Tint int

const (
	TintLight Tint = iota // white glyph on a translucent or solid background
	TintDark              // knocked-out glyph on a filled background
)

// Glyph is a resolved icon: a name for vector sinks and a single-cell
// symbol for terminal sinks.
type Glyph struct {
	Name   string
	Symbol string
	Color  string
}

// IconResolver maps visuals to glyphs.
type IconResolver interface {
	Resolve(v control.Visual, tint Tint) Glyph
	ResolveToast(i toast.Icon) Glyph
}

// DefaultIcons is the built-in resolver.
var DefaultIcons IconResolver = symbolIcons{}

type symbolIcons struct{}

var visualSymbols = map[control.Visual]string{
	control.VisualAccept:     "✆",
	control.VisualEnd:        "✕",
	control.VisualCancel:     "✕",
	control.VisualCamera:     "◉",
	control.VisualFlipCamera: "⟲",
	control.VisualSpeaker:    "♪",
	control.VisualBluetooth:  "ᛒ",
	control.VisualAirPods:    "◖",
	control.VisualAirPodsPro: "◗",
	control.VisualAirPodsMax: "◠",
	control.VisualHeadphones: "Ω",
	control.VisualMute:       "¤",
}

var toastSymbols = map[toast.Icon]string{
	toast.IconCamera:     "◉",
	toast.IconMicrophone: "¤",
	toast.IconBattery:    "▭",
}

func (symbolIcons) Resolve(v control.Visual, tint Tint) Glyph {
	g := Glyph{Name: v.String(), Symbol: "?", Color: "#ffffff"}
	if s, ok := visualSymbols[v]; ok {
		g.Symbol = s
	}
	if tint == TintDark {
		g.Color = "#1c1c1e"
	}
	return g
}

func (symbolIcons) ResolveToast(i toast.Icon) Glyph {
	g := Glyph{Name: i.String(), Symbol: "?", Color: "#ffffff"}
	if s, ok := toastSymbols[i]; ok {
		g.Symbol = s
	}
	return g
}

// TintFor returns the glyph tint an appearance calls for.
func TintFor(a control.Appearance) Tint {
	if a.Kind == control.AppearanceFilled {
		return TintDark
	}
	return TintLight
}

// Background returns the fill color and opacity of a control's circle.
func Background(a control.Appearance) (color string, opacity float64) {
	switch a.Kind {
	case control.AppearanceFilled:
		return "#ffffff", 1
	case control.AppearanceSolid:
		switch a.Color {
		case control.ColorGreen:
			return "#34c759", 1
		case control.ColorRed:
			return "#ff3b30", 1
		}
	}
	return "#ffffff", 0.25
}
