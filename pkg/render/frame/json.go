package frame

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/callsurface/pkg/surface/control"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	scenario string
	hash     string
	compact  bool
}

// WithJSONScenario records the scenario name and content hash the frames
// were played from.
func WithJSONScenario(name, hash string) JSONOption {
	return func(r *jsonRenderer) { r.scenario, r.hash = name, hash }
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Scenario string      `json:"scenario,omitempty"`
	Hash     string      `json:"hash,omitempty"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Duration float64     `json:"duration_ms"`
	Frames   []jsonFrame `json:"frames"`
}

type jsonFrame struct {
	Index       int          `json:"index"`
	AtMS        float64      `json:"at_ms"`
	ToastHeight float64      `json:"toast_height"`
	ButtonsTop  float64      `json:"buttons_top"`
	ButtonsW    float64      `json:"buttons_width"`
	ButtonsH    float64      `json:"buttons_height"`
	Interaction bool         `json:"interaction"`
	VideoRect   *jsonRect    `json:"video_button_rect,omitempty"`
	Controls    []jsonButton `json:"controls"`
	Toasts      []jsonToast  `json:"toasts"`
}

type jsonRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonButton struct {
	Role       string   `json:"role"`
	Visual     string   `json:"visual"`
	Appearance string   `json:"appearance"`
	Label      string   `json:"label"`
	Enabled    bool     `json:"enabled"`
	On         bool     `json:"on"`
	Loading    bool     `json:"loading,omitempty"`
	Removing   bool     `json:"removing,omitempty"`
	Hidden     bool     `json:"hidden,omitempty"`
	Rect       jsonRect `json:"rect"`
	Alpha      float64  `json:"alpha"`
	Scale      float64  `json:"scale"`
	Fill       float64  `json:"fill"`
	Press      string   `json:"press"`
	Morph      string   `json:"morph"`
}

type jsonToast struct {
	Kind       string   `json:"kind"`
	Icon       string   `json:"icon"`
	Text       string   `json:"text"`
	Removing   bool     `json:"removing,omitempty"`
	Rect       jsonRect `json:"rect"`
	Background jsonRect `json:"background"`
	Alpha      float64  `json:"alpha"`
	Scale      float64  `json:"scale"`
}

// RenderJSON exports frames as a JSON document. The canvas size is the
// largest frame's.
func RenderJSON(frames []Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Scenario: r.scenario,
		Hash:     r.hash,
		Frames:   make([]jsonFrame, 0, len(frames)),
	}
	for _, f := range frames {
		out.Width = max(out.Width, f.Width)
		out.Height = max(out.Height, f.Height())
		out.Duration = max(out.Duration, ms(f.At))
		out.Frames = append(out.Frames, buildJSONFrame(f))
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONFrame(f Frame) jsonFrame {
	jf := jsonFrame{
		Index:       f.Index,
		AtMS:        ms(f.At),
		ToastHeight: f.ToastHeight,
		ButtonsTop:  f.ButtonsTop(),
		ButtonsW:    f.Buttons.W,
		ButtonsH:    f.Buttons.H,
		Interaction: f.Interaction,
		Controls:    make([]jsonButton, 0, len(f.Controls)),
		Toasts:      make([]jsonToast, 0, len(f.Toasts)),
	}
	for _, b := range f.Controls {
		if b.Role == control.RoleEnableCamera && !b.Removing {
			r := toJSONRect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H)
			jf.VideoRect = &r
		}
		jf.Controls = append(jf.Controls, jsonButton{
			Role:       b.Role.String(),
			Visual:     b.Visual.String(),
			Appearance: b.Appearance.String(),
			Label:      b.Label,
			Enabled:    b.Enabled,
			On:         b.On,
			Loading:    b.Loading,
			Removing:   b.Removing,
			Hidden:     b.Hidden,
			Rect:       toJSONRect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H),
			Alpha:      b.Alpha,
			Scale:      b.Scale,
			Fill:       b.Fill,
			Press:      b.Press.String(),
			Morph:      b.Morph.String(),
		})
	}
	for _, t := range f.Toasts {
		jf.Toasts = append(jf.Toasts, jsonToast{
			Kind:       t.Kind.String(),
			Icon:       t.Icon.String(),
			Text:       t.Text,
			Removing:   t.Removing,
			Rect:       toJSONRect(t.Rect.X, t.Rect.Y, t.Rect.W, t.Rect.H),
			Background: toJSONRect(t.Background.X, t.Background.Y, t.Background.W, t.Background.H),
			Alpha:      t.Alpha,
			Scale:      t.Scale,
		})
	}
	return jf
}

func toJSONRect(x, y, w, h float64) jsonRect { return jsonRect{X: x, Y: y, W: w, H: h} }

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
