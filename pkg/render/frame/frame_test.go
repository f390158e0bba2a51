package frame

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/surface/anim"
	"github.com/matzehuels/callsurface/pkg/surface/buttons"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

func newSurface() (Surface, *anim.Timeline) {
	tl := anim.NewTimeline()
	return Surface{
		Sched:   tl,
		Buttons: buttons.New(tl, buttons.Config{Width: 390, BottomInset: 34}),
		Toasts:  toast.New(tl, toast.Config{Width: 390}),
		Width:   390,
	}, tl
}

func TestCaptureSettled(t *testing.T) {
	s, _ := newSurface()
	s.Buttons.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false, buttons.Immediate())

	f := s.Capture(0, 0)
	if len(f.Controls) != 4 {
		t.Fatalf("len(Controls) = %d, want 4", len(f.Controls))
	}
	for _, b := range f.Controls {
		c, _ := s.Buttons.Control(b.Role)
		if b.Rect != c.Rect {
			t.Errorf("%v rect = %+v, want %+v", b.Role, b.Rect, c.Rect)
		}
		if b.Alpha != 1 || b.Scale != 1 {
			t.Errorf("%v alpha, scale = %v, %v, want 1, 1", b.Role, b.Alpha, b.Scale)
		}
		if b.Fill != 0 {
			t.Errorf("%v fill = %v, want 0", b.Role, b.Fill)
		}
	}
	if f.ToastHeight != 0 || f.ButtonsTop() != 0 {
		t.Errorf("toast height, buttons top = %v, %v, want 0, 0", f.ToastHeight, f.ButtonsTop())
	}
	if f.Height() != s.Buttons.Size().H {
		t.Errorf("Height() = %v, want %v", f.Height(), s.Buttons.Size().H)
	}
}

func TestCaptureMidTransition(t *testing.T) {
	s, tl := newSurface()
	s.Buttons.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false, buttons.Immediate())
	s.Buttons.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false)

	f := s.Capture(1, tl.Now())
	var decline *Button
	for i := range f.Controls {
		if f.Controls[i].Role == control.RoleDecline {
			decline = &f.Controls[i]
		}
	}
	if decline == nil || !decline.Removing {
		t.Fatalf("decline = %+v, want a removing control", decline)
	}

	tl.Advance(time.Second)
	f = s.Capture(2, tl.Now())
	for _, b := range f.Controls {
		if b.Role == control.RoleDecline {
			t.Error("decline still captured after settling")
		}
	}
}

func TestCaptureToggledControlIsFilled(t *testing.T) {
	s, _ := newSurface()
	s.Buttons.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, callstate.VideoState{}), true, buttons.Immediate())

	for _, b := range s.Capture(0, 0).Controls {
		if b.Role == control.RoleMute && (!b.On || b.Fill < 0.99) {
			t.Errorf("mute on, fill = %v, %v, want true, ~1", b.On, b.Fill)
		}
	}
}

func TestCaptureWithToasts(t *testing.T) {
	s, _ := newSurface()
	s.Buttons.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false, buttons.Immediate())
	h := s.Toasts.Update(toast.SetOf(toast.KindMute), "Alice", toast.Immediate())

	f := s.Capture(0, 0)
	if len(f.Toasts) != 1 || f.Toasts[0].Kind != toast.KindMute {
		t.Fatalf("Toasts = %+v, want one mute toast", f.Toasts)
	}
	if f.ButtonsTop() != h+ToastGap {
		t.Errorf("ButtonsTop() = %v, want %v", f.ButtonsTop(), h+ToastGap)
	}
	if f.Toasts[0].Text != "Your microphone is off" {
		t.Errorf("toast text = %q, want %q", f.Toasts[0].Text, "Your microphone is off")
	}
}

func TestRenderJSON(t *testing.T) {
	s, _ := newSurface()
	s.Buttons.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, callstate.VideoState{IsAvailable: true, CanChangeStatus: true}), false, buttons.Immediate())
	frames := []Frame{s.Capture(0, 0), s.Capture(1, 100*time.Millisecond)}

	data, err := RenderJSON(frames, WithJSONScenario("demo", "abc"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out struct {
		Scenario string  `json:"scenario"`
		Duration float64 `json:"duration_ms"`
		Frames   []struct {
			Controls []struct {
				Role string `json:"role"`
			} `json:"controls"`
			VideoRect *struct{ W float64 } `json:"video_button_rect"`
		} `json:"frames"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Scenario != "demo" || out.Duration != 100 {
		t.Errorf("scenario, duration = %q, %v, want demo, 100", out.Scenario, out.Duration)
	}
	if len(out.Frames) != 2 {
		t.Fatalf("len(frames) = %d, want 2", len(out.Frames))
	}
	if out.Frames[0].VideoRect == nil || out.Frames[0].VideoRect.W != 60 {
		t.Errorf("video_button_rect = %+v, want a 60 wide rect", out.Frames[0].VideoRect)
	}
	if len(out.Frames[0].Controls) == 0 || out.Frames[0].Controls[0].Role == "" {
		t.Errorf("controls = %+v, want named roles", out.Frames[0].Controls)
	}
}

func TestRenderSVG(t *testing.T) {
	s, _ := newSurface()
	s.Buttons.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false, buttons.Immediate())
	s.Toasts.Update(toast.SetOf(toast.KindMute), "Alice", toast.Immediate())

	svg := string(RenderSVG(s.Capture(0, 0), WithLabels()))
	for _, want := range []string{"<svg", `id="control-mute"`, `id="control-acceptOrEnd"`, `id="toast-mute"`, `class="label"`, "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestInteractionOffHidesControls(t *testing.T) {
	s, _ := newSurface()
	s.Buttons.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false, buttons.Immediate())

	if svg := string(RenderSVG(s.Capture(0, 0))); strings.Contains(svg, `visibility="hidden"`) {
		t.Error("RenderSVG() hid controls with interaction enabled")
	}

	s.Buttons.SetInteractionEnabled(false)
	f := s.Capture(1, 0)
	if f.Interaction {
		t.Error("Interaction = true, want false")
	}
	for _, b := range f.Controls {
		if !b.Hidden {
			t.Errorf("%v Hidden = false, want true", b.Role)
		}
	}
	if got := strings.Count(string(RenderSVG(f)), `visibility="hidden"`); got != len(f.Controls) {
		t.Errorf("hidden control groups = %d, want %d", got, len(f.Controls))
	}
	data, err := RenderJSON([]Frame{f})
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"hidden": true`) {
		t.Error("RenderJSON() missing hidden controls")
	}
}

func TestRenderStripSVG(t *testing.T) {
	s, _ := newSurface()
	s.Buttons.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false, buttons.Immediate())
	frames := []Frame{s.Capture(0, 0), s.Capture(1, 0), s.Capture(2, 0)}

	svg := string(RenderStripSVG(frames))
	if got := strings.Count(svg, `class="frame"`); got != 3 {
		t.Errorf("frame groups = %d, want 3", got)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := escapeXML(`Tom & "Jerry" <3`); got != "Tom &amp; &#34;Jerry&#34; &lt;3" {
		t.Errorf("escapeXML() = %q", got)
	}
}

func TestDefaultIcons(t *testing.T) {
	for _, v := range []control.Visual{control.VisualAccept, control.VisualMute, control.VisualHeadphones} {
		if g := DefaultIcons.Resolve(v, TintLight); g.Symbol == "?" || g.Name != v.String() {
			t.Errorf("Resolve(%v) = %+v", v, g)
		}
	}
	if g := DefaultIcons.Resolve(control.VisualMute, TintDark); g.Color == "#ffffff" {
		t.Errorf("Resolve(dark).Color = %q, want a dark tint", g.Color)
	}
	if TintFor(control.Blurred(true)) != TintDark || TintFor(control.Solid(control.ColorRed)) != TintLight {
		t.Error("TintFor() mismatch")
	}
}
