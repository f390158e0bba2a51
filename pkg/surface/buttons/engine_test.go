package buttons

import (
	"testing"
	"time"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/surface/anim"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/geometry"
)

var (
	noVideo    = callstate.VideoState{}
	videoReady = callstate.VideoState{IsAvailable: true, CanChangeStatus: true}
	cameraOn   = callstate.VideoState{IsAvailable: true, CanChangeStatus: true, HasVideo: true, IsCameraActive: true}
)

func newEngine() (*Engine, *anim.Timeline) {
	tl := anim.NewTimeline()
	return New(tl, Config{Width: 390, BottomInset: 34}), tl
}

func roles(e *Engine) []control.Role {
	var out []control.Role
	for _, c := range e.Controls() {
		out = append(out, c.Role)
	}
	return out
}

func equalRoles(a, b []control.Role) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func frameOf(e *Engine, tl *anim.Timeline, r control.Role) geometry.Rect {
	c, _ := e.Control(r)
	return anim.PresentationOr(tl, anim.Root(c.Handle), anim.PropFrame).Rect
}

func scalarOf(e *Engine, tl *anim.Timeline, r control.Role, p anim.Property) float64 {
	c, _ := e.Control(r)
	return anim.PresentationOr(tl, anim.Root(c.Handle), p).Scalar
}

func displayScale(e *Engine, tl *anim.Timeline, r control.Role) float64 {
	c, _ := e.Control(r)
	return anim.DisplayScale(tl, c.Handle)
}

func TestIncomingAudioCall(t *testing.T) {
	e, _ := newEngine()
	size := e.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, noVideo), false, Immediate())

	want := []control.Role{control.RoleMute, control.RoleSoundOutput, control.RoleDecline, control.RoleAcceptOrEnd}
	if got := roles(e); !equalRoles(got, want) {
		t.Fatalf("roles = %v, want %v", got, want)
	}
	if size.H != 76+84+76+66 {
		t.Errorf("height = %v, want %v", size.H, 76+84+76+66)
	}
	if size.W != 4*76+3*4.5 {
		t.Errorf("width = %v, want %v", size.W, 4*76+3*4.5)
	}

	for _, c := range e.Controls() {
		wantY := 0.0
		if c.Role == control.RoleDecline || c.Role == control.RoleAcceptOrEnd {
			wantY = LargeSize + TopBottomSpacing
		}
		if c.Rect.Y != wantY || c.Rect.W != LargeSize {
			t.Errorf("%v rect = %+v, want y=%v size %v", c.Role, c.Rect, wantY, LargeSize)
		}
	}
	if _, ok := e.VideoButtonRect(); ok {
		t.Error("VideoButtonRect() present without a camera control")
	}
}

func TestActiveVideoCameraOn(t *testing.T) {
	e, _ := newEngine()
	size := e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, cameraOn), false, Immediate())

	want := []control.Role{control.RoleSwitchCamera, control.RoleEnableCamera, control.RoleMute, control.RoleAcceptOrEnd}
	if got := roles(e); !equalRoles(got, want) {
		t.Fatalf("roles = %v, want %v", got, want)
	}
	if size.H != 60+53 {
		t.Errorf("height = %v, want 113", size.H)
	}

	cam, _ := e.Control(control.RoleEnableCamera)
	if !cam.Descriptor.ToggledOn || !cam.Toggle.VisualOn {
		t.Errorf("camera = %+v, want toggled on", cam)
	}
	rect, ok := e.VideoButtonRect()
	if !ok || rect != cam.Rect {
		t.Errorf("VideoButtonRect() = %v, %v, want %v", rect, ok, cam.Rect)
	}
	if rect.W != SmallSize || rect.X <= 60 {
		t.Errorf("camera rect = %+v, want second small slot", rect)
	}
}

func TestRingingToActiveStagger(t *testing.T) {
	e, tl := newEngine()
	e.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, videoReady), false, Immediate())
	before := map[control.Role]geometry.Rect{}
	for _, c := range e.Controls() {
		before[c.Role] = c.Rect
	}

	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, videoReady), false)

	tl.Advance(10 * time.Millisecond)
	if f := frameOf(e, tl, control.RoleMute); f != before[control.RoleMute] {
		t.Errorf("mute moved before its 15ms delay: %v", f)
	}
	if f := frameOf(e, tl, control.RoleEnableCamera); f == before[control.RoleEnableCamera] {
		t.Error("camera did not start moving at once")
	}

	tl.Advance(30 * time.Millisecond)
	if f := frameOf(e, tl, control.RoleAcceptOrEnd); f != before[control.RoleAcceptOrEnd] {
		t.Errorf("acceptOrEnd moved before its 45ms delay: %v", f)
	}
	if f := frameOf(e, tl, control.RoleMute); f == before[control.RoleMute] {
		t.Error("mute did not move after its delay")
	}

	tl.Settle(100)
	want := []control.Role{control.RoleSoundOutput, control.RoleEnableCamera, control.RoleMute, control.RoleAcceptOrEnd}
	if got := roles(e); !equalRoles(got, want) {
		t.Errorf("settled roles = %v, want %v", got, want)
	}
	end, _ := e.Control(control.RoleAcceptOrEnd)
	if end.Descriptor.Visual != control.VisualEnd || end.Handle == "" {
		t.Errorf("acceptOrEnd = %+v, want the end visual on the same control", end)
	}
}

func TestStaggerOnlyOnClassTransition(t *testing.T) {
	e, tl := newEngine()
	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, videoReady), false, Immediate())
	before := e.Controls()[3].Rect

	e.SetBounds(320, 34)
	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, videoReady), false)
	tl.Advance(10 * time.Millisecond)
	if f := frameOf(e, tl, control.RoleAcceptOrEnd); f == before {
		t.Error("end button waited without a state class transition")
	}
}

func TestDeclineShrinksMuteFades(t *testing.T) {
	e, tl := newEngine()
	ringing := callstate.Incoming(callstate.SpeakerModeBuiltin, cameraOn)
	e.UpdateState(ringing, false, Immediate())

	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, noVideo), false)
	menu := ringing
	menu.HasAudioRouteMenu = true

	tl.Advance(150 * time.Millisecond)
	decline, ok := e.Control(control.RoleDecline)
	if !ok || !decline.Removing {
		t.Fatalf("decline = %+v, %v, want removing", decline, ok)
	}
	if s := displayScale(e, tl, control.RoleDecline); s >= 1 {
		t.Errorf("decline scale = %v, want shrinking", s)
	}
	if s := displayScale(e, tl, control.RoleSwitchCamera); s != 1 {
		t.Errorf("switchCamera scale = %v, want 1", s)
	}

	tl.Settle(100)
	if _, ok := e.Control(control.RoleDecline); ok {
		t.Error("decline still live after removal")
	}

	e2, tl2 := newEngine()
	e2.UpdateState(ringing, false, Immediate())
	e2.UpdateState(menu, false)
	tl2.Advance(150 * time.Millisecond)
	mute, ok := e2.Control(control.RoleMute)
	if !ok || !mute.Removing {
		t.Fatalf("mute = %+v, %v, want removing", mute, ok)
	}
	if s := displayScale(e2, tl2, control.RoleMute); s != 1 {
		t.Errorf("mute scale = %v, want 1 (fade only)", s)
	}
	if a := scalarOf(e2, tl2, control.RoleMute, anim.PropAlpha); a >= 1 {
		t.Errorf("mute alpha = %v, want fading", a)
	}
}

func TestUpdateStateIsIdempotent(t *testing.T) {
	e, tl := newEngine()
	s := callstate.Active(callstate.SpeakerModeSpeaker, videoReady)
	first := e.UpdateState(s, true)
	tl.Settle(100)

	second := e.UpdateState(s, true)
	if second != first {
		t.Errorf("UpdateState() = %v, want %v", second, first)
	}
	if tl.Pending() != 0 {
		t.Errorf("Pending() = %d after equal update, want 0", tl.Pending())
	}

	e.SetBounds(320, 34)
	e.UpdateState(s, true)
	if tl.Pending() == 0 {
		t.Error("new bounds did not relayout")
	}
}

func TestPressEmitsIntent(t *testing.T) {
	var got []control.Intent
	tl := anim.NewTimeline()
	e := New(tl, Config{Width: 390, BottomInset: 34, OnPressed: func(i control.Intent) { got = append(got, i) }})
	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, videoReady), false, Immediate())

	tests := []struct {
		role control.Role
		want control.Intent
	}{
		{control.RoleMute, control.IntentToggleMute},
		{control.RoleSoundOutput, control.IntentToggleSpeakerMenu},
		{control.RoleEnableCamera, control.IntentToggleVideo},
		{control.RoleAcceptOrEnd, control.IntentAcceptOrEnd},
	}
	for _, tt := range tests {
		intent, ok := e.Tap(tt.role)
		if !ok || intent != tt.want {
			t.Errorf("Tap(%v) = %v, %v, want %v", tt.role, intent, ok, tt.want)
		}
		tl.Settle(100)
	}
	if len(got) != len(tests) {
		t.Errorf("OnPressed called %d times, want %d", len(got), len(tests))
	}
}

func TestPressFlipsToggle(t *testing.T) {
	e, tl := newEngine()
	s := callstate.Active(callstate.SpeakerModeBuiltin, noVideo)
	e.UpdateState(s, false, Immediate())

	if !e.PressDown(control.RoleMute) {
		t.Fatal("PressDown(mute) rejected")
	}
	if c, _ := e.Control(control.RoleMute); !c.Toggle.VisualOn || c.Press != anim.PressingIn {
		t.Errorf("mute after press = %+v, want on and pressing in", c)
	}
	e.PressUp(control.RoleMute)
	e.UpdateState(s, true)
	tl.Settle(100)
	if c, _ := e.Control(control.RoleMute); !c.Toggle.VisualOn || c.Toggle.Phase != anim.MorphIdle {
		t.Errorf("mute settled = %+v, want on and idle", c.Toggle)
	}
}

func TestRevivalKeepsPressInFlight(t *testing.T) {
	e, tl := newEngine()
	audio := callstate.Active(callstate.SpeakerModeBuiltin, noVideo)
	e.UpdateState(audio, false, Immediate())

	if !e.PressDown(control.RoleSoundOutput) {
		t.Fatal("PressDown(soundOutput) rejected")
	}
	tl.Advance(30 * time.Millisecond)

	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, cameraOn), false)
	if c, ok := e.Control(control.RoleSoundOutput); !ok || !c.Removing {
		t.Fatalf("soundOutput = %+v, %v, want removing", c, ok)
	}
	tl.Advance(10 * time.Millisecond)

	e.UpdateState(audio, false)
	if c, ok := e.Control(control.RoleSoundOutput); !ok || c.Removing || c.Press != anim.PressingIn {
		t.Fatalf("revived soundOutput = %+v, %v, want live and pressing in", c, ok)
	}
	if s := displayScale(e, tl, control.RoleSoundOutput); s >= 1 {
		t.Errorf("scale after revival = %v, want still pressed in", s)
	}

	if _, ok := e.PressUp(control.RoleSoundOutput); !ok {
		t.Fatal("PressUp(soundOutput) rejected")
	}
	if c, _ := e.Control(control.RoleSoundOutput); c.Press != anim.PressingInReleaseQueued {
		t.Errorf("Press = %v, want release queued", c.Press)
	}
	tl.Settle(100)
	c, _ := e.Control(control.RoleSoundOutput)
	if c.Press != anim.PressIdle {
		t.Errorf("Press after settle = %v, want idle", c.Press)
	}
	if s := displayScale(e, tl, control.RoleSoundOutput); s != 1 {
		t.Errorf("scale after settle = %v, want 1", s)
	}
}

func TestDisabledControlRejectsPress(t *testing.T) {
	e, _ := newEngine()
	v := videoReady
	v.CanChangeStatus = false
	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, v), false, Immediate())

	if e.PressDown(control.RoleEnableCamera) {
		t.Error("PressDown accepted a disabled camera")
	}
	if e.PressDown(control.RoleDecline) {
		t.Error("PressDown accepted an absent role")
	}
}

func TestSetInteractionEnabled(t *testing.T) {
	e, _ := newEngine()
	e.UpdateState(callstate.Active(callstate.SpeakerModeBuiltin, noVideo), false, Immediate())
	mute, _ := e.Control(control.RoleMute)
	center := geometry.Point{X: mute.Rect.MidX(), Y: mute.Rect.MidY()}

	if r, ok := e.HitTest(center); !ok || r != control.RoleMute {
		t.Fatalf("HitTest() = %v, %v, want mute", r, ok)
	}

	e.SetInteractionEnabled(false)
	if _, ok := e.HitTest(center); ok {
		t.Error("HitTest() hit while interaction disabled")
	}
	if _, ok := e.Tap(control.RoleMute); ok {
		t.Error("Tap() accepted while interaction disabled")
	}
	if got := len(e.Controls()); got != 4 {
		t.Errorf("len(Controls()) = %d, want 4 preserved", got)
	}

	e.SetInteractionEnabled(true)
	if _, ok := e.Tap(control.RoleMute); !ok {
		t.Error("Tap() rejected after re-enabling")
	}
}

func TestNarrowMetrics(t *testing.T) {
	tests := []struct {
		width float64
		want  Metrics
	}{
		{320, Metrics{SideInset: 16, LargeSideInset: 10}},
		{321, Metrics{SideInset: 34, LargeSideInset: 28}},
	}
	for _, tt := range tests {
		if got := MetricsFor(tt.width); got != tt.want {
			t.Errorf("MetricsFor(%v) = %+v, want %+v", tt.width, got, tt.want)
		}
	}
}

func TestStaggerDelays(t *testing.T) {
	tests := []struct {
		role control.Role
		want time.Duration
	}{
		{control.RoleEnableCamera, 0},
		{control.RoleMute, 15 * time.Millisecond},
		{control.RoleSwitchCamera, 30 * time.Millisecond},
		{control.RoleAcceptOrEnd, 45 * time.Millisecond},
		{control.RoleSoundOutput, 0},
		{control.RoleDecline, 0},
	}
	for _, tt := range tests {
		if got := staggerDelay(tt.role); got != tt.want {
			t.Errorf("staggerDelay(%v) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
