package control

import (
	"reflect"
	"testing"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/errors"
)

func roles(ds []Descriptor) []Role {
	out := make([]Role, len(ds))
	for i, d := range ds {
		out[i] = d.Role
	}
	return out
}

func TestBuildOrdering(t *testing.T) {
	noVideo := callstate.VideoState{}
	videoIdle := callstate.VideoState{IsAvailable: true, CanChangeStatus: true}
	cameraOn := callstate.VideoState{IsAvailable: true, HasVideo: true, IsCameraActive: true, CanChangeStatus: true}
	screencast := callstate.VideoState{IsAvailable: true, HasVideo: true, IsScreencastActive: true, CanChangeStatus: true}

	tests := []struct {
		name       string
		snapshot   callstate.Snapshot
		wantTop    []Role
		wantBottom []Role
		wantTier   Tier
	}{
		{
			name:       "incoming audio",
			snapshot:   callstate.Incoming(callstate.SpeakerModeBuiltin, noVideo),
			wantTop:    []Role{RoleMute, RoleSoundOutput},
			wantBottom: []Role{RoleDecline, RoleAcceptOrEnd},
			wantTier:   TierLarge,
		},
		{
			name:       "incoming video available",
			snapshot:   callstate.Incoming(callstate.SpeakerModeBuiltin, videoIdle),
			wantTop:    []Role{RoleEnableCamera, RoleMute, RoleSoundOutput},
			wantBottom: []Role{RoleDecline, RoleAcceptOrEnd},
			wantTier:   TierLarge,
		},
		{
			name:       "incoming video running without route menu",
			snapshot:   callstate.Incoming(callstate.SpeakerModeBuiltin, cameraOn),
			wantTop:    []Role{RoleEnableCamera, RoleMute, RoleSwitchCamera},
			wantBottom: []Role{RoleDecline, RoleAcceptOrEnd},
			wantTier:   TierLarge,
		},
		{
			name: "incoming video running with route menu",
			snapshot: callstate.Snapshot{
				Class: callstate.ClassIncoming, Speaker: callstate.SpeakerModeBuiltin,
				HasAudioRouteMenu: true, Video: cameraOn,
			},
			wantTop:    []Role{RoleEnableCamera, RoleSoundOutput, RoleSwitchCamera},
			wantBottom: []Role{RoleDecline, RoleAcceptOrEnd},
			wantTier:   TierLarge,
		},
		{
			name:       "incoming screencast omits switch camera",
			snapshot:   callstate.Incoming(callstate.SpeakerModeBuiltin, screencast),
			wantTop:    []Role{RoleEnableCamera, RoleMute},
			wantBottom: []Role{RoleDecline, RoleAcceptOrEnd},
			wantTier:   TierLarge,
		},
		{
			name:       "outgoing ringing",
			snapshot:   callstate.Snapshot{Class: callstate.ClassOutgoingRinging, Speaker: callstate.SpeakerModeBuiltin},
			wantTop:    []Role{RoleMute, RoleSoundOutput},
			wantBottom: []Role{RoleAcceptOrEnd},
			wantTier:   TierLarge,
		},
		{
			name:     "active audio",
			snapshot: callstate.Active(callstate.SpeakerModeBuiltin, noVideo),
			wantTop:  []Role{RoleSoundOutput, RoleEnableCamera, RoleMute, RoleAcceptOrEnd},
			wantTier: TierSmall,
		},
		{
			name:     "active camera on",
			snapshot: callstate.Active(callstate.SpeakerModeSpeaker, cameraOn),
			wantTop:  []Role{RoleSwitchCamera, RoleEnableCamera, RoleMute, RoleAcceptOrEnd},
			wantTier: TierSmall,
		},
	}

	b := NewBuilder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := b.Build(tt.snapshot, false)
			if got := roles(l.Top); !reflect.DeepEqual(got, tt.wantTop) {
				t.Errorf("Top = %v, want %v", got, tt.wantTop)
			}
			if got := roles(l.Bottom); !reflect.DeepEqual(got, tt.wantBottom) && (len(got) != 0 || len(tt.wantBottom) != 0) {
				t.Errorf("Bottom = %v, want %v", got, tt.wantBottom)
			}
			if l.Tier != tt.wantTier {
				t.Errorf("Tier = %v, want %v", l.Tier, tt.wantTier)
			}

			seen := make(map[Role]bool)
			for _, d := range l.Descriptors() {
				if seen[d.Role] {
					t.Errorf("role %v appears twice", d.Role)
				}
				seen[d.Role] = true
			}

			if again := b.Build(tt.snapshot, false); !reflect.DeepEqual(l, again) {
				t.Error("Build is not deterministic")
			}
		})
	}
}

func TestBuildIncomingAudioCall(t *testing.T) {
	l := NewBuilder(nil).Build(callstate.Incoming(callstate.SpeakerModeBuiltin, callstate.VideoState{}), false)

	mute := l.Top[0]
	if mute.ToggledOn || mute.Appearance != Blurred(false) {
		t.Errorf("mute = %+v, want off and outline", mute)
	}
	sound := l.Top[1]
	if sound.Visual != VisualSpeaker || sound.ToggledOn {
		t.Errorf("soundOutput = %+v, want unfilled speaker", sound)
	}
	if l.Bottom[0].Visual != VisualEnd || l.Bottom[0].Label != "Decline" {
		t.Errorf("bottom[0] = %+v, want decline", l.Bottom[0])
	}
	if l.Bottom[1].Visual != VisualAccept || l.Bottom[1].Appearance != Solid(ColorGreen) {
		t.Errorf("bottom[1] = %+v, want green accept", l.Bottom[1])
	}
}

func TestBuildActiveVideoCameraOn(t *testing.T) {
	v := callstate.VideoState{IsAvailable: true, HasVideo: true, IsCameraActive: true, CanChangeStatus: true}
	l := NewBuilder(nil).Build(callstate.Active(callstate.SpeakerModeSpeaker, v), true)

	if sw := l.Top[0]; !sw.Enabled || sw.Visual.Morphs() {
		t.Errorf("switchCamera = %+v, want enabled and non-morphing", sw)
	}
	cam := l.Top[1]
	if cam.Appearance != Blurred(true) || !cam.ToggledOn {
		t.Errorf("enableCamera = %+v, want filled and on", cam)
	}
	if !cam.Accessibility.Traits.Has(TraitSelected) {
		t.Errorf("enableCamera traits = %v, want selected", cam.Accessibility.Traits)
	}
	if mute := l.Top[2]; !mute.ToggledOn || !mute.Accessibility.Traits.Has(TraitSelected) {
		t.Errorf("mute = %+v, want toggled on and selected", mute)
	}
	if end := l.Top[3]; end.Label != "End" || end.Visual != VisualEnd {
		t.Errorf("end = %+v, want End", end)
	}
}

func TestBuildCameraFilledOnlyWhenEnabled(t *testing.T) {
	v := callstate.VideoState{IsAvailable: true, HasVideo: true, IsCameraActive: true, IsInitializingCamera: true}
	l := NewBuilder(nil).Build(callstate.Active(callstate.SpeakerModeBuiltin, v), false)
	cam := l.Top[1]
	if cam.Appearance != Blurred(false) {
		t.Errorf("Appearance = %v, want outline while status cannot change", cam.Appearance)
	}
	if !cam.Accessibility.Traits.Has(TraitDisabled | TraitSelected) {
		t.Errorf("Traits = %v, want disabled,selected", cam.Accessibility.Traits)
	}
	if !cam.Loading {
		t.Error("Loading = false, want true")
	}
	if sw := l.Top[0]; sw.Enabled {
		t.Error("switchCamera should be disabled while the camera initializes")
	}
}

func TestBuildOutgoingEndLabel(t *testing.T) {
	s := callstate.Snapshot{Class: callstate.ClassOutgoingRinging, Speaker: callstate.SpeakerModeBuiltin}
	end := NewBuilder(nil).Build(s, false).Bottom[0]
	if end.Label != "" {
		t.Errorf("Label = %q, want empty", end.Label)
	}
	if end.Accessibility.Label != "End" {
		t.Errorf("Accessibility.Label = %q, want End", end.Accessibility.Label)
	}
}

func TestSoundOutputMapping(t *testing.T) {
	tests := []struct {
		mode      callstate.SpeakerMode
		visual    Visual
		label     string
		value     string
		toggledOn bool
	}{
		{callstate.SpeakerModeNone, VisualSpeaker, "Speaker", "", false},
		{callstate.SpeakerModeBuiltin, VisualSpeaker, "Speaker", "", false},
		{callstate.SpeakerModeSpeaker, VisualSpeaker, "Speaker", "", true},
		{callstate.SpeakerModeHeadphones, VisualHeadphones, "Audio", "Headphones", false},
		{callstate.BluetoothMode(callstate.BluetoothGeneric), VisualBluetooth, "Audio", "Bluetooth", false},
		{callstate.BluetoothMode(callstate.BluetoothAirPods), VisualAirPods, "Audio", "Airpods", false},
		{callstate.BluetoothMode(callstate.BluetoothAirPodsPro), VisualAirPodsPro, "Audio", "Airpods Pro", false},
		{callstate.BluetoothMode(callstate.BluetoothAirPodsMax), VisualAirPodsMax, "Audio", "Airpods Max", false},
	}

	b := NewBuilder(nil)
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			d := b.soundOutput(tt.mode)
			if d.Visual != tt.visual {
				t.Errorf("Visual = %v, want %v", d.Visual, tt.visual)
			}
			if d.Label != tt.label {
				t.Errorf("Label = %q, want %q", d.Label, tt.label)
			}
			if d.Accessibility.Value != tt.value {
				t.Errorf("Accessibility.Value = %q, want %q", d.Accessibility.Value, tt.value)
			}
			if d.ToggledOn != tt.toggledOn || (d.Appearance == Blurred(true)) != tt.toggledOn {
				t.Errorf("ToggledOn = %v, Appearance = %v, want on=%v", d.ToggledOn, d.Appearance, tt.toggledOn)
			}
		})
	}
}

func TestBuildUnknownClassPanics(t *testing.T) {
	defer func() {
		err, ok := recover().(*errors.Error)
		if !ok || err.Code != errors.ErrCodeInvalidState {
			t.Errorf("recover() = %v, want INVALID_STATE error", err)
		}
	}()
	NewBuilder(nil).Build(callstate.Snapshot{Class: callstate.Class(42)}, false)
}

func TestIntentFor(t *testing.T) {
	want := map[Role]Intent{
		RoleAccept:       IntentAcceptOrEnd,
		RoleAcceptOrEnd:  IntentAcceptOrEnd,
		RoleDecline:      IntentDecline,
		RoleEnableCamera: IntentToggleVideo,
		RoleSwitchCamera: IntentRotateCamera,
		RoleSoundOutput:  IntentToggleSpeakerMenu,
		RoleMute:         IntentToggleMute,
	}
	for _, r := range Roles() {
		if got := IntentFor(r); got != want[r] {
			t.Errorf("IntentFor(%v) = %v, want %v", r, got, want[r])
		}
	}

	defer func() {
		if err, ok := recover().(*errors.Error); !ok || err.Code != errors.ErrCodeUnknownRole {
			t.Errorf("IntentFor(unknown) did not panic with UNKNOWN_ROLE")
		}
	}()
	IntentFor(Role(99))
}

func TestVisualMorphs(t *testing.T) {
	for _, v := range []Visual{VisualFlipCamera, VisualEnd, VisualAccept, VisualCancel} {
		if v.Morphs() {
			t.Errorf("%v.Morphs() = true, want false", v)
		}
	}
	for _, v := range []Visual{VisualMute, VisualCamera, VisualSpeaker, VisualAirPods} {
		if !v.Morphs() {
			t.Errorf("%v.Morphs() = false, want true", v)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseRole("hangup"); err == nil {
		t.Error("ParseRole(hangup) error = nil")
	}
}
