// Package control derives the ordered set of call-screen controls from a call
// snapshot.
//
// [Builder.Build] is a pure function of (snapshot, mute flag): it decides
// which roles are present, in which order and group, and what each control
// shows. Geometry is not computed here; the caller feeds the resulting
// [Layout] to the geometry solver using the tier the layout asks for.
//
// # Ordering rules
//
// Ringing (incoming and outgoing) uses the large tier with two groups:
//
//	top, no video available   [mute, soundOutput]
//	top, video, none running  [enableCamera, mute, soundOutput]
//	top, video running        [enableCamera, soundOutput|mute, switchCamera?]
//	bottom, incoming          [decline, accept]
//	bottom, outgoing          [end]
//
// While video runs the second slot is soundOutput when an audio-route menu
// exists and mute otherwise; switchCamera is omitted while screencasting.
//
// Active calls use the small tier with one row:
//
//	[switchCamera|soundOutput, enableCamera, mute, end]
//
// The accept and end buttons share the acceptOrEnd role, so answering a call
// turns the accept button into the end button in place.
package control

import (
	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/i18n"
)

// Localizer supplies user-facing strings by key.
type Localizer interface {
	String(key string) string
}

// Tier is the size class a layout is solved with.
type Tier int

const (
	TierLarge Tier = iota // ringing, 76-unit controls
	TierSmall             // active, 60-unit controls
)

// String returns "large" or "small".
func (t Tier) String() string {
	if t == TierSmall {
		return "small"
	}
	return "large"
}

// Layout is the builder's output: ordered descriptors split into the groups
// the geometry solver lays out independently.
type Layout struct {
	Class  callstate.Class
	Tier   Tier
	Top    []Descriptor
	Bottom []Descriptor
}

// Descriptors returns the top group followed by the bottom group.
func (l Layout) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(l.Top)+len(l.Bottom))
	out = append(out, l.Top...)
	return append(out, l.Bottom...)
}

// Builder maps call snapshots to control layouts.
type Builder struct {
	strings Localizer
}

// NewBuilder creates a builder using l for labels. A nil localizer falls
// back to English.
func NewBuilder(l Localizer) *Builder {
	if l == nil {
		l = i18n.English()
	}
	return &Builder{strings: l}
}

// Build derives the control layout for a snapshot.
func (b *Builder) Build(s callstate.Snapshot, muted bool) Layout {
	switch s.Class {
	case callstate.ClassIncoming, callstate.ClassOutgoingRinging:
		return Layout{
			Class:  s.Class,
			Tier:   TierLarge,
			Top:    b.ringingTop(s, muted),
			Bottom: b.ringingBottom(s.Class),
		}
	case callstate.ClassActive:
		return Layout{
			Class: s.Class,
			Tier:  TierSmall,
			Top:   b.activeRow(s, muted),
		}
	}
	errors.Invariant(errors.ErrCodeInvalidState, "no layout for call state %v", s.Class)
	return Layout{}
}

func (b *Builder) ringingTop(s callstate.Snapshot, muted bool) []Descriptor {
	v := s.Video
	if !v.IsAvailable {
		return []Descriptor{b.mute(muted), b.soundOutput(s.Speaker)}
	}

	top := []Descriptor{b.camera(v)}
	if !v.HasVideo {
		return append(top, b.mute(muted), b.soundOutput(s.Speaker))
	}
	if s.HasAudioRouteMenu {
		top = append(top, b.soundOutput(s.Speaker))
	} else {
		top = append(top, b.mute(muted))
	}
	if !v.ScreencastActive() {
		top = append(top, b.switchCamera(v))
	}
	return top
}

func (b *Builder) ringingBottom(c callstate.Class) []Descriptor {
	if c == callstate.ClassIncoming {
		return []Descriptor{b.decline(), b.accept()}
	}
	return []Descriptor{b.end("")}
}

func (b *Builder) activeRow(s callstate.Snapshot, muted bool) []Descriptor {
	v := s.Video
	row := make([]Descriptor, 0, 4)
	if v.CameraActive() {
		row = append(row, b.switchCamera(v))
	} else {
		row = append(row, b.soundOutput(s.Speaker))
	}
	return append(row, b.camera(v), b.mute(muted), b.end(b.strings.String(i18n.KeyEnd)))
}

func (b *Builder) accept() Descriptor {
	return Descriptor{
		Role:       RoleAcceptOrEnd,
		Visual:     VisualAccept,
		Appearance: Solid(ColorGreen),
		Label:      b.strings.String(i18n.KeyAccept),
		Enabled:    true,
	}.withTraits()
}

func (b *Builder) decline() Descriptor {
	return Descriptor{
		Role:       RoleDecline,
		Visual:     VisualEnd,
		Appearance: Solid(ColorRed),
		Label:      b.strings.String(i18n.KeyDecline),
		Enabled:    true,
	}.withTraits()
}

// end builds the hang-up control. An empty label still gets the End
// accessibility label.
func (b *Builder) end(label string) Descriptor {
	return Descriptor{
		Role:          RoleAcceptOrEnd,
		Visual:        VisualEnd,
		Appearance:    Solid(ColorRed),
		Label:         label,
		Enabled:       true,
		Accessibility: Accessibility{Label: b.strings.String(i18n.KeyEnd)},
	}.withTraits()
}

func (b *Builder) camera(v callstate.VideoState) Descriptor {
	active := v.CameraActive() || v.ScreencastActive()
	enabled := v.CanChangeStatus
	return Descriptor{
		Role:       RoleEnableCamera,
		Visual:     VisualCamera,
		Appearance: Blurred(active && enabled),
		Label:      b.strings.String(i18n.KeyCamera),
		Enabled:    enabled,
		ToggledOn:  active,
		Loading:    v.IsInitializingCamera,
		Screencast: v.ScreencastActive(),
	}.withTraits()
}

func (b *Builder) switchCamera(v callstate.VideoState) Descriptor {
	return Descriptor{
		Role:       RoleSwitchCamera,
		Visual:     VisualFlipCamera,
		Appearance: Blurred(false),
		Label:      b.strings.String(i18n.KeyFlip),
		Enabled:    v.CameraActive() && !v.IsInitializingCamera,
	}.withTraits()
}

func (b *Builder) mute(muted bool) Descriptor {
	return Descriptor{
		Role:       RoleMute,
		Visual:     VisualMute,
		Appearance: Blurred(muted),
		Label:      b.strings.String(i18n.KeyMute),
		Enabled:    true,
		ToggledOn:  muted,
	}.withTraits()
}

func (b *Builder) soundOutput(m callstate.SpeakerMode) Descriptor {
	d := Descriptor{
		Role:    RoleSoundOutput,
		Visual:  VisualSpeaker,
		Label:   b.strings.String(i18n.KeySpeaker),
		Enabled: true,
	}
	switch m.Kind {
	case callstate.SpeakerNone, callstate.SpeakerBuiltin:
	case callstate.SpeakerLoud:
		d.ToggledOn = true
	case callstate.SpeakerHeadphones:
		d.Visual = VisualHeadphones
		d.Label = b.strings.String(i18n.KeyAudio)
		d.Accessibility.Value = b.strings.String(i18n.KeyHeadphones)
	case callstate.SpeakerBluetooth:
		d.Label = b.strings.String(i18n.KeyAudio)
		switch m.Bluetooth {
		case callstate.BluetoothGeneric:
			d.Visual, d.Accessibility.Value = VisualBluetooth, "Bluetooth"
		case callstate.BluetoothAirPods:
			d.Visual, d.Accessibility.Value = VisualAirPods, "Airpods"
		case callstate.BluetoothAirPodsPro:
			d.Visual, d.Accessibility.Value = VisualAirPodsPro, "Airpods Pro"
		case callstate.BluetoothAirPodsMax:
			d.Visual, d.Accessibility.Value = VisualAirPodsMax, "Airpods Max"
		default:
			errors.Invariant(errors.ErrCodeInvalidSpeaker, "unknown bluetooth variant %d", m.Bluetooth)
		}
	default:
		errors.Invariant(errors.ErrCodeInvalidSpeaker, "unknown speaker kind %d", m.Kind)
	}
	d.Appearance = Blurred(d.ToggledOn)
	return d.withTraits()
}
