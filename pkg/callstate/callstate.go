// Package callstate defines the immutable call-state snapshot that drives the
// control surface.
//
// A [Snapshot] is a plain comparable value: callers build a new one for every
// change and hand it to the surface engines, which treat two equal snapshots
// as the same input. Nothing in this package is mutated in place.
//
// [Class], [SpeakerMode] and the bluetooth variants implement
// encoding.TextMarshaler and encoding.TextUnmarshaler so snapshots round-trip
// through JSON request bodies and TOML scenario files using readable names
// ("incoming", "airpods-pro", ...).
package callstate

import (
	"strings"

	"github.com/matzehuels/callsurface/pkg/errors"
)

// Class is the top-level call phase.
type Class int

const (
	ClassIncoming Class = iota
	ClassOutgoingRinging
	ClassActive
)

// Classes returns every call class in declaration order.
func Classes() []Class {
	return []Class{ClassIncoming, ClassOutgoingRinging, ClassActive}
}

// String returns the canonical name of the class.
func (c Class) String() string {
	switch c {
	case ClassIncoming:
		return "incoming"
	case ClassOutgoingRinging:
		return "outgoing-ringing"
	case ClassActive:
		return "active"
	}
	return "unknown"
}

// IsRinging reports whether the call has not been answered yet.
func (c Class) IsRinging() bool {
	return c == ClassIncoming || c == ClassOutgoingRinging
}

// ParseClass converts a class name to a Class.
func ParseClass(s string) (Class, error) {
	switch normalize(s) {
	case "incoming":
		return ClassIncoming, nil
	case "outgoing-ringing", "outgoing", "ringing":
		return ClassOutgoingRinging, nil
	case "active":
		return ClassActive, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidState, "unknown call state %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(b []byte) error {
	v, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Bluetooth identifies the kind of wireless headset carrying audio.
type Bluetooth int

const (
	BluetoothGeneric Bluetooth = iota
	BluetoothAirPods
	BluetoothAirPodsPro
	BluetoothAirPodsMax
)

// SpeakerKind is the audio route family.
type SpeakerKind int

const (
	SpeakerNone SpeakerKind = iota
	SpeakerBuiltin
	SpeakerLoud
	SpeakerHeadphones
	SpeakerBluetooth
)

// SpeakerMode is the current audio route. Bluetooth is only meaningful when
// Kind is SpeakerBluetooth.
type SpeakerMode struct {
	Kind      SpeakerKind
	Bluetooth Bluetooth
}

// Convenience constructors for the common routes.
var (
	SpeakerModeNone       = SpeakerMode{Kind: SpeakerNone}
	SpeakerModeBuiltin    = SpeakerMode{Kind: SpeakerBuiltin}
	SpeakerModeSpeaker    = SpeakerMode{Kind: SpeakerLoud}
	SpeakerModeHeadphones = SpeakerMode{Kind: SpeakerHeadphones}
)

// BluetoothMode returns a bluetooth speaker mode for the given variant.
func BluetoothMode(b Bluetooth) SpeakerMode {
	return SpeakerMode{Kind: SpeakerBluetooth, Bluetooth: b}
}

var speakerNames = []struct {
	name string
	mode SpeakerMode
}{
	{"none", SpeakerModeNone},
	{"builtin", SpeakerModeBuiltin},
	{"speaker", SpeakerModeSpeaker},
	{"headphones", SpeakerModeHeadphones},
	{"bluetooth", BluetoothMode(BluetoothGeneric)},
	{"airpods", BluetoothMode(BluetoothAirPods)},
	{"airpods-pro", BluetoothMode(BluetoothAirPodsPro)},
	{"airpods-max", BluetoothMode(BluetoothAirPodsMax)},
}

// SpeakerNames lists every accepted speaker mode name.
func SpeakerNames() []string {
	names := make([]string, len(speakerNames))
	for i, s := range speakerNames {
		names[i] = s.name
	}
	return names
}

// String returns the canonical name of the mode.
func (m SpeakerMode) String() string {
	if m.Kind != SpeakerBluetooth {
		m.Bluetooth = BluetoothGeneric
	}
	for _, s := range speakerNames {
		if s.mode == m {
			return s.name
		}
	}
	return "unknown"
}

// ParseSpeaker converts a speaker mode name to a SpeakerMode.
func ParseSpeaker(s string) (SpeakerMode, error) {
	n := normalize(s)
	for _, sn := range speakerNames {
		if sn.name == n {
			return sn.mode, nil
		}
	}
	return SpeakerMode{}, errors.New(errors.ErrCodeInvalidSpeaker,
		"unknown speaker mode %q (valid: %s)", s, strings.Join(SpeakerNames(), ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (m SpeakerMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SpeakerMode) UnmarshalText(b []byte) error {
	v, err := ParseSpeaker(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// VideoState describes camera and screencast availability.
type VideoState struct {
	IsAvailable          bool `json:"is_available" toml:"available"`
	IsCameraActive       bool `json:"is_camera_active" toml:"camera_active"`
	IsScreencastActive   bool `json:"is_screencast_active" toml:"screencast_active"`
	CanChangeStatus      bool `json:"can_change_status" toml:"can_change_status"`
	HasVideo             bool `json:"has_video" toml:"has_video"`
	IsInitializingCamera bool `json:"is_initializing_camera" toml:"initializing_camera"`
}

// CameraActive reports whether the local camera is live. Camera flags are
// ignored until the call carries video.
func (v VideoState) CameraActive() bool {
	return v.HasVideo && v.IsCameraActive
}

// ScreencastActive reports whether the screen is being shared.
func (v VideoState) ScreencastActive() bool {
	return v.HasVideo && v.IsScreencastActive
}

// Snapshot is one immutable observation of the call.
type Snapshot struct {
	Class             Class       `json:"state" toml:"state"`
	Speaker           SpeakerMode `json:"speaker" toml:"speaker"`
	HasAudioRouteMenu bool        `json:"has_audio_route_menu" toml:"audio_route_menu"`
	Video             VideoState  `json:"video" toml:"video"`
}

// Incoming returns a ringing incoming snapshot with the given route.
func Incoming(speaker SpeakerMode, video VideoState) Snapshot {
	return Snapshot{Class: ClassIncoming, Speaker: speaker, Video: video}
}

// Active returns an active-call snapshot with the given route.
func Active(speaker SpeakerMode, video VideoState) Snapshot {
	return Snapshot{Class: ClassActive, Speaker: speaker, Video: video}
}

// Validate checks that the enumerated fields hold known values.
func (s Snapshot) Validate() error {
	switch s.Class {
	case ClassIncoming, ClassOutgoingRinging, ClassActive:
	default:
		return errors.New(errors.ErrCodeInvalidState, "unknown call state %d", s.Class)
	}
	switch s.Speaker.Kind {
	case SpeakerNone, SpeakerBuiltin, SpeakerLoud, SpeakerHeadphones:
	case SpeakerBluetooth:
		if s.Speaker.Bluetooth < BluetoothGeneric || s.Speaker.Bluetooth > BluetoothAirPodsMax {
			return errors.New(errors.ErrCodeInvalidSpeaker, "unknown bluetooth variant %d", s.Speaker.Bluetooth)
		}
	default:
		return errors.New(errors.ErrCodeInvalidSpeaker, "unknown speaker kind %d", s.Speaker.Kind)
	}
	return nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}
