package control

import (
	"strconv"

	"github.com/matzehuels/callsurface/pkg/errors"
)

// Role is the stable identity of one control slot across renders. At most one
// live control exists per role.
type Role int

const (
	RoleAccept Role = iota
	RoleAcceptOrEnd
	RoleDecline
	RoleEnableCamera
	RoleSwitchCamera
	RoleSoundOutput
	RoleMute
)

// Roles returns every role in declaration order.
func Roles() []Role {
	return []Role{RoleAccept, RoleAcceptOrEnd, RoleDecline, RoleEnableCamera, RoleSwitchCamera, RoleSoundOutput, RoleMute}
}

// String returns the role's name. Unknown roles render as "Role(n)".
func (r Role) String() string {
	switch r {
	case RoleAccept:
		return "accept"
	case RoleAcceptOrEnd:
		return "acceptOrEnd"
	case RoleDecline:
		return "decline"
	case RoleEnableCamera:
		return "enableCamera"
	case RoleSwitchCamera:
		return "switchCamera"
	case RoleSoundOutput:
		return "soundOutput"
	case RoleMute:
		return "mute"
	}
	return "Role(" + strconv.Itoa(int(r)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRole converts a role name to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown control role %q", s)
}

// Intent is the action surfaced when a control is pressed.
type Intent int

const (
	IntentAcceptOrEnd Intent = iota
	IntentDecline
	IntentToggleVideo
	IntentRotateCamera
	IntentToggleSpeakerMenu
	IntentToggleMute
)

// String returns the intent's name.
func (i Intent) String() string {
	switch i {
	case IntentAcceptOrEnd:
		return "acceptOrEnd"
	case IntentDecline:
		return "decline"
	case IntentToggleVideo:
		return "toggleVideo"
	case IntentRotateCamera:
		return "rotateCamera"
	case IntentToggleSpeakerMenu:
		return "toggleSpeakerMenu"
	case IntentToggleMute:
		return "toggleMute"
	}
	return "Intent(" + strconv.Itoa(int(i)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// IntentFor maps a pressed role to its intent. It panics on an unknown role.
func IntentFor(r Role) Intent {
	switch r {
	case RoleAccept, RoleAcceptOrEnd:
		return IntentAcceptOrEnd
	case RoleDecline:
		return IntentDecline
	case RoleEnableCamera:
		return IntentToggleVideo
	case RoleSwitchCamera:
		return IntentRotateCamera
	case RoleSoundOutput:
		return IntentToggleSpeakerMenu
	case RoleMute:
		return IntentToggleMute
	}
	errors.Invariant(errors.ErrCodeUnknownRole, "no intent for role %v", r)
	return 0
}
