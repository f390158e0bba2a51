package scenario

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// Defaults applied by SetDefaults.
const (
	DefaultSample = 16 * time.Millisecond
	DefaultTail   = 500 * time.Millisecond
	DefaultPeer   = "Alice"

	// MaxFrames bounds the number of samples a scenario may produce.
	MaxFrames = 5000
)

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration struct{ time.Duration }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return errors.New(errors.ErrCodeInvalidScenario, "invalid duration %q", b)
	}
	d.Duration = v
	return nil
}

// Scenario is a timed script of call state changes and user presses.
type Scenario struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description,omitempty"`
	Peer        string   `toml:"peer,omitempty"`
	Width       float64  `toml:"width,omitempty"`
	BottomInset *float64 `toml:"bottom_inset,omitempty"`
	Sample      Duration `toml:"sample,omitempty"`
	Tail        Duration `toml:"tail,omitempty"`
	Initial     Change   `toml:"initial"`
	Steps       []Step   `toml:"step"`
}

// Change overrides parts of the observed call. Nil fields keep their value.
type Change struct {
	State          *callstate.Class       `toml:"state,omitempty"`
	Speaker        *callstate.SpeakerMode `toml:"speaker,omitempty"`
	AudioRouteMenu *bool                  `toml:"audio_route_menu,omitempty"`
	Video          *callstate.VideoState  `toml:"video,omitempty"`
	Muted          *bool                  `toml:"muted,omitempty"`
	Toasts         *[]toast.Kind          `toml:"toasts,omitempty"`
}

// Empty reports whether c changes nothing.
func (c Change) Empty() bool {
	return c == Change{}
}

// Step is one scripted moment. Its call change is applied first, then the
// interaction flag, then any press, release or tap.
type Step struct {
	At Duration `toml:"at"`
	Change

	Immediate   bool          `toml:"immediate,omitempty"`
	Interaction *bool         `toml:"interaction,omitempty"`
	Press       *control.Role `toml:"press,omitempty"`
	Release     *control.Role `toml:"release,omitempty"`
	Tap         *control.Role `toml:"tap,omitempty"`
}

// State is the accumulated call a scenario has scripted so far.
type State struct {
	Snapshot callstate.Snapshot
	Muted    bool
	Toasts   toast.Set
}

// Apply returns s with c's non-nil fields applied.
func (c Change) Apply(s State) State {
	if c.State != nil {
		s.Snapshot.Class = *c.State
	}
	if c.Speaker != nil {
		s.Snapshot.Speaker = *c.Speaker
	}
	if c.AudioRouteMenu != nil {
		s.Snapshot.HasAudioRouteMenu = *c.AudioRouteMenu
	}
	if c.Video != nil {
		s.Snapshot.Video = *c.Video
	}
	if c.Muted != nil {
		s.Muted = *c.Muted
	}
	if c.Toasts != nil {
		s.Toasts = toast.SetOf(*c.Toasts...)
	}
	return s
}

// Start is the state before the first step.
func (sc *Scenario) Start() State {
	return sc.Initial.Apply(State{Snapshot: callstate.Snapshot{Speaker: callstate.SpeakerModeBuiltin}})
}

// Duration is the time of the last step plus the tail.
func (sc *Scenario) Duration() time.Duration {
	var last time.Duration
	if n := len(sc.Steps); n > 0 {
		last = sc.Steps[n-1].At.Duration
	}
	return last + sc.Tail.Duration
}

// Frames is the number of samples the scenario produces, both ends included.
func (sc *Scenario) Frames() int {
	if sc.Sample.Duration <= 0 {
		return 1
	}
	return int(sc.Duration()/sc.Sample.Duration) + 1
}

// SetDefaults fills unset fields.
func (sc *Scenario) SetDefaults() {
	if sc.Peer == "" {
		sc.Peer = DefaultPeer
	}
	if sc.Sample.Duration == 0 {
		sc.Sample.Duration = DefaultSample
	}
	if sc.Tail.Duration == 0 {
		sc.Tail.Duration = DefaultTail
	}
}

// Validate checks the scenario for errors. Call SetDefaults first.
func (sc *Scenario) Validate() error {
	if err := errors.ValidateScenarioName(sc.Name); err != nil {
		return err
	}
	if sc.Width != 0 {
		if err := errors.ValidateWidth(sc.Width); err != nil {
			return err
		}
	}
	if sc.BottomInset != nil {
		if err := errors.ValidateInset(*sc.BottomInset); err != nil {
			return err
		}
	}
	if sc.Sample.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "sample interval must be positive, got %s", sc.Sample)
	}
	if sc.Tail.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "tail cannot be negative, got %s", sc.Tail)
	}
	if err := validateChange(sc.Initial, "initial"); err != nil {
		return err
	}

	var prev time.Duration
	for i, st := range sc.Steps {
		where := fmt.Sprintf("step %d", i+1)
		if st.At.Duration < 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "%s: at cannot be negative", where)
		}
		if st.At.Duration < prev {
			return errors.New(errors.ErrCodeInvalidScenario, "%s: at %s is before the previous step (%s)", where, st.At, prev)
		}
		prev = st.At.Duration
		if err := validateChange(st.Change, where); err != nil {
			return err
		}
		if st.Change.Empty() && st.Interaction == nil && st.Press == nil && st.Release == nil && st.Tap == nil {
			return errors.New(errors.ErrCodeInvalidScenario, "%s does nothing", where)
		}
	}

	if n := sc.Frames(); n > MaxFrames {
		return errors.New(errors.ErrCodeInvalidScenario,
			"scenario samples %d frames (max %d): raise sample or shorten the script", n, MaxFrames)
	}
	return nil
}

func validateChange(c Change, where string) error {
	s := c.Apply(State{Snapshot: callstate.Snapshot{Speaker: callstate.SpeakerModeBuiltin}}).Snapshot
	if err := s.Validate(); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "%s", where)
	}
	if c.Toasts != nil {
		seen := map[toast.Kind]bool{}
		for _, k := range *c.Toasts {
			if seen[k] {
				return errors.New(errors.ErrCodeInvalidScenario, "%s: toast %s listed twice", where, k)
			}
			seen[k] = true
		}
	}
	return nil
}

// Parse decodes a scenario from TOML, applies defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, errors.New(errors.ErrCodeInvalidScenario, "unknown scenario keys: %s", strings.Join(keys, ", "))
	}
	sc.SetDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scenario %s", path)
		}
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Encode writes the scenario in canonical TOML. Equal scenarios encode to
// equal bytes, so the encoding keys caches.
func (sc *Scenario) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(sc); err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	return buf.Bytes(), nil
}
