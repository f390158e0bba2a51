package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

const minimal = `
name = "minimal"

[initial]
state = "incoming"

[[step]]
at = "100ms"
state = "active"
toasts = ["mute", "camera"]

[[step]]
at = "200ms"
tap = "mute"
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sc.Peer != DefaultPeer || sc.Sample.Duration != DefaultSample || sc.Tail.Duration != DefaultTail {
		t.Errorf("defaults = %q, %v, %v", sc.Peer, sc.Sample, sc.Tail)
	}
	if len(sc.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(sc.Steps))
	}
	if sc.Steps[1].Tap == nil || *sc.Steps[1].Tap != control.RoleMute {
		t.Errorf("Steps[1].Tap = %v, want mute", sc.Steps[1].Tap)
	}
	if got := sc.Duration(); got != 700*time.Millisecond {
		t.Errorf("Duration() = %v, want 700ms", got)
	}
	if got := sc.Frames(); got != 44 {
		t.Errorf("Frames() = %d, want 44", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"bad toml", `name = `, errors.ErrCodeInvalidScenario},
		{"unknown key", "name = \"x\"\ncolour = \"red\"", errors.ErrCodeInvalidScenario},
		{"missing name", `peer = "x"`, errors.ErrCodeInvalidScenario},
		{"bad width", "name = \"x\"\nwidth = -1", errors.ErrCodeInvalidWidth},
		{"out of order", "name = \"x\"\n[[step]]\nat = \"2s\"\nmuted = true\n[[step]]\nat = \"1s\"\nmuted = false", errors.ErrCodeInvalidScenario},
		{"empty step", "name = \"x\"\n[[step]]\nat = \"1s\"", errors.ErrCodeInvalidScenario},
		{"duplicate toast", "name = \"x\"\n[initial]\ntoasts = [\"mute\", \"mute\"]", errors.ErrCodeInvalidScenario},
		{"too many frames", "name = \"x\"\nsample = \"1ms\"\ntail = \"1h\"", errors.ErrCodeInvalidScenario},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestParseRejectsUnknownEnums(t *testing.T) {
	for _, src := range []string{
		"name = \"x\"\n[initial]\nstate = \"dialing\"",
		"name = \"x\"\n[initial]\nspeaker = \"walkie-talkie\"",
		"name = \"x\"\n[[step]]\nat = \"1s\"\ntap = \"hold\"",
		"name = \"x\"\n[[step]]\nat = \"1s\"\ntoasts = [\"signal\"]",
		"name = \"x\"\n[[step]]\nat = \"soon\"\nmuted = true",
	} {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("Parse(%q) error = nil, want error", src)
		}
	}
}

func TestChangeApply(t *testing.T) {
	sc, _ := Parse([]byte(minimal))
	s := sc.Start()
	if s.Snapshot.Class != callstate.ClassIncoming || s.Snapshot.Speaker != callstate.SpeakerModeBuiltin {
		t.Errorf("Start() = %+v, want incoming on builtin", s.Snapshot)
	}

	s = sc.Steps[0].Apply(s)
	if s.Snapshot.Class != callstate.ClassActive {
		t.Errorf("Class = %v, want active", s.Snapshot.Class)
	}
	if s.Toasts != toast.SetOf(toast.KindMute, toast.KindCamera) {
		t.Errorf("Toasts = %v, want mute+camera", s.Toasts.Kinds())
	}

	before := s
	if s = sc.Steps[1].Apply(s); s != before {
		t.Errorf("Apply(tap step) changed state: %+v", s)
	}
}

func TestEncodeIsStable(t *testing.T) {
	sc, _ := Parse([]byte(minimal))
	a, err := sc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	again, err := Parse(a)
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v\n%s", err, a)
	}
	b, _ := again.Encode()
	if string(a) != string(b) {
		t.Errorf("Encode() not stable:\n%s\n---\n%s", a, b)
	}
}

func TestBuiltins(t *testing.T) {
	names := Builtins()
	if len(names) < 4 {
		t.Fatalf("Builtins() = %v, want at least 4", names)
	}
	for _, name := range names {
		sc, err := Builtin(name)
		if err != nil {
			t.Errorf("Builtin(%q) error = %v", name, err)
			continue
		}
		if sc.Name != name {
			t.Errorf("Builtin(%q).Name = %q", name, sc.Name)
		}
	}
	if _, err := Builtin("missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Builtin(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.toml")
	if err := os.WriteFile(path, []byte(minimal), 0644); err != nil {
		t.Fatal(err)
	}
	if sc, err := Resolve(path); err != nil || sc.Name != "minimal" {
		t.Errorf("Resolve(file) = %v, %v", sc, err)
	}
	if sc, err := Resolve("video-call"); err != nil || sc.Name != "video-call" {
		t.Errorf("Resolve(builtin) = %v, %v", sc, err)
	}
	if _, err := Resolve(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Resolve(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
