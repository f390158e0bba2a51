package i18n

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/callsurface/pkg/errors"
)

func TestEnglishDefaults(t *testing.T) {
	c := English()
	if got := c.String(KeyAccept); got != "Accept" {
		t.Errorf("String(%s) = %q, want %q", KeyAccept, got, "Accept")
	}
	if got := c.String("Call.Unknown"); got != "Call.Unknown" {
		t.Errorf("String(missing) = %q, want key", got)
	}
	if got := c.Format(KeyCameraOff, "Alice"); got != "Alice's camera is off" {
		t.Errorf("Format(CameraOff) = %q", got)
	}
	if got := c.Format(KeyYourMicrophoneOff, "ignored"); got != "Your microphone is off" {
		t.Errorf("Format(YourMicrophoneOff) = %q", got)
	}
}

func TestParseLayersOverEnglish(t *testing.T) {
	c, err := Parse([]byte(`
lang = "de"

[strings]
"Call.Accept" = "Annehmen"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Lang() != "de" {
		t.Errorf("Lang() = %q, want de", c.Lang())
	}
	if got := c.String(KeyAccept); got != "Annehmen" {
		t.Errorf("String(Accept) = %q, want Annehmen", got)
	}
	if got := c.String(KeyDecline); got != "Decline" {
		t.Errorf("String(Decline) = %q, want English fallback", got)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("lang = "))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Parse(invalid) code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	if err != nil || c.Lang() != "en" {
		t.Fatalf("Load(\"\") = %v, %v", c, err)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}

	path := filepath.Join(t.TempDir(), "fr.toml")
	if err := os.WriteFile(path, []byte("lang = \"fr\"\n[strings]\n\"Call.Mute\" = \"Muet\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.String(KeyMute); got != "Muet" {
		t.Errorf("String(Mute) = %q, want Muet", got)
	}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		plain string
		spans []Span
	}{
		{"plain", "Your microphone is off", "Your microphone is off", nil},
		{"strong", "**Alice**'s camera is off", "Alice's camera is off", []Span{{0, 5, true}}},
		{"emphasis", "battery is *low*", "battery is low", []Span{{11, 14, false}}},
		{"escaped", `A\*B is here`, "A*B is here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.in)
			if got.Plain != tt.plain {
				t.Errorf("Plain = %q, want %q", got.Plain, tt.plain)
			}
			if !reflect.DeepEqual(got.Spans, tt.spans) {
				t.Errorf("Spans = %v, want %v", got.Spans, tt.spans)
			}
		})
	}
}

func TestMarkdownInPeerIsLiteral(t *testing.T) {
	c, err := Parse([]byte(`[strings]
"Call.CameraOff" = "**%@** turned the camera off"
`))
	if err != nil {
		t.Fatal(err)
	}

	peers := []string{"*bob*", "- Bob", "+ Eve", "1. Ann", "= Max", "# Kim", "    Zed", "> Lu", "`x`", "[a](b)"}
	for _, peer := range peers {
		t.Run(peer, func(t *testing.T) {
			rich := c.Rich(KeyCameraOff, peer)
			if want := peer + " turned the camera off"; rich.Plain != want {
				t.Errorf("Plain = %q, want %q", rich.Plain, want)
			}
			want := []Span{{Start: 0, End: len(peer), Strong: true}}
			if !reflect.DeepEqual(rich.Spans, want) {
				t.Errorf("Spans = %v, want %v", rich.Spans, want)
			}
		})
	}

	for _, peer := range []string{"- Bob", "1. Ann", "    Zed"} {
		if got, want := English().Format(KeyCameraOff, peer), peer+"'s camera is off"; got != want {
			t.Errorf("Format(%q) = %q, want %q", peer, got, want)
		}
	}
}

func TestRichSplicesSeveralArguments(t *testing.T) {
	c, err := Parse([]byte(`[strings]
"Call.BatteryLow" = "%@ and *%@* are low"
`))
	if err != nil {
		t.Fatal(err)
	}
	rich := c.Rich(KeyBatteryLow, "**a**", "bee")
	if rich.Plain != "**a** and bee are low" {
		t.Errorf("Plain = %q", rich.Plain)
	}
	want := []Span{{Start: 10, End: 13, Strong: false}}
	if !reflect.DeepEqual(rich.Spans, want) {
		t.Errorf("Spans = %v, want %v", rich.Spans, want)
	}
}
