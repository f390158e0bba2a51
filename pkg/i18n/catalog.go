// Package i18n supplies user-facing strings to the control surface.
//
// A [Catalog] maps string keys ("Call.Accept", "Call.CameraOff", ...) to
// localized text. [English] returns the built-in catalog; [Load] reads a TOML
// override file and layers it on top of English so a partial translation
// still yields a complete surface.
//
// Catalog file format:
//
//	lang = "de"
//
//	[strings]
//	"Call.Accept" = "Annehmen"
//	"Call.CameraOff" = "Kamera von **%@** ist aus"
//
// Templates use "%@" (or "%s") placeholders filled in order by
// [Catalog.Rich]. Values may contain inline markdown emphasis, which
// [ParseInline] turns into plain text plus styled spans. Arguments are
// always literal text.
package i18n

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/callsurface/pkg/errors"
)

// String keys used by the control surface.
const (
	KeyAccept            = "Call.Accept"
	KeyDecline           = "Call.Decline"
	KeyEnd               = "Call.End"
	KeyCamera            = "Call.Camera"
	KeyFlip              = "Call.Flip"
	KeySpeaker           = "Call.Speaker"
	KeyAudio             = "Call.Audio"
	KeyMute              = "Call.Mute"
	KeyHeadphones        = "Call.AudioRouteHeadphones"
	KeyCameraOff         = "Call.CameraOff"
	KeyMicrophoneOff     = "Call.MicrophoneOff"
	KeyYourMicrophoneOff = "Call.YourMicrophoneOff"
	KeyBatteryLow        = "Call.BatteryLow"
)

var english = map[string]string{
	KeyAccept:            "Accept",
	KeyDecline:           "Decline",
	KeyEnd:               "End",
	KeyCamera:            "Camera",
	KeyFlip:              "Flip",
	KeySpeaker:           "Speaker",
	KeyAudio:             "Audio",
	KeyMute:              "Mute",
	KeyHeadphones:        "Headphones",
	KeyCameraOff:         "%@'s camera is off",
	KeyMicrophoneOff:     "%@'s microphone is off",
	KeyYourMicrophoneOff: "Your microphone is off",
	KeyBatteryLow:        "%@'s battery is low",
}

// Catalog is an immutable set of localized strings.
type Catalog struct {
	lang    string
	entries map[string]string
}

// English returns the built-in English catalog.
func English() *Catalog {
	entries := make(map[string]string, len(english))
	for k, v := range english {
		entries[k] = v
	}
	return &Catalog{lang: "en", entries: entries}
}

type catalogFile struct {
	Lang    string            `toml:"lang"`
	Strings map[string]string `toml:"strings"`
}

// Parse decodes a TOML catalog and layers it over English.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode string catalog")
	}
	c := English()
	if f.Lang != "" {
		c.lang = f.Lang
	}
	for k, v := range f.Strings {
		c.entries[k] = v
	}
	return c, nil
}

// Load reads a TOML catalog from path. An empty path returns English.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return English(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "string catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read string catalog %s", path)
	}
	return Parse(data)
}

// Lang returns the catalog's language tag.
func (c *Catalog) Lang() string { return c.lang }

// String returns the text for key, or the key itself when it is missing.
func (c *Catalog) String(key string) string {
	if v, ok := c.entries[key]; ok {
		return v
	}
	return key
}

// Format fills the "%@" / "%s" placeholders of the template stored under key
// with args, in order, and returns the plain text.
func (c *Catalog) Format(key string, args ...string) string {
	return c.Rich(key, args...).Plain
}

// argMark stands in for an argument while the template is parsed.
const argMark = "\uE000"

// Rich fills the placeholders of the template stored under key and parses
// its inline markdown. Only the template is parsed; arguments are spliced
// into the result as literal text.
func (c *Catalog) Rich(key string, args ...string) Rich {
	tmpl := c.String(key)
	var b strings.Builder
	n := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) && (tmpl[i+1] == '@' || tmpl[i+1] == 's') {
			if n < len(args) {
				b.WriteString(argMark)
				n++
			}
			i++
			continue
		}
		b.WriteByte(tmpl[i])
	}
	return splice(ParseInline(b.String()), args[:n])
}

type shift struct{ at, by int }

// splice replaces each argMark in r.Plain with the next arg and moves the
// spans to match.
func splice(r Rich, args []string) Rich {
	if len(args) == 0 {
		return r
	}
	var (
		plain  strings.Builder
		shifts []shift
	)
	rest, pos := r.Plain, 0
	for _, a := range args {
		i := strings.Index(rest, argMark)
		if i < 0 {
			break
		}
		plain.WriteString(rest[:i])
		plain.WriteString(a)
		shifts = append(shifts, shift{at: pos + i, by: len(a) - len(argMark)})
		pos += i + len(argMark)
		rest = rest[i+len(argMark):]
	}
	plain.WriteString(rest)

	move := func(off int) int {
		out := off
		for _, s := range shifts {
			if off > s.at {
				out += s.by
			}
		}
		return out
	}
	var spans []Span
	for _, sp := range r.Spans {
		spans = append(spans, Span{Start: move(sp.Start), End: move(sp.End), Strong: sp.Strong})
	}
	return Rich{Plain: plain.String(), Spans: spans}
}
