// Package pipeline plays call-surface scenarios and renders what they show.
//
// This package implements the scenario → frames → artifacts pipeline used by
// the CLI and the HTTP server. By centralizing it, both entry points share
// defaults, validation and caching.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Play: drive the button and toast engines through a scenario on a
//     virtual timeline, sampling a frame every scenario.Sample
//  2. Render: write the frames as JSON, SVG, PNG or PDF
//
// Playing is deterministic, so rendered artifacts are cached under a key
// derived from the scenario's canonical encoding and the options that
// affect its output. A fully cached request skips playing altogether.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	sc, _ := scenario.Builtin("incoming-answer")
//	result, err := runner.Execute(ctx, sc, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	run, err := runner.Play(ctx, sc, opts)
//	artifacts, err := pipeline.Render(ctx, run, opts)
//
// For a single state with no timeline, use [Layout].
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/callsurface/pkg/cache"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/i18n"
	"github.com/matzehuels/callsurface/pkg/render/frame"
	"github.com/matzehuels/callsurface/pkg/text"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the container width of a typical phone in points.
	DefaultWidth = 390.0

	// DefaultBottomInset is the home-indicator safe area of that phone.
	DefaultBottomInset = 34.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. This struct supports
// JSON serialization for API requests. Scenario fields (width, bottom inset)
// override the options when set.
type Options struct {
	// Play options
	Width       float64  `json:"width,omitempty"`
	BottomInset *float64 `json:"bottom_inset,omitempty"`
	Immediate   bool     `json:"immediate,omitempty"` // apply state changes without animation

	// Render options
	Formats []string `json:"formats,omitempty"`
	Frame   *int     `json:"frame,omitempty"` // render one frame instead of all
	Labels  bool     `json:"labels,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG scale factor
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Strings  *i18n.Catalog `json:"-"`
	Measurer text.Measurer `json:"-"`
	Logger   *log.Logger   `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Run is the played scenario. It is nil when every artifact came from
	// the cache.
	Run *Run

	// Hash is the content hash of the scenario.
	Hash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Frames     int
	PlayTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.BottomInset == nil {
		inset := DefaultBottomInset
		o.BottomInset = &inset
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = 2
	}
	if o.Strings == nil {
		o.Strings = i18n.English()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every field.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := errors.ValidateWidth(o.Width); err != nil {
		return err
	}
	if err := errors.ValidateInset(*o.BottomInset); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Frame != nil && *o.Frame < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame cannot be negative, got %d", *o.Frame)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative, got %g", o.Scale)
	}
	return nil
}

// Inset returns the bottom inset, or the default when unset.
func (o *Options) Inset() float64 {
	if o.BottomInset == nil {
		return DefaultBottomInset
	}
	return *o.BottomInset
}

// RunKeyOpts returns cache key options for playing.
func (o *Options) RunKeyOpts() cache.RunKeyOpts {
	lang := ""
	if o.Strings != nil {
		lang = o.Strings.Lang()
	}
	return cache.RunKeyOpts{
		Width:       o.Width,
		BottomInset: o.Inset(),
		Animated:    !o.Immediate,
		Lang:        lang,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	f := -1
	if o.Frame != nil {
		f = *o.Frame
	}
	return cache.ArtifactKeyOpts{Format: format, Frame: f, Labels: o.Labels}
}

// SelectFrames returns the frames the options ask to render.
func (o *Options) SelectFrames(frames []frame.Frame) ([]frame.Frame, error) {
	if o.Frame == nil {
		return frames, nil
	}
	if *o.Frame >= len(frames) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "frame %d out of range (run has %d frames)", *o.Frame, len(frames))
	}
	return frames[*o.Frame : *o.Frame+1], nil
}
