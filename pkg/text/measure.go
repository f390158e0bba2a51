// Package text measures strings for the control surface.
//
// The surface engines never lay out glyphs themselves; they ask a [Measurer]
// how large a string renders at a given font and wrap width. [CellMeasurer]
// is the built-in implementation: it treats the string as a run of terminal
// cells (East Asian wide runes take two cells) and scales cells to surface
// units by the font size, which is close enough for previews, SVG output and
// the terminal renderer.
package text

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/callsurface/pkg/surface/geometry"
)

// Font describes the face used to render a string.
type Font struct {
	Size float64
	Bold bool
}

// Regular returns a regular-weight font of the given size.
func Regular(size float64) Font { return Font{Size: size} }

// Measurer computes the rendered size of a string.
type Measurer interface {
	Measure(s string, font Font, maxWidth float64) geometry.Size
}

// Cell metrics relative to the font size.
const (
	DefaultAdvance    = 0.55
	DefaultLineHeight = 1.2
)

// CellMeasurer measures strings as monospace cells.
type CellMeasurer struct {
	Advance    float64 // Cell width as a fraction of the font size
	LineHeight float64 // Line height as a fraction of the font size
	MaxLines   int     // 0 means unlimited
}

// NewCellMeasurer returns a measurer with default metrics limited to maxLines.
func NewCellMeasurer(maxLines int) *CellMeasurer {
	return &CellMeasurer{Advance: DefaultAdvance, LineHeight: DefaultLineHeight, MaxLines: maxLines}
}

// Measure returns the bounding size of s wrapped to maxWidth.
func (m *CellMeasurer) Measure(s string, font Font, maxWidth float64) geometry.Size {
	lines := m.Lines(s, font, maxWidth)
	if len(lines) == 0 {
		return geometry.Size{}
	}
	cell := m.cellWidth(font)
	widest := 0
	for _, l := range lines {
		widest = max(widest, runewidth.StringWidth(l))
	}
	return geometry.Size{
		W: math.Ceil(float64(widest) * cell),
		H: math.Ceil(float64(len(lines)) * font.Size * m.lineHeight()),
	}
}

// Lines wraps s to maxWidth and applies the line limit, truncating the last
// kept line with an ellipsis.
func (m *CellMeasurer) Lines(s string, font Font, maxWidth float64) []string {
	if s == "" {
		return nil
	}
	cols := m.columns(font, maxWidth)
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, strings.Split(runewidth.Wrap(para, cols), "\n")...)
	}
	if m.MaxLines > 0 && len(lines) > m.MaxLines {
		last := strings.Join(lines[m.MaxLines-1:], " ")
		lines = append(lines[:m.MaxLines-1], runewidth.Truncate(last, cols, "…"))
	}
	return lines
}

func (m *CellMeasurer) columns(font Font, maxWidth float64) int {
	cell := m.cellWidth(font)
	if cell <= 0 || math.IsNaN(maxWidth) || math.IsInf(maxWidth, 1) {
		return math.MaxInt32
	}
	return max(1, int(math.Floor(maxWidth/cell)))
}

func (m *CellMeasurer) cellWidth(font Font) float64 {
	adv := m.Advance
	if adv <= 0 {
		adv = DefaultAdvance
	}
	if font.Bold {
		adv *= 1.05
	}
	return font.Size * adv
}

func (m *CellMeasurer) lineHeight() float64 {
	if m.LineHeight <= 0 {
		return DefaultLineHeight
	}
	return m.LineHeight
}
