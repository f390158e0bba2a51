// Package term paints captured frames onto a character-cell screen.
//
// The surface is scaled so its width fits the screen's columns. One cell is
// taken to be twice as tall as it is wide, so rows cover twice the surface
// units columns do. Each control is drawn as a bracketed glyph at its
// presentation center with its label underneath, and each toast as a
// centered line of text.
package term

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/callsurface/pkg/render/frame"
	"github.com/matzehuels/callsurface/pkg/surface/control"
)

// Option configures a Painter.
type Option func(*Painter)

// WithIcons replaces the glyph resolver.
func WithIcons(r frame.IconResolver) Option { return func(p *Painter) { p.icons = r } }

// WithLabels draws control labels under their glyphs.
func WithLabels() Option { return func(p *Painter) { p.labels = true } }

// WithStatus draws a one-line status footer with the frame time.
func WithStatus() Option { return func(p *Painter) { p.status = true } }

// Painter draws frames onto a tcell screen.
type Painter struct {
	screen tcell.Screen
	icons  frame.IconResolver
	labels bool
	status bool
}

var (
	styleBase     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleDim      = styleBase.Foreground(tcell.ColorGray)
	styleFilled   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleAccept   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorGreen)
	styleDecline  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
	styleToast    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	styleDisabled = styleBase.Foreground(tcell.ColorDimGray)
)

// NewPainter creates a painter drawing to s.
func NewPainter(s tcell.Screen, opts ...Option) *Painter {
	p := &Painter{screen: s, icons: frame.DefaultIcons}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grid maps surface units to cells.
type Grid struct {
	UnitX, UnitY float64
}

// Col returns the column of surface x.
func (g Grid) Col(x float64) int { return int(math.Floor(x / g.UnitX)) }

// Row returns the row of surface y.
func (g Grid) Row(y float64) int { return int(math.Floor(y / g.UnitY)) }

// GridFor fits a surface of the given width into cols columns.
func GridFor(width float64, cols int) Grid {
	if cols <= 0 || width <= 0 {
		return Grid{UnitX: 1, UnitY: 2}
	}
	u := width / float64(cols)
	return Grid{UnitX: u, UnitY: 2 * u}
}

// Paint clears the screen and draws f. Call Show to flush.
func (p *Painter) Paint(f frame.Frame) {
	p.screen.Clear()
	cols, rows := p.screen.Size()
	g := GridFor(f.Width, cols)

	for _, t := range f.Toasts {
		p.paintToast(g, t, cols)
	}
	top := f.ButtonsTop()
	for _, b := range f.Controls {
		p.paintButton(g, b, top)
	}
	if p.status && rows > 0 {
		line := fmt.Sprintf("t=%4dms  frame %d", f.At.Milliseconds(), f.Index)
		if !f.Interaction {
			line += "  interaction off"
		}
		p.put(0, rows-1, line, styleDim)
	}
}

// Show flushes pending changes to the terminal.
func (p *Painter) Show() { p.screen.Show() }

// Play paints frames in order, waiting between them for the difference of
// their timestamps divided by speed. It returns early when ctx is done.
func (p *Painter) Play(ctx context.Context, frames []frame.Frame, speed float64) error {
	if speed <= 0 {
		speed = 1
	}
	var prev time.Duration
	for i, f := range frames {
		if i > 0 {
			wait := time.Duration(float64(f.At-prev) / speed)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		prev = f.At
		p.Paint(f)
		p.Show()
	}
	return nil
}

func (p *Painter) paintButton(g Grid, b frame.Button, top float64) {
	if b.Hidden || b.Alpha < 0.05 {
		return
	}
	style := buttonStyle(b)
	glyph := p.icons.Resolve(b.Visual, frame.TintFor(b.Appearance))
	cell := "[" + glyph.Symbol + "]"
	if b.Scale < 0.95 {
		cell = " " + glyph.Symbol + " "
	}

	cx, cy := g.Col(b.Rect.MidX()), g.Row(top+b.Rect.MidY())
	p.put(cx-runewidth.StringWidth(cell)/2, cy, cell, style)

	if p.labels && b.Label != "" {
		width := max(g.Col(b.Rect.W)+2, 3)
		label := runewidth.Truncate(b.Label, width, "…")
		p.put(cx-runewidth.StringWidth(label)/2, cy+1, label, styleDim)
	}
}

func (p *Painter) paintToast(g Grid, t frame.Toast, cols int) {
	if t.Alpha < 0.05 {
		return
	}
	glyph := p.icons.ResolveToast(t.Icon)
	line := runewidth.Truncate(glyph.Symbol+" "+t.Text, cols, "…")
	x := (cols - runewidth.StringWidth(line)) / 2
	y := g.Row(t.Rect.Y + t.Background.MidY())
	p.put(x, y, line, styleToast)
}

func buttonStyle(b frame.Button) tcell.Style {
	var s tcell.Style
	switch {
	case !b.Enabled:
		s = styleDisabled
	case b.Appearance.Kind == control.AppearanceSolid && b.Appearance.Color == control.ColorGreen:
		s = styleAccept
	case b.Appearance.Kind == control.AppearanceSolid && b.Appearance.Color == control.ColorRed:
		s = styleDecline
	case b.Fill >= 0.5:
		s = styleFilled
	default:
		s = styleBase
	}
	if b.Alpha < 0.5 {
		s = s.Dim(true)
	}
	if b.Scale < 1 && !b.Removing {
		s = s.Reverse(true)
	}
	return s
}

func (p *Painter) put(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		p.screen.SetContent(x, y, r, nil, style)
		x += w
	}
}
