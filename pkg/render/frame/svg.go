package frame

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	stripGap    = 16.0
	labelOffset = 16.0
	labelSize   = 11.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	icons      IconResolver
	labels     bool
	background string
	timestamps bool
}

func WithIcons(r IconResolver) SVGOption    { return func(s *svgRenderer) { s.icons = r } }
func WithLabels() SVGOption                 { return func(s *svgRenderer) { s.labels = true } }
func WithBackground(color string) SVGOption { return func(s *svgRenderer) { s.background = color } }
func WithTimestamps() SVGOption             { return func(s *svgRenderer) { s.timestamps = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{icons: DefaultIcons, background: "#1c1c1e"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws one frame.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := f.Width, r.frameHeight(f)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	r.renderFrame(&buf, f, h)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderStripSVG draws frames left to right on one canvas.
func RenderStripSVG(frames []Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var cellW, cellH float64
	for _, f := range frames {
		cellW = max(cellW, f.Width)
		cellH = max(cellH, r.frameHeight(f))
	}
	total := float64(len(frames))*cellW + float64(max(len(frames)-1, 0))*stripGap

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", total, cellH, total, cellH)
	for i, f := range frames {
		fmt.Fprintf(&buf, `  <g class="frame" data-index="%d" transform="translate(%.1f 0)">`+"\n", f.Index, float64(i)*(cellW+stripGap))
		r.renderFrame(&buf, f, cellH)
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) frameHeight(f Frame) float64 {
	h := f.Height()
	if r.labels {
		h += labelOffset
	}
	if r.timestamps {
		h += labelOffset
	}
	return max(h, 1)
}

func (r svgRenderer) renderFrame(buf *bytes.Buffer, f Frame, h float64) {
	fmt.Fprintf(buf, `  <rect class="canvas" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", f.Width, h, r.background)
	for _, t := range f.Toasts {
		r.renderToast(buf, t)
	}
	top := f.ButtonsTop()
	for _, b := range f.Controls {
		r.renderButton(buf, b, top)
	}
	if r.timestamps {
		fmt.Fprintf(buf, `  <text class="timestamp" x="4" y="%.1f" font-size="%.0f" fill="#8e8e93">%.0fms</text>`+"\n",
			h-4, labelSize, ms(f.At))
	}
}

func (r svgRenderer) renderButton(buf *bytes.Buffer, b Button, top float64) {
	cx, cy := b.Rect.MidX(), top+b.Rect.MidY()
	radius := b.Rect.W / 2 * b.Scale
	fill, opacity := Background(b.Appearance)
	glyph := r.icons.Resolve(b.Visual, TintFor(b.Appearance))

	class := "control"
	if !b.Enabled {
		class += " disabled"
	}
	if b.Removing {
		class += " removing"
	}
	visibility := ""
	if b.Hidden {
		class += " hidden"
		visibility = ` visibility="hidden"`
	}
	fmt.Fprintf(buf, `  <g id="control-%s" class="%s" data-press="%s" data-morph="%s" opacity="%.3f"%s>`+"\n",
		b.Role, class, b.Press, b.Morph, b.Alpha, visibility)
	fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.2f"/>`+"\n", cx, cy, radius, fill, opacity)
	if b.Fill > 0 && b.Visual.Morphs() {
		fmt.Fprintf(buf, `    <circle class="reveal" cx="%.1f" cy="%.1f" r="%.2f" fill="#ffffff"/>`+"\n", cx, cy, radius*b.Fill)
	}
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		cx, cy, radius, glyph.Color, escapeXML(glyph.Symbol))
	if r.labels && b.Label != "" {
		fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle" fill="#ffffff">%s</text>`+"\n",
			cx, top+b.Rect.Y+b.Rect.H+labelOffset, labelSize, escapeXML(b.Label))
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) renderToast(buf *bytes.Buffer, t Toast) {
	bg := t.Background
	cx, cy := bg.MidX(), bg.MidY()
	glyph := r.icons.ResolveToast(t.Icon)

	fmt.Fprintf(buf, `  <g id="toast-%s" class="toast" opacity="%.3f" transform="translate(%.1f %.1f) translate(%.1f %.1f) scale(%.3f) translate(%.1f %.1f)">`+"\n",
		t.Kind, t.Alpha, t.Rect.X, t.Rect.Y, cx, cy, t.Scale, -cx, -cy)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="#000000" fill-opacity="0.6"/>`+"\n",
		bg.X, bg.Y, bg.W, bg.H, min(bg.H/2, 14))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="16" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		bg.X+t.IconRect.MidX(), bg.Y+t.IconRect.MidY(), glyph.Color, escapeXML(glyph.Symbol))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.0f" dominant-baseline="central" fill="#ffffff">%s</text>`+"\n",
		bg.X+t.TextRect.X, bg.Y+t.TextRect.MidY(), t.FontSize, escapeXML(t.Text))
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
