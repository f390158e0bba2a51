// Package render turns call-surface state into pictures.
//
// # Overview
//
//   - [frame]: captures what the engines show at one timeline instant and
//     writes it as JSON or SVG
//   - [term]: paints captured frames onto a terminal with tcell
//   - [fsm]: draws the press and morph state machines with Graphviz
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	svg := frame.RenderSVG(f)
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
