package fsm

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/callsurface/pkg/render"
	"github.com/matzehuels/callsurface/pkg/surface/anim"
)

// Machine is a named state machine.
type Machine struct {
	Name    string
	Initial string
	Edges   []anim.Edge
}

// Press is the press bounce machine of a control.
func Press() Machine {
	return Machine{Name: "press", Initial: anim.PressIdle.String(), Edges: anim.PressEdges()}
}

// Morph is the on/off reveal machine of a control.
func Morph() Machine {
	return Machine{Name: "morph", Initial: anim.MorphIdle.String(), Edges: anim.MorphEdges()}
}

// Machines returns every machine by name.
func Machines() map[string]Machine {
	return map[string]Machine{"press": Press(), "morph": Morph()}
}

// States returns the machine's states in first-seen order, initial first.
func (m Machine) States() []string {
	out := []string{m.Initial}
	for _, e := range m.Edges {
		for _, s := range []string{e.From, e.To} {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Options configures DOT output.
type Options struct {
	// Clustered draws each machine inside a labelled box.
	Clustered bool
}

// ToDOT converts machines to one Graphviz digraph. State ids are prefixed
// with the machine name so machines sharing a state name stay separate.
func ToDOT(ms []Machine, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")

	for _, m := range ms {
		indent := "  "
		buf.WriteString("\n")
		if opts.Clustered {
			fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+m.Name)
			fmt.Fprintf(&buf, "    label=%q;\n", m.Name)
			indent = "    "
		}
		for _, s := range m.States() {
			attrs := fmt.Sprintf("label=%q", s)
			if s == m.Initial {
				attrs += ", penwidth=2"
			}
			fmt.Fprintf(&buf, "%s%q [%s];\n", indent, nodeID(m, s), attrs)
		}
		for _, e := range m.Edges {
			fmt.Fprintf(&buf, "%s%q -> %q [label=%q];\n", indent, nodeID(m, e.From), nodeID(m, e.To), e.Event)
		}
		if opts.Clustered {
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(m Machine, state string) string { return m.Name + "." + state }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
