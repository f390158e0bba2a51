// Package fsm draws the per-control press and morph state machines as
// Graphviz diagrams.
//
//	dot := fsm.ToDOT([]fsm.Machine{fsm.Press(), fsm.Morph()}, fsm.Options{Clustered: true})
//	svg, err := fsm.RenderSVG(ctx, dot)
//
// The edges come straight from the transition tables the animator runs, so
// the diagrams cannot drift from the behavior.
package fsm
