// Package pkg provides the core libraries for Callsurface, the composition
// engine behind a call screen's buttons and toasts.
//
// # Overview
//
// Callsurface turns an observed call (incoming, ringing or active, with its
// audio route, video and mute flags) into a placed, animated control surface.
// The pkg directory is organized into four areas:
//
//  1. [surface] - Domain logic (controls, geometry, reconciliation, animation)
//  2. [render] - Frames and what they become (JSON, SVG, terminal, Graphviz)
//  3. [pipeline] - Orchestration (scenario → frames → artifacts)
//  4. Infrastructure: [cache], [config], [observability], [i18n], [errors]
//
// # Architecture
//
// The data flow for one call update:
//
//	callstate.Snapshot + muted
//	         ↓
//	    [surface/control] (derive the ordered controls and intents)
//	         ↓
//	    [surface/geometry] (pack them into rows and columns)
//	         ↓
//	    [surface/reconcile] (diff against what is shown)
//	         ↓
//	    [surface/anim] (fade, scale and move on a virtual timeline)
//	         ↓
//	    [render/frame] (capture, then write JSON or SVG)
//
// The toast stack follows the same path through [surface/toast].
//
// # Quick Start
//
// Compose the surface for an incoming call:
//
//	import (
//	    "github.com/matzehuels/callsurface/pkg/callstate"
//	    "github.com/matzehuels/callsurface/pkg/pipeline"
//	    "github.com/matzehuels/callsurface/pkg/scenario"
//	)
//
//	f, err := pipeline.Layout(pipeline.LayoutRequest{
//	    Snapshot: callstate.Incoming(callstate.SpeakerModeBuiltin, callstate.VideoState{}),
//	}, pipeline.Options{})
//
// Play a scripted scenario:
//
//	sc, _ := scenario.Builtin("incoming-answer")
//	result, err := pipeline.NewRunner(nil, nil, nil).Execute(ctx, sc, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//
// [surface]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/surface
// [surface/control]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/surface/control
// [surface/geometry]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/surface/geometry
// [surface/reconcile]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/surface/reconcile
// [surface/anim]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/surface/anim
// [surface/toast]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/surface/toast
// [render]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/render
// [render/frame]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/render/frame
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/observability
// [i18n]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/i18n
// [errors]: https://pkg.go.dev/github.com/matzehuels/callsurface/pkg/errors
package pkg
