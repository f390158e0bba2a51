package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/callsurface/pkg/render/frame"
	"github.com/matzehuels/callsurface/pkg/scenario"
	"github.com/matzehuels/callsurface/pkg/surface/anim"
	"github.com/matzehuels/callsurface/pkg/surface/buttons"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// EventKind classifies a recorded event.
type EventKind string

const (
	EventIntent   EventKind = "intent"   // a press completed and surfaced an intent
	EventRejected EventKind = "rejected" // a press or release was ignored
	EventUpdate   EventKind = "update"   // the call state was re-applied
)

// Event is something that happened while playing.
type Event struct {
	At     time.Duration   `json:"at"`
	Kind   EventKind       `json:"kind"`
	Role   string          `json:"role,omitempty"`
	Intent *control.Intent `json:"intent,omitempty"`
	Detail string          `json:"detail,omitempty"`
}

// Run is a played scenario.
type Run struct {
	Scenario *scenario.Scenario
	Hash     string
	Frames   []frame.Frame
	Events   []Event
}

// Intents returns the surfaced intents in order.
func (r *Run) Intents() []control.Intent {
	var out []control.Intent
	for _, e := range r.Events {
		if e.Kind == EventIntent && e.Intent != nil {
			out = append(out, *e.Intent)
		}
	}
	return out
}

// Stage is a pair of engines sharing one timeline. Player and Layout both
// build on it, and the TUI drives one directly.
type Stage struct {
	Timeline *anim.Timeline
	Buttons  *buttons.Engine
	Toasts   *toast.Engine
	Width    float64
	Peer     string
}

// NewStage creates engines at the options' bounds.
func NewStage(opts Options, logger *log.Logger) *Stage {
	opts.SetDefaults()
	tl := anim.NewTimeline()
	return &Stage{
		Timeline: tl,
		Buttons: buttons.New(tl, buttons.Config{
			Width:       opts.Width,
			BottomInset: opts.Inset(),
			Strings:     opts.Strings,
			Logger:      logger,
		}),
		Toasts: toast.New(tl, toast.Config{
			Width:    opts.Width,
			Strings:  opts.Strings,
			Measurer: opts.Measurer,
			Logger:   logger,
		}),
		Width: opts.Width,
		Peer:  scenario.DefaultPeer,
	}
}

// Apply pushes a scripted state into both engines.
func (s *Stage) Apply(st scenario.State, animated bool) {
	var (
		bopts []buttons.UpdateOption
		topts []toast.UpdateOption
	)
	if !animated {
		bopts = append(bopts, buttons.Immediate())
		topts = append(topts, toast.Immediate())
	}
	s.Buttons.UpdateState(st.Snapshot, st.Muted, bopts...)
	s.Toasts.Update(st.Toasts, s.Peer, topts...)
}

// Capture reads the current frame.
func (s *Stage) Capture(index int) frame.Frame {
	surf := frame.Surface{Sched: s.Timeline, Buttons: s.Buttons, Toasts: s.Toasts, Width: s.Width}
	return surf.Capture(index, s.Timeline.Now())
}

// player plays one scenario.
type player struct {
	stage    *Stage
	sc       *scenario.Scenario
	animated bool
	logger   *log.Logger
	events   []Event
}

func (p *player) play() []frame.Frame {
	state := p.sc.Start()
	p.stage.Apply(state, false)

	sample := p.sc.Sample.Duration
	end := p.sc.Duration()
	frames := make([]frame.Frame, 0, p.sc.Frames())
	steps := p.sc.Steps

	for at := time.Duration(0); at <= end; at += sample {
		for len(steps) > 0 && steps[0].At.Duration <= at {
			st := steps[0]
			steps = steps[1:]
			p.advanceTo(st.At.Duration)
			state = p.step(st, state)
		}
		p.advanceTo(at)
		frames = append(frames, p.stage.Capture(len(frames)))
	}
	return frames
}

func (p *player) advanceTo(at time.Duration) {
	if d := at - p.stage.Timeline.Now(); d > 0 {
		p.stage.Timeline.Advance(d)
	}
}

func (p *player) step(st scenario.Step, state scenario.State) scenario.State {
	at := p.stage.Timeline.Now()
	if !st.Change.Empty() {
		state = st.Apply(state)
		p.stage.Apply(state, p.animated && !st.Immediate)
		p.record(Event{At: at, Kind: EventUpdate, Detail: state.Snapshot.Class.String()})
	}
	if st.Interaction != nil {
		p.stage.Buttons.SetInteractionEnabled(*st.Interaction)
	}
	if st.Press != nil {
		if !p.stage.Buttons.PressDown(*st.Press) {
			p.record(Event{At: at, Kind: EventRejected, Role: st.Press.String(), Detail: "press"})
		}
	}
	if st.Release != nil {
		p.release(at, *st.Release)
	}
	if st.Tap != nil {
		if p.stage.Buttons.PressDown(*st.Tap) {
			p.release(at, *st.Tap)
		} else {
			p.record(Event{At: at, Kind: EventRejected, Role: st.Tap.String(), Detail: "tap"})
		}
	}
	return state
}

func (p *player) release(at time.Duration, r control.Role) {
	intent, ok := p.stage.Buttons.PressUp(r)
	if !ok {
		p.record(Event{At: at, Kind: EventRejected, Role: r.String(), Detail: "release"})
		return
	}
	p.record(Event{At: at, Kind: EventIntent, Role: r.String(), Intent: &intent})
}

func (p *player) record(e Event) {
	p.logger.Debug("scenario event", "at", e.At, "kind", e.Kind, "role", e.Role, "detail", e.Detail)
	p.events = append(p.events, e)
}
