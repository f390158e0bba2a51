package anim

import (
	"sort"
	"time"
)

// Press and morph timing.
const (
	PressDuration = 100 * time.Millisecond
	MorphDuration = 100 * time.Millisecond

	PressedScale = 0.9
	RestingScale = 1.0

	// MaskHidden is the mask scale that collapses a layer to a point.
	MaskHidden = 0.0001
	// MaskShown is the identity mask scale.
	MaskShown = 1.0
)

// MaskScale returns the lockstep mask scale for a visual state.
func MaskScale(on bool) float64 {
	if on {
		return MaskHidden
	}
	return MaskShown
}

// PressPhase is the state of the press bounce.
type PressPhase int

const (
	PressIdle PressPhase = iota
	PressingIn
	PressingInReleaseQueued
	PressHeld
	PressingOut
)

// String returns the phase name.
func (p PressPhase) String() string {
	switch p {
	case PressingIn:
		return "pressingIn"
	case PressingInReleaseQueued:
		return "pressingInReleaseQueued"
	case PressHeld:
		return "held"
	case PressingOut:
		return "pressingOut"
	}
	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (p PressPhase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// PressEvent drives the press state machine.
type PressEvent int

const (
	PressDown PressEvent = iota
	PressUp
	PressInDone
	PressOutDone
)

// String returns the event name.
func (e PressEvent) String() string {
	switch e {
	case PressUp:
		return "up"
	case PressInDone:
		return "inDone"
	case PressOutDone:
		return "outDone"
	}
	return "down"
}

type pressEffect int

const (
	effectNone pressEffect = iota
	effectStartIn
	effectStartOut
)

type pressStep struct {
	next   PressPhase
	effect pressEffect
}

// pressTable is the complete press state machine. Pairs that are absent are
// ignored: a release without a press, a stale completion, a second press
// while held.
var pressTable = map[PressPhase]map[PressEvent]pressStep{
	PressIdle: {
		PressDown: {PressingIn, effectStartIn},
	},
	PressingIn: {
		PressUp:     {PressingInReleaseQueued, effectNone},
		PressInDone: {PressHeld, effectNone},
	},
	PressingInReleaseQueued: {
		PressInDone: {PressingOut, effectStartOut},
		PressDown:   {PressingIn, effectStartIn},
	},
	PressHeld: {
		PressUp: {PressingOut, effectStartOut},
	},
	PressingOut: {
		PressOutDone: {PressIdle, effectNone},
		PressDown:    {PressingIn, effectStartIn},
	},
}

// PressTransition returns the phase after e, and false when e is ignored in
// phase p.
func PressTransition(p PressPhase, e PressEvent) (PressPhase, bool) {
	step, ok := pressTable[p][e]
	return step.next, ok
}

// Edge is one labelled transition of a state machine.
type Edge struct {
	From, To string
	Event    string
}

// PressEdges lists the press state machine, sorted for stable output.
func PressEdges() []Edge {
	var out []Edge
	for from, events := range pressTable {
		for ev, step := range events {
			out = append(out, Edge{From: from.String(), To: step.next.String(), Event: ev.String()})
		}
	}
	sortEdges(out)
	return out
}

// MorphPhase is the state of the on/off reveal.
type MorphPhase int

const (
	MorphIdle MorphPhase = iota
	MorphAnimatingIn
	MorphAnimatingOut
)

// String returns the phase name.
func (m MorphPhase) String() string {
	switch m {
	case MorphAnimatingIn:
		return "animatingIn"
	case MorphAnimatingOut:
		return "animatingOut"
	}
	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (m MorphPhase) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// morphTable maps (phase, target on) to the next phase. Reaching the target
// goes through morphDone.
var morphTable = map[MorphPhase]map[bool]MorphPhase{
	MorphIdle:         {true: MorphAnimatingIn, false: MorphAnimatingOut},
	MorphAnimatingIn:  {false: MorphAnimatingOut},
	MorphAnimatingOut: {true: MorphAnimatingIn},
}

// MorphEdges lists the morph state machine, sorted for stable output.
func MorphEdges() []Edge {
	out := []Edge{
		{From: MorphAnimatingIn.String(), To: MorphIdle.String(), Event: "done"},
		{From: MorphAnimatingOut.String(), To: MorphIdle.String(), Event: "done"},
	}
	for from, targets := range morphTable {
		for on, to := range targets {
			ev := "toggleOff"
			if on {
				ev = "toggleOn"
			}
			out = append(out, Edge{From: from.String(), To: to.String(), Event: ev})
		}
	}
	sortEdges(out)
	return out
}

func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].From != es[j].From {
			return es[i].From < es[j].From
		}
		return es[i].Event < es[j].Event
	})
}

// ToggleAnimationState is the morph state of one control.
type ToggleAnimationState struct {
	VisualOn        bool       `json:"visual_on"`
	Phase           MorphPhase `json:"phase"`
	PendingReversal bool       `json:"pending_reversal"` // the running morph reversed an interrupted one
}

// ToggleAnimator owns the press bounce and on/off morph of one rendered
// control. Completions from superseded animations are recognised by
// generation and ignored.
type ToggleAnimator struct {
	sched  Scheduler
	handle string
	morphs bool

	state    ToggleAnimationState
	press    PressPhase
	pressGen uint64
	morphGen uint64

	// OnChange, when set, observes every morph state change.
	OnChange func(ToggleAnimationState)
}

// NewToggleAnimator creates an idle animator for handle showing on, with the
// masks snapped to match.
func NewToggleAnimator(s Scheduler, handle string, on, morphs bool) *ToggleAnimator {
	a := &ToggleAnimator{sched: s, handle: handle, morphs: morphs}
	a.state.VisualOn = on
	a.snapMasks(on)
	return a
}

// State returns the morph state.
func (a *ToggleAnimator) State() ToggleAnimationState { return a.state }

// Press returns the press phase.
func (a *ToggleAnimator) Press() PressPhase { return a.press }

// SetMorphs changes whether the control's visual plays the reveal.
func (a *ToggleAnimator) SetMorphs(morphs bool) { a.morphs = morphs }

// Down handles a press: the visual flips at once, the bounce starts, and the
// reveal runs concurrently for morphing visuals.
func (a *ToggleAnimator) Down() {
	if _, ok := PressTransition(a.press, PressDown); !ok {
		return
	}
	a.toggle(!a.state.VisualOn, true)
	a.fire(PressDown)
}

// Up handles a release. A release during press-in is queued until press-in
// completes.
func (a *ToggleAnimator) Up() {
	a.fire(PressUp)
}

// Sync brings the visual in line with the descriptor's toggled state. It is a
// no-op when the visual already shows (or is heading to) on.
func (a *ToggleAnimator) Sync(on, animated bool) {
	if a.state.VisualOn == on {
		return
	}
	a.toggle(on, animated)
}

// Detach cancels everything the animator owns and invalidates its pending
// completions.
func (a *ToggleAnimator) Detach() {
	a.pressGen++
	a.morphGen++
	a.sched.Cancel(Root(a.handle), PropScale)
	a.sched.Cancel(a.front(), PropMaskScale)
	a.sched.Cancel(a.back(), PropMaskScale)
	a.press = PressIdle
	a.setState(ToggleAnimationState{VisualOn: a.state.VisualOn})
}

func (a *ToggleAnimator) front() Target { return Target{Handle: a.handle, Layer: LayerFrontMask} }
func (a *ToggleAnimator) back() Target  { return Target{Handle: a.handle, Layer: LayerBackMask} }

func (a *ToggleAnimator) fire(e PressEvent) {
	step, ok := pressTable[a.press][e]
	if !ok {
		return
	}
	a.press = step.next
	switch step.effect {
	case effectStartIn:
		a.bounce(PressedScale, EaseOut, PressInDone)
	case effectStartOut:
		a.bounce(RestingScale, Spring, PressOutDone)
	}
}

func (a *ToggleAnimator) bounce(to float64, curve Curve, done PressEvent) {
	a.pressGen++
	gen := a.pressGen
	Restart(a.sched, Command{
		Target:   Root(a.handle),
		Property: PropScale,
		To:       Scalar(to),
		Duration: PressDuration,
		Curve:    curve,
		Completion: func(bool) {
			if a.pressGen == gen {
				a.fire(done)
			}
		},
	})
}

func (a *ToggleAnimator) toggle(on, animated bool) {
	if !animated || !a.morphs {
		a.morphGen++
		a.snapMasks(on)
		a.setState(ToggleAnimationState{VisualOn: on})
		return
	}

	next, ok := morphTable[a.state.Phase][on]
	if !ok {
		return
	}
	reversing := a.state.Phase != MorphIdle

	// Both masks read the front mask's rendered value so they stay in
	// lockstep even when interrupted mid-flight.
	a.sched.Cancel(a.front(), PropMaskScale)
	a.sched.Cancel(a.back(), PropMaskScale)
	from := PresentationOr(a.sched, a.front(), PropMaskScale)

	a.morphGen++
	gen := a.morphGen
	to := Scalar(MaskScale(on))
	a.sched.Schedule(Command{
		Target: a.front(), Property: PropMaskScale,
		From: from, To: to, Duration: MorphDuration,
		Completion: func(bool) {
			if a.morphGen == gen {
				a.setState(ToggleAnimationState{VisualOn: a.state.VisualOn})
			}
		},
	})
	a.sched.Schedule(Command{
		Target: a.back(), Property: PropMaskScale,
		From: from, To: to, Duration: MorphDuration,
	})
	a.setState(ToggleAnimationState{VisualOn: on, Phase: next, PendingReversal: reversing})
}

func (a *ToggleAnimator) snapMasks(on bool) {
	v := Scalar(MaskScale(on))
	a.sched.Set(a.front(), PropMaskScale, v)
	a.sched.Set(a.back(), PropMaskScale, v)
}

func (a *ToggleAnimator) setState(s ToggleAnimationState) {
	if s == a.state {
		return
	}
	a.state = s
	if a.OnChange != nil {
		a.OnChange(s)
	}
}
