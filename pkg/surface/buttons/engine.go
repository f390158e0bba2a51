// Package buttons composes the call-screen button cluster.
//
// An [Engine] turns call snapshots into placed controls: the descriptor
// builder picks roles and content, the geometry solver packs them, and the
// reconciler animates the difference against what is on screen. Each live
// control also owns a toggle animator for its press bounce and on/off morph.
//
//	e := buttons.New(timeline, buttons.Config{Width: 390, BottomInset: 34})
//	size := e.UpdateState(callstate.Incoming(callstate.SpeakerModeBuiltin, video), false)
//	e.PressDown(control.RoleMute)
//	e.PressUp(control.RoleMute) // OnPressed(IntentToggleMute)
//
// The engine is single-threaded. All methods must be called from the thread
// that drives the scheduler.
package buttons

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/observability"
	"github.com/matzehuels/callsurface/pkg/surface/anim"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/geometry"
	"github.com/matzehuels/callsurface/pkg/surface/reconcile"
)

// StaggerStep is the delay unit between controls on a ringing to active
// transition.
const StaggerStep = 15 * time.Millisecond

var (
	fadeIn   = anim.Motion{Duration: 200 * time.Millisecond, Curve: anim.EaseInOut}
	move     = anim.Motion{Duration: 300 * time.Millisecond, Curve: anim.Spring}
	removeBy = anim.Motion{Duration: 300 * time.Millisecond, Curve: anim.Spring}
)

// DeclineRemovalScale is the scale the decline button shrinks to on exit.
const DeclineRemovalScale = 0.1

// Config configures an Engine.
type Config struct {
	Width       float64
	BottomInset float64
	Strings     control.Localizer
	Logger      *log.Logger
	// OnPressed receives the intent of a completed press.
	OnPressed func(control.Intent)
}

// Control is a snapshot of one live control.
type Control struct {
	Role       control.Role
	Handle     string
	Descriptor control.Descriptor
	Rect       geometry.Rect
	Removing   bool
	Toggle     anim.ToggleAnimationState
	Press      anim.PressPhase
}

type input struct {
	snapshot    callstate.Snapshot
	muted       bool
	width       float64
	bottomInset float64
}

// Engine is the button cluster's composition engine.
type Engine struct {
	sched   anim.Scheduler
	builder *control.Builder
	rec     *reconcile.Reconciler[control.Role, control.Descriptor]
	toggles map[control.Role]*anim.ToggleAnimator
	logger  *log.Logger

	width       float64
	bottomInset float64
	last        *input
	size        geometry.Size
	interaction bool
	pressing    control.Role
	hasPress    bool

	onPressed func(control.Intent)
}

// New creates an engine emitting animation commands to s.
func New(s anim.Scheduler, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		sched:       s,
		builder:     control.NewBuilder(cfg.Strings),
		toggles:     make(map[control.Role]*anim.ToggleAnimator),
		logger:      logger,
		width:       geometry.NonNegative(cfg.Width),
		bottomInset: geometry.NonNegative(cfg.BottomInset),
		interaction: true,
		onPressed:   cfg.OnPressed,
	}
	e.rec = reconcile.New(s, reconcile.Policy[control.Role]{
		FadeIn: fadeIn,
		Move:   move,
		Remove: removal,
		Delay:  staggerDelay,
	},
		reconcile.WithHost[control.Role, control.Descriptor](toggleHost{e}),
		reconcile.WithLogger[control.Role, control.Descriptor](logger),
		reconcile.WithName[control.Role, control.Descriptor]("buttons"),
	)
	return e
}

// OnPressed replaces the press callback.
func (e *Engine) OnPressed(fn func(control.Intent)) { e.onPressed = fn }

// SetBounds changes the container width and bottom safe-area inset. The new
// bounds apply on the next UpdateState.
func (e *Engine) SetBounds(width, bottomInset float64) {
	e.width = geometry.NonNegative(width)
	e.bottomInset = geometry.NonNegative(bottomInset)
}

// UpdateOption qualifies one UpdateState call.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	animated bool
}

// Immediate applies the update without animation.
func Immediate() UpdateOption {
	return func(o *updateOptions) { o.animated = false }
}

// UpdateState re-derives the cluster for a snapshot and returns the size the
// cluster occupies. Calling it again with equal input does nothing.
func (e *Engine) UpdateState(s callstate.Snapshot, muted bool, opts ...UpdateOption) geometry.Size {
	o := updateOptions{animated: true}
	for _, opt := range opts {
		opt(&o)
	}

	in := input{snapshot: s, muted: muted, width: e.width, bottomInset: e.bottomInset}
	if e.last != nil && *e.last == in {
		return e.size
	}

	layout := e.builder.Build(s, muted)
	descs := layout.Descriptors()
	rects := place(layout, e.width)
	placed := make([]reconcile.Placed[control.Role, control.Descriptor], len(descs))
	for i, d := range descs {
		placed[i] = reconcile.Placed[control.Role, control.Descriptor]{Key: d.Role, Desc: d, Rect: rects[i]}
	}

	stagger := e.last != nil && e.last.snapshot.Class.IsRinging() && s.Class == callstate.ClassActive
	if stagger {
		e.logger.Debug("state class transition", "from", e.last.snapshot.Class, "to", s.Class)
	}
	e.rec.Reconcile(placed, reconcile.Pass{Animated: o.animated, StateClassTransition: stagger})

	for _, d := range descs {
		if t, ok := e.toggles[d.Role]; ok {
			t.SetMorphs(d.Visual.Morphs())
			t.Sync(d.ToggledOn, o.animated)
		}
	}

	e.last = &in
	e.size = surfaceSize(s.Class, e.width, e.bottomInset)
	return e.size
}

// Size returns the size reported by the last UpdateState.
func (e *Engine) Size() geometry.Size { return e.size }

// Controls returns every live control in display order, including controls
// that are fading out.
func (e *Engine) Controls() []Control {
	entries := e.rec.Entries()
	out := make([]Control, 0, len(entries))
	for _, en := range entries {
		c := Control{
			Role:       en.Key,
			Handle:     en.Handle,
			Descriptor: en.Desc,
			Rect:       en.Rect,
			Removing:   en.Removing,
		}
		if t, ok := e.toggles[en.Key]; ok {
			c.Toggle = t.State()
			c.Press = t.Press()
		}
		out = append(out, c)
	}
	return out
}

// Control returns the live control for a role.
func (e *Engine) Control(r control.Role) (Control, bool) {
	for _, c := range e.Controls() {
		if c.Role == r {
			return c, true
		}
	}
	return Control{}, false
}

// VideoButtonRect returns the camera control's target frame, used by the
// call screen to anchor the local video preview.
func (e *Engine) VideoButtonRect() (geometry.Rect, bool) {
	en, ok := e.rec.Lookup(control.RoleEnableCamera)
	if !ok || en.Removing {
		return geometry.Rect{}, false
	}
	return en.Rect, true
}

func removal(r control.Role) reconcile.Removal {
	if r == control.RoleDecline {
		return reconcile.Removal{Motion: removeBy, Scale: DeclineRemovalScale}
	}
	return reconcile.Removal{Motion: removeBy, Scale: 1}
}

func staggerDelay(r control.Role) time.Duration {
	switch r {
	case control.RoleEnableCamera:
		return 0
	case control.RoleMute:
		return StaggerStep
	case control.RoleSwitchCamera:
		return 2 * StaggerStep
	case control.RoleAcceptOrEnd:
		return 3 * StaggerStep
	case control.RoleAccept, control.RoleDecline, control.RoleSoundOutput:
		return 0
	}
	errors.Invariant(errors.ErrCodeUnknownRole, "no stagger slot for role %v", r)
	return 0
}

// toggleHost keeps one toggle animator per attached control.
type toggleHost struct{ e *Engine }

func (h toggleHost) Attach(en reconcile.Entry[control.Role, control.Descriptor]) {
	t := anim.NewToggleAnimator(h.e.sched, en.Handle, en.Desc.ToggledOn, en.Desc.Visual.Morphs())
	role := en.Key
	t.OnChange = func(s anim.ToggleAnimationState) {
		observability.Surface().OnToggle("buttons", role.String(), s.VisualOn, s.Phase.String())
	}
	h.e.toggles[role] = t
}

func (h toggleHost) Detach(en reconcile.Entry[control.Role, control.Descriptor]) {
	if t, ok := h.e.toggles[en.Key]; ok {
		t.Detach()
		delete(h.e.toggles, en.Key)
	}
	if h.e.hasPress && h.e.pressing == en.Key {
		h.e.hasPress = false
	}
}
