// Package reconcile diffs successive sets of placed items and turns the
// difference into animation commands.
//
// A [Reconciler] keeps one live [Entry] per key. Each [Reconciler.Reconcile]
// call classifies every key:
//
//   - created: new key. Its frame is applied immediately and a separate
//     opacity fade-in is scheduled.
//   - updated: key present before and now, regardless of whether anything
//     changed. The frame animates (after the item's stagger delay) or snaps.
//   - removed: key present before and absent now. The entry fades out, plus
//     an optional scale-down of its container layer chosen per key, and is
//     detached when the fade completes.
//
// An entry that is still fading out is not part of the previous set. If its
// key comes back before the fade completes, the removal is cancelled and the
// key is reported as updated: the entry animates back from whatever alpha,
// scale and position it has on screen. Nothing is destroyed and recreated.
//
// Completions from cancelled or superseded animations are recognised by a
// per-entry generation and ignored, as are completions for entries that are
// already gone.
package reconcile

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/observability"
	"github.com/matzehuels/callsurface/pkg/surface/anim"
	"github.com/matzehuels/callsurface/pkg/surface/geometry"
)

// Placed is an item with its solved geometry.
type Placed[K comparable, D any] struct {
	Key   K
	Desc  D
	Rect  geometry.Rect
	Delay time.Duration // Filled by Reconcile on stagger passes
}

// Entry is the retained record of a rendered item.
type Entry[K comparable, D any] struct {
	Key      K
	Handle   string
	Desc     D
	Rect     geometry.Rect
	Removing bool

	gen uint64
}

// Removal describes how a key leaves the surface.
type Removal struct {
	anim.Motion
	Scale float64 // Target scale played with the fade; 1 means fade only
}

// Policy configures the animations a Reconciler emits.
type Policy[K comparable] struct {
	FadeIn anim.Motion
	Move   anim.Motion
	// Remove picks the removal animation for a key.
	Remove func(K) Removal
	// Delay picks the stagger delay for a key on state-class transitions.
	// Nil means no stagger.
	Delay func(K) time.Duration
}

// Pass qualifies one Reconcile call.
type Pass struct {
	Animated bool
	// StateClassTransition applies the policy's stagger delays to frame
	// animations.
	StateClassTransition bool
}

// Result lists the keys in each bucket, in placement order for created and
// updated and in previous display order for removed.
type Result[K comparable, D any] struct {
	Created []K
	Updated []K
	Removed []K
	Placed  []Placed[K, D]
}

// Host is told when rendered instances come and go.
type Host[K comparable, D any] interface {
	Attach(e Entry[K, D])
	Detach(e Entry[K, D])
}

// Forgetter is implemented by schedulers that retain per-handle values. A
// detached handle is never addressed again, so its values are dropped.
type Forgetter interface {
	Forget(handle string)
}

// Option configures a Reconciler.
type Option[K comparable, D any] func(*Reconciler[K, D])

// WithHost registers a host for attach/detach notifications.
func WithHost[K comparable, D any](h Host[K, D]) Option[K, D] {
	return func(r *Reconciler[K, D]) { r.host = h }
}

// WithLogger sets the debug logger.
func WithLogger[K comparable, D any](l *log.Logger) Option[K, D] {
	return func(r *Reconciler[K, D]) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithName labels the surface in logs and hooks.
func WithName[K comparable, D any](name string) Option[K, D] {
	return func(r *Reconciler[K, D]) { r.name = name }
}

// WithHandles replaces the handle generator.
func WithHandles[K comparable, D any](next func() string) Option[K, D] {
	return func(r *Reconciler[K, D]) { r.newHandle = next }
}

// Reconciler owns the key-to-entry table of one surface. It must only be
// used from the scheduling thread.
type Reconciler[K comparable, D any] struct {
	sched     anim.Scheduler
	policy    Policy[K]
	live      map[K]*Entry[K, D]
	order     []K
	host      Host[K, D]
	logger    *log.Logger
	name      string
	newHandle func() string
}

// New creates a Reconciler emitting commands to s.
func New[K comparable, D any](s anim.Scheduler, p Policy[K], opts ...Option[K, D]) *Reconciler[K, D] {
	r := &Reconciler[K, D]{
		sched:     s,
		policy:    p,
		live:      make(map[K]*Entry[K, D]),
		logger:    log.Default(),
		name:      "surface",
		newHandle: func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile applies a new placement set. Duplicate keys are a programming
// error and panic.
func (r *Reconciler[K, D]) Reconcile(placed []Placed[K, D], pass Pass) Result[K, D] {
	var res Result[K, D]
	seen := make(map[K]bool, len(placed))
	out := make([]Placed[K, D], len(placed))

	for i, p := range placed {
		if seen[p.Key] {
			errors.Invariant(errors.ErrCodeInvalidState, "key %v placed twice", p.Key)
		}
		seen[p.Key] = true
		if pass.StateClassTransition && r.policy.Delay != nil {
			p.Delay = r.policy.Delay(p.Key)
		} else {
			p.Delay = 0
		}
		out[i] = p

		if e, ok := r.live[p.Key]; ok {
			r.update(e, p, pass.Animated)
			res.Updated = append(res.Updated, p.Key)
		} else {
			r.create(p, pass.Animated)
			res.Created = append(res.Created, p.Key)
		}
	}

	for _, k := range r.order {
		e := r.live[k]
		if seen[k] {
			continue
		}
		if e.Removing {
			if !pass.Animated {
				r.detach(e)
			}
			continue
		}
		r.remove(e, pass.Animated)
		res.Removed = append(res.Removed, k)
	}
	r.reorder(out, seen)

	res.Placed = out
	r.logger.Debug("reconciled", "surface", r.name,
		"created", len(res.Created), "updated", len(res.Updated), "removed", len(res.Removed),
		"stagger", pass.StateClassTransition)
	observability.Surface().OnReconcile(r.name, len(res.Created), len(res.Updated), len(res.Removed), pass.StateClassTransition)
	return res
}

func (r *Reconciler[K, D]) create(p Placed[K, D], animated bool) {
	e := &Entry[K, D]{Key: p.Key, Handle: r.newHandle(), Desc: p.Desc, Rect: p.Rect}
	r.live[p.Key] = e
	r.order = append(r.order, p.Key)

	root := anim.Root(e.Handle)
	r.sched.Set(root, anim.PropFrame, anim.Frame(p.Rect))
	r.sched.Set(anim.Container(e.Handle), anim.PropScale, anim.Scalar(1))
	if animated {
		r.sched.Set(root, anim.PropAlpha, anim.Scalar(0))
		r.sched.Schedule(anim.Command{
			Target: root, Property: anim.PropAlpha,
			From: anim.Scalar(0), To: anim.Scalar(1),
			Duration: r.policy.FadeIn.Duration, Curve: r.policy.FadeIn.Curve,
		})
	} else {
		r.sched.Set(root, anim.PropAlpha, anim.Scalar(1))
	}
	if r.host != nil {
		r.host.Attach(*e)
	}
}

func (r *Reconciler[K, D]) update(e *Entry[K, D], p Placed[K, D], animated bool) {
	root := anim.Root(e.Handle)
	if e.Removing {
		e.Removing = false
		e.gen++
		r.logger.Debug("removal cancelled", "surface", r.name, "key", p.Key)
		r.settle(root, anim.PropAlpha, animated)
		r.settle(anim.Container(e.Handle), anim.PropScale, animated)
	}

	if animated {
		anim.Restart(r.sched, anim.Command{
			Target: root, Property: anim.PropFrame,
			To:       anim.Frame(p.Rect),
			Duration: r.policy.Move.Duration, Delay: p.Delay, Curve: r.policy.Move.Curve,
		})
	} else {
		r.sched.Set(root, anim.PropFrame, anim.Frame(p.Rect))
	}
	e.Desc = p.Desc
	e.Rect = p.Rect
}

// settle brings a scalar property back to 1 from wherever it is.
func (r *Reconciler[K, D]) settle(t anim.Target, prop anim.Property, animated bool) {
	if !animated {
		r.sched.Set(t, prop, anim.Scalar(1))
		return
	}
	anim.Restart(r.sched, anim.Command{
		Target: t, Property: prop, To: anim.Scalar(1),
		Duration: r.policy.Move.Duration, Curve: r.policy.Move.Curve,
	})
}

func (r *Reconciler[K, D]) remove(e *Entry[K, D], animated bool) {
	if !animated {
		r.detach(e)
		return
	}

	rm := r.policy.Remove(e.Key)
	e.Removing = true
	e.gen++
	gen := e.gen
	root := anim.Root(e.Handle)

	anim.Restart(r.sched, anim.Command{
		Target: root, Property: anim.PropAlpha, To: anim.Scalar(0),
		Duration: rm.Duration, Curve: rm.Curve,
		Completion: func(bool) { r.removed(e.Key, e, gen) },
	})
	if rm.Scale != 1 {
		anim.Restart(r.sched, anim.Command{
			Target: anim.Container(e.Handle), Property: anim.PropScale, To: anim.Scalar(rm.Scale),
			Duration: rm.Duration, Curve: rm.Curve,
		})
	}
}

func (r *Reconciler[K, D]) removed(k K, e *Entry[K, D], gen uint64) {
	cur, ok := r.live[k]
	if !ok || cur != e || e.gen != gen || !e.Removing {
		r.logger.Debug("stale completion ignored", "surface", r.name, "key", k)
		observability.Surface().OnStaleCompletion(r.name, keyString(k))
		return
	}
	r.detach(e)
	r.compact()
}

func (r *Reconciler[K, D]) detach(e *Entry[K, D]) {
	delete(r.live, e.Key)
	root := anim.Root(e.Handle)
	for _, p := range []anim.Property{anim.PropFrame, anim.PropAlpha} {
		r.sched.Cancel(root, p)
	}
	r.sched.Cancel(anim.Container(e.Handle), anim.PropScale)
	if r.host != nil {
		r.host.Detach(*e)
	}
	if f, ok := r.sched.(Forgetter); ok {
		f.Forget(e.Handle)
	}
}

// reorder puts placed keys first, in placement order, followed by entries
// still fading out.
func (r *Reconciler[K, D]) reorder(placed []Placed[K, D], seen map[K]bool) {
	next := make([]K, 0, len(r.live))
	for _, p := range placed {
		next = append(next, p.Key)
	}
	for _, k := range r.order {
		if _, ok := r.live[k]; ok && !seen[k] {
			next = append(next, k)
		}
	}
	r.order = next
}

func (r *Reconciler[K, D]) compact() {
	kept := r.order[:0]
	for _, k := range r.order {
		if _, ok := r.live[k]; ok {
			kept = append(kept, k)
		}
	}
	r.order = kept
}

// Entries returns copies of every live entry: the last placement in order,
// then entries still fading out.
func (r *Reconciler[K, D]) Entries() []Entry[K, D] {
	out := make([]Entry[K, D], 0, len(r.order))
	for _, k := range r.order {
		out = append(out, *r.live[k])
	}
	return out
}

// Lookup returns the live entry for k.
func (r *Reconciler[K, D]) Lookup(k K) (Entry[K, D], bool) {
	e, ok := r.live[k]
	if !ok {
		return Entry[K, D]{}, false
	}
	return *e, true
}

// Len returns the number of live entries.
func (r *Reconciler[K, D]) Len() int { return len(r.live) }

func keyString(k any) string {
	if s, ok := k.(interface{ String() string }); ok {
		return s.String()
	}
	return "?"
}
