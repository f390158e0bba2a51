package anim

import (
	"sort"
	"time"
)

type slot struct {
	target Target
	prop   Property
}

type track struct {
	cmd   Command
	start time.Duration
	seq   uint64
}

func (t *track) end() time.Duration {
	return t.start + t.cmd.Delay + t.cmd.Duration
}

func (t *track) at(now time.Duration) Value {
	elapsed := now - t.start - t.cmd.Delay
	if elapsed < 0 {
		return t.cmd.From
	}
	if t.cmd.Duration <= 0 || elapsed >= t.cmd.Duration {
		return t.cmd.To
	}
	p := float64(elapsed) / float64(t.cmd.Duration)
	return t.cmd.From.Lerp(t.cmd.To, t.cmd.Curve.Apply(p))
}

// Timeline is a Scheduler on a virtual clock. Time only moves when Advance
// is called, and completions fire in end-time order, ties broken by
// scheduling order. It is not safe for concurrent use.
type Timeline struct {
	now    time.Duration
	seq    uint64
	tracks map[slot]*track
	model  map[slot]Value
}

// NewTimeline returns a timeline at time zero.
func NewTimeline() *Timeline {
	return &Timeline{
		tracks: make(map[slot]*track),
		model:  make(map[slot]Value),
	}
}

// Now returns the current virtual time.
func (t *Timeline) Now() time.Duration { return t.now }

// Schedule implements Scheduler. The model value jumps to cmd.To at once;
// the presentation value follows the animation.
func (t *Timeline) Schedule(cmd Command) {
	k := slot{cmd.Target, cmd.Property}
	t.cancel(k)
	t.seq++
	t.tracks[k] = &track{cmd: cmd, start: t.now, seq: t.seq}
	t.model[k] = cmd.To
}

// Set implements Scheduler.
func (t *Timeline) Set(target Target, prop Property, v Value) {
	k := slot{target, prop}
	delete(t.tracks, k)
	t.model[k] = v
}

// Cancel implements Scheduler.
func (t *Timeline) Cancel(target Target, prop Property) {
	t.cancel(slot{target, prop})
}

func (t *Timeline) cancel(k slot) {
	if tr, ok := t.tracks[k]; ok {
		t.model[k] = tr.at(t.now)
		delete(t.tracks, k)
	}
}

// Presentation implements Scheduler.
func (t *Timeline) Presentation(target Target, prop Property) (Value, bool) {
	k := slot{target, prop}
	if tr, ok := t.tracks[k]; ok {
		return tr.at(t.now), true
	}
	v, ok := t.model[k]
	return v, ok
}

// Running reports whether a command is in flight on the property.
func (t *Timeline) Running(target Target, prop Property) bool {
	_, ok := t.tracks[slot{target, prop}]
	return ok
}

// Pending returns the number of commands in flight.
func (t *Timeline) Pending() int { return len(t.tracks) }

// Forget drops every value and command for handle.
func (t *Timeline) Forget(handle string) {
	for k := range t.tracks {
		if k.target.Handle == handle {
			delete(t.tracks, k)
		}
	}
	for k := range t.model {
		if k.target.Handle == handle {
			delete(t.model, k)
		}
	}
}

// Advance moves the clock forward by d, completing every command that ends
// on the way. Completions may schedule further commands; those also complete
// if they end before the new time.
func (t *Timeline) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	deadline := t.now + d
	for {
		k, tr := t.next(deadline)
		if tr == nil {
			break
		}
		if end := tr.end(); end > t.now {
			t.now = end
		}
		t.finish(k, tr)
	}
	t.now = deadline
}

// Settle advances until nothing is in flight and returns the elapsed time.
// A chain longer than limit commands stops early.
func (t *Timeline) Settle(limit int) time.Duration {
	start := t.now
	for i := 0; i < limit && len(t.tracks) > 0; i++ {
		_, tr := t.next(time.Duration(1<<62 - 1))
		if tr == nil {
			break
		}
		t.Advance(max(0, tr.end()-t.now))
	}
	return t.now - start
}

func (t *Timeline) next(deadline time.Duration) (slot, *track) {
	var (
		bestK slot
		best  *track
	)
	for k, tr := range t.tracks {
		if tr.end() > deadline {
			continue
		}
		if best == nil || tr.end() < best.end() || (tr.end() == best.end() && tr.seq < best.seq) {
			bestK, best = k, tr
		}
	}
	return bestK, best
}

func (t *Timeline) finish(k slot, tr *track) {
	delete(t.tracks, k)
	t.model[k] = tr.cmd.To
	if tr.cmd.Completion != nil {
		tr.cmd.Completion(true)
	}
}

// Handles returns every handle the timeline holds values for, sorted.
func (t *Timeline) Handles() []string {
	seen := make(map[string]bool)
	for k := range t.model {
		seen[k.target.Handle] = true
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
