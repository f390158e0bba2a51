package anim

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/callsurface/pkg/surface/geometry"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTimelineInterpolates(t *testing.T) {
	tl := NewTimeline()
	target := Root("a")
	tl.Schedule(Command{Target: target, Property: PropAlpha, From: Scalar(0), To: Scalar(1), Duration: 200 * time.Millisecond})

	tl.Advance(50 * time.Millisecond)
	v, ok := tl.Presentation(target, PropAlpha)
	if !ok || !approx(v.Scalar, 0.25) {
		t.Errorf("Presentation at 50ms = %v, %v, want 0.25", v.Scalar, ok)
	}

	tl.Advance(time.Second)
	v, _ = tl.Presentation(target, PropAlpha)
	if v.Scalar != 1 {
		t.Errorf("Presentation after end = %v, want 1", v.Scalar)
	}
	if tl.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tl.Pending())
	}
}

func TestTimelineDelayHoldsFromValue(t *testing.T) {
	tl := NewTimeline()
	target := Root("a")
	from := geometry.Rect{X: 0, W: 60, H: 60}
	to := geometry.Rect{X: 100, W: 60, H: 60}
	tl.Schedule(Command{Target: target, Property: PropFrame, From: Frame(from), To: Frame(to), Duration: 100 * time.Millisecond, Delay: 30 * time.Millisecond})

	tl.Advance(20 * time.Millisecond)
	if v, _ := tl.Presentation(target, PropFrame); v.Rect != from {
		t.Errorf("during delay = %v, want %v", v.Rect, from)
	}
	tl.Advance(60 * time.Millisecond)
	if v, _ := tl.Presentation(target, PropFrame); !approx(v.Rect.X, 50) {
		t.Errorf("half way X = %v, want 50", v.Rect.X)
	}
}

func TestTimelineCompletionOrder(t *testing.T) {
	tl := NewTimeline()
	var order []string
	add := func(name string, d time.Duration) {
		tl.Schedule(Command{
			Target: Root(name), Property: PropAlpha, To: Scalar(1), Duration: d,
			Completion: func(bool) { order = append(order, name) },
		})
	}
	add("slow", 300*time.Millisecond)
	add("fast", 100*time.Millisecond)
	add("tie", 100*time.Millisecond)

	tl.Advance(time.Second)
	want := []string{"fast", "tie", "slow"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestTimelineCancelFreezesAndDropsCompletion(t *testing.T) {
	tl := NewTimeline()
	target := Root("a")
	called := false
	tl.Schedule(Command{
		Target: target, Property: PropScale, From: Scalar(1), To: Scalar(0), Duration: 100 * time.Millisecond,
		Completion: func(bool) { called = true },
	})
	tl.Advance(40 * time.Millisecond)
	tl.Cancel(target, PropScale)
	tl.Advance(time.Second)

	if called {
		t.Error("cancelled completion was called")
	}
	if v, _ := tl.Presentation(target, PropScale); !approx(v.Scalar, 0.6) {
		t.Errorf("frozen value = %v, want 0.6", v.Scalar)
	}
}

func TestTimelineScheduleSupersedes(t *testing.T) {
	tl := NewTimeline()
	target := Root("a")
	first := false
	tl.Schedule(Command{Target: target, Property: PropAlpha, From: Scalar(0), To: Scalar(1), Duration: 100 * time.Millisecond,
		Completion: func(bool) { first = true }})
	tl.Advance(50 * time.Millisecond)
	Restart(tl, Command{Target: target, Property: PropAlpha, To: Scalar(0), Duration: 100 * time.Millisecond})

	if v, _ := tl.Presentation(target, PropAlpha); !approx(v.Scalar, 0.5) {
		t.Errorf("restart starts at %v, want 0.5", v.Scalar)
	}
	tl.Advance(time.Second)
	if first {
		t.Error("superseded completion was called")
	}
}

func TestTimelineCompletionSchedulesChain(t *testing.T) {
	tl := NewTimeline()
	target := Root("a")
	done := false
	tl.Schedule(Command{
		Target: target, Property: PropScale, To: Scalar(0.9), Duration: 100 * time.Millisecond,
		Completion: func(bool) {
			tl.Schedule(Command{
				Target: target, Property: PropScale, From: Scalar(0.9), To: Scalar(1), Duration: 100 * time.Millisecond,
				Completion: func(bool) { done = true },
			})
		},
	})

	tl.Advance(250 * time.Millisecond)
	if !done {
		t.Error("chained command did not complete within the advance window")
	}
	if tl.Now() != 250*time.Millisecond {
		t.Errorf("Now() = %v, want 250ms", tl.Now())
	}
}

func TestTimelineSettleAndForget(t *testing.T) {
	tl := NewTimeline()
	tl.Schedule(Command{Target: Root("a"), Property: PropAlpha, To: Scalar(1), Duration: 300 * time.Millisecond})
	tl.Schedule(Command{Target: Root("b"), Property: PropAlpha, To: Scalar(1), Duration: 100 * time.Millisecond})

	if got := tl.Settle(100); got != 300*time.Millisecond {
		t.Errorf("Settle() = %v, want 300ms", got)
	}
	if hs := tl.Handles(); len(hs) != 2 || hs[0] != "a" {
		t.Errorf("Handles() = %v, want [a b]", hs)
	}
	tl.Forget("a")
	if _, ok := tl.Presentation(Root("a"), PropAlpha); ok {
		t.Error("Forget left a value behind")
	}
}

func TestCurves(t *testing.T) {
	for _, c := range []Curve{Linear, EaseIn, EaseOut, EaseInOut, Spring} {
		if c.Apply(0) != 0 || c.Apply(1) != 1 {
			t.Errorf("%v: endpoints = %v, %v, want 0, 1", c, c.Apply(0), c.Apply(1))
		}
	}
	if EaseOut.Apply(0.5) <= Linear.Apply(0.5) {
		t.Error("ease-out should lead linear at the midpoint")
	}
	if EaseIn.Apply(0.5) >= Linear.Apply(0.5) {
		t.Error("ease-in should trail linear at the midpoint")
	}
}
