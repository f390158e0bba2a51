package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Playing incoming-answer...", false)
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Update("Rendering svg...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	for _, want := range []string{"Playing incoming-answer...", "Rendering svg..."} {
		if !strings.Contains(got, want) {
			t.Errorf("spinner output missing %q: %q", want, got)
		}
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner output does not end with a cleared line: %q", got)
	}
}

func TestSpinnerQuiet(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "hidden", true)
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()
	if out.String() != "" {
		t.Errorf("quiet spinner wrote %q", out.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, "waiting", true)
	s.Start()
	if s.Cancelled() {
		t.Fatal("Cancelled() = true before cancel")
	}
	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancel")
	}
}

func TestSpinnerStopWithoutCancel(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "done", true)
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "twice", true)
	s.Start()
	s.Stop()
	s.Stop()

	unstarted := newSpinnerTo(context.Background(), &syncBuffer{}, "never", true)
	unstarted.Stop()
}
