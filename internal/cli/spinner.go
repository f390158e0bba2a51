package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerInterval is the redraw period of a spinner.
const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows that a play or render is running. It stops on its own when
// the context is cancelled. A spinner writing to a non-terminal draws
// nothing.
type Spinner struct {
	w       io.Writer
	quiet   bool
	started time.Time

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	exited chan struct{}

	mu      sync.Mutex
	message string
	drawn   int // width of the last drawn line
}

// newSpinnerWithContext creates a spinner on stderr bound to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message, !isTerminal(os.Stderr))
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string, quiet bool) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		quiet:   quiet,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		exited:  make(chan struct{}),
		message: message,
	}
}

// Start begins drawing.
func (s *Spinner) Start() {
	s.started = time.Now()
	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiet {
		return
	}
	elapsed := time.Since(s.started).Round(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s", s.message, elapsed)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
	s.drawn = len(line) + 2
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiet || s.drawn == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	s.drawn = 0
}

// Stop stops drawing and clears the line. It may be called more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if !s.started.IsZero() {
			<-s.exited
		}
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
