package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks a network backend that did not answer on Open.
var ErrUnavailable = errors.New("cache backend unavailable")

// Backoff is the wait before the second ping of a backend; later waits double.
var Backoff = 200 * time.Millisecond

// pingAttempts bounds how often Open pings a network backend.
const pingAttempts = 3

// ping calls fn until it succeeds, ctx ends or the attempts run out. The last
// failure is reported as ErrUnavailable naming the backend.
func ping(ctx context.Context, backend string, fn func(context.Context) error) error {
	wait := Backoff
	var err error
	for i := 0; i < pingAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				wait *= 2
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, backend, err)
}
