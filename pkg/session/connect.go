package session

import (
	"context"
	"time"
)

// Connect opens a store, retrying up to attempts times with exponential
// backoff. Networked backends are often started alongside the server and may
// not accept connections yet. Context errors are not retried.
func Connect(ctx context.Context, attempts int, delay time.Duration, open func(context.Context) (Store, error)) (Store, error) {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		store, err := open(ctx)
		if err == nil {
			return store, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return nil, lastErr
}
