package fs

import (
	"context"
	"fmt"
	"time"
)

const maxAttempts = 5

// retryBase is the first backoff delay; it doubles after each attempt.
var retryBase = 100 * time.Millisecond

// retry runs fn until it succeeds, fails with a non-transient error, the
// attempts run out or ctx is done.
func retry(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		if attempt == maxAttempts {
			break
		}

		t := time.NewTimer(retryBase << (attempt - 1))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, maxAttempts, lastErr)
}
