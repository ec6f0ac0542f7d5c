package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable means the Redis backend did not answer its ping.
var ErrUnavailable = errors.New("cache unavailable")

// transientError marks a failure worth another ping, such as a refused
// connection while Redis is still starting.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// transient marks err as worth retrying. A nil err stays nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

func isTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

const pingAttempts = 3

// pingBackoff is the wait after the first failed ping, doubled each time.
var pingBackoff = time.Second

// retryPing calls ping until it succeeds, returns a permanent error, or
// pingAttempts is spent. The last error is returned without its marker.
func retryPing(ctx context.Context, ping func() error) error {
	wait := pingBackoff
	for attempt := 1; ; attempt++ {
		err := ping()
		if err == nil {
			return nil
		}
		var te transientError
		if !errors.As(err, &te) {
			return err
		}
		if attempt == pingAttempts {
			return te.err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
