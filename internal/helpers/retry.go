package helpers

import (
	"log/slog"
	"time"
)

// RetryWithBackoff runs fn up to maxRetries times, sleeping
// baseDelay * 2^(attempt-1) between failed attempts. The last error is
// returned verbatim once attempts are exhausted. The loop is sequential and
// does not support cancellation; callers needing that must wrap it.
func RetryWithBackoff(fn func() error, maxRetries int, baseDelay time.Duration) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		slog.Warn("retry attempt failed", "attempt", attempt, "max_retries", maxRetries, "error", err)

		if attempt < maxRetries {
			time.Sleep(baseDelay << (attempt - 1))
		}
	}

	return err
}
