package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	sqlitedrv "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// Retrier retries operations that hit SQLite lock contention with
// exponential backoff. It is bounded: after maxRetries the caller gets
// domain.ErrRetryExhausted rather than blocking indefinitely.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	metrics         *metrics.Metrics
}

// NewRetrier creates a retrier with default settings.
func NewRetrier(m *metrics.Metrics) *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 20 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
		maxElapsedTime:  5 * time.Second,
		metrics:         m,
	}
}

// Do executes an operation, retrying on busy/locked errors.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	err := backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(r.exhausted(err))
		}

		log.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("database busy, retrying")

		return err
	}, backoff.WithContext(b, ctx))

	if err != nil && isRetryableError(err) {
		// Backoff gave up on elapsed time while the error was still transient.
		return r.exhausted(err)
	}

	return err
}

func (r *Retrier) exhausted(err error) error {
	if r.metrics != nil {
		r.metrics.RetriesExceeded.Inc()
	}
	return fmt.Errorf("%w: %v", domain.ErrRetryExhausted, err)
}

// isRetryableError checks whether an SQLite error is lock contention.
func isRetryableError(err error) bool {
	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlitelib.SQLITE_BUSY, sqlitelib.SQLITE_LOCKED:
			return true
		}
	}
	return false
}
