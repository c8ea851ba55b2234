package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paddock/internal/config"
	"paddock/internal/logging"
	"paddock/internal/upstream"
)

const (
	defaultFetchAttempts  = 3
	defaultFetchBaseDelay = time.Second
)

// Fetcher loads one session's dataset from the upstream provider, retrying
// transient failures with exponential backoff. Non-existence is an expected
// outcome and returns immediately without retrying: burning quota on a sprint
// session that never happened delays the whole season run.
type Fetcher struct {
	provider    upstream.Provider
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(context.Context, time.Duration) error
	logger      *slog.Logger
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithSleep overrides how retry waits are performed (useful for tests).
func WithSleep(sleep func(context.Context, time.Duration) error) FetcherOption {
	return func(f *Fetcher) {
		if sleep != nil {
			f.sleep = sleep
		}
	}
}

// NewFetcher constructs a Fetcher from ingest configuration.
func NewFetcher(provider upstream.Provider, cfg config.Ingest, logger *slog.Logger, opts ...FetcherOption) *Fetcher {
	maxAttempts := cfg.RetryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultFetchAttempts
	}
	baseDelay := time.Duration(cfg.RetryBaseDelaySeconds) * time.Second
	if baseDelay <= 0 {
		baseDelay = defaultFetchBaseDelay
	}
	fetcher := &Fetcher{
		provider:    provider,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleepContext,
		logger:      logging.NewComponentLogger(logger, "fetcher"),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// FetchSession loads one session dataset. It returns an error wrapping
// upstream.ErrNotFound when the session does not exist, and the final
// attempt's error once retries are exhausted.
func (f *Fetcher) FetchSession(ctx context.Context, year, round int, sessionName string) (*upstream.SessionData, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		data, err := f.provider.LoadSession(ctx, year, round, sessionName)
		if err == nil {
			return data, nil
		}
		if upstream.IsNotFound(err) {
			return nil, err
		}
		lastErr = err
		if attempt == f.maxAttempts {
			break
		}
		delay := f.baseDelay << (attempt - 1)
		f.logger.Warn("session fetch failed, retrying",
			logging.Int("year", year),
			logging.Int("round", round),
			logging.String("session", sessionName),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err))
		if err := f.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetch session after %d attempts: %w", f.maxAttempts, lastErr)
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
