package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"paddock/internal/config"
	"paddock/internal/logging"
	"paddock/internal/store"
	"paddock/internal/upstream"
)

// RunStats summarizes one season run. A unit counts in exactly one bucket.
type RunStats struct {
	Year            int
	NewlyIngested   int
	AlreadyComplete int
	NotAvailable    int
	Failed          int
	FailureLogPath  string
	Duration        time.Duration
}

// Processed is the number of units the run touched.
func (s RunStats) Processed() int {
	return s.NewlyIngested + s.AlreadyComplete + s.NotAvailable + s.Failed
}

// Season drives one full season through the orchestrator: schedule fetch,
// unit expansion, sequential processing, and the persisted failure log.
type Season struct {
	cfg          *config.Config
	store        *store.Store
	provider     upstream.Provider
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// NewSeason wires a season run from configuration. The provider is shared
// between schedule and session fetches so the rate limit covers both.
func NewSeason(cfg *config.Config, st *store.Store, provider upstream.Provider, logger *slog.Logger) *Season {
	fetcher := NewFetcher(provider, cfg.Ingest, logger)
	return &Season{
		cfg:          cfg,
		store:        st,
		provider:     provider,
		orchestrator: NewOrchestrator(st, fetcher, logger, cfg.Ingest.Strict),
		logger:       logging.NewComponentLogger(logger, "season"),
	}
}

// Run ingests every missing session of the year. Only one run may hold the
// lock at a time; a second invocation fails fast instead of queueing.
func (s *Season) Run(ctx context.Context, year int) (RunStats, error) {
	stats := RunStats{Year: year, FailureLogPath: s.cfg.FailureLogPath(year)}

	lockPath := s.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return stats, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return stats, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return stats, fmt.Errorf("another ingestion run holds %s", lockPath)
	}
	defer lock.Unlock()

	runID := uuid.NewString()
	logger := s.logger.With(logging.String("run_id", runID), logging.Int("year", year))
	started := time.Now()
	logger.Info("season run started", logging.Bool("strict", s.cfg.Ingest.Strict))

	schedule, err := s.provider.Schedule(ctx, year)
	if err != nil {
		return stats, fmt.Errorf("fetch %d schedule: %w", year, err)
	}
	kinds := make([]store.SessionKind, 0, len(s.cfg.Ingest.SessionKinds))
	for _, raw := range s.cfg.Ingest.SessionKinds {
		kind, err := store.ParseSessionKind(raw)
		if err != nil {
			return stats, err
		}
		kinds = append(kinds, kind)
	}

	var failures []FailureRecord
	for _, event := range schedule {
		// Round 0 is pre-season testing; it has no competitive sessions.
		if event.RoundNumber == 0 {
			logger.Debug("skipping non-competitive round", logging.String("event", event.EventName))
			continue
		}
		for _, kind := range kinds {
			unit := Unit{
				Year:      year,
				Round:     event.RoundNumber,
				Kind:      kind,
				EventName: event.EventName,
				Location:  event.Location,
				Country:   event.Country,
				EventDate: event.EventDate,
			}
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			result := s.orchestrator.ProcessUnit(ctx, unit)
			switch result.Outcome {
			case OutcomeSkipped:
				stats.AlreadyComplete++
			case OutcomeIngested:
				stats.NewlyIngested++
				logger.Info("session ingested",
					logging.Int("round", unit.Round),
					logging.String("kind", string(unit.Kind)),
					logging.Int("rows", totalInserted(result)))
			case OutcomeNotAvailable:
				stats.NotAvailable++
			case OutcomePartial, OutcomeFailed:
				// Partial units stay incomplete; the next run retries the
				// missing categories, so both count as failures here.
				stats.Failed++
				logger.Error("session ingestion failed",
					logging.Int("round", unit.Round),
					logging.String("kind", string(unit.Kind)),
					logging.String("reason", result.FailureText()))
				failures = append(failures, FailureRecord{
					Timestamp:   time.Now().UTC(),
					Season:      year,
					Round:       unit.Round,
					EventName:   unit.EventName,
					SessionKind: string(unit.Kind),
					Error:       result.FailureText(),
				})
			}
		}
	}

	if err := AppendFailures(stats.FailureLogPath, failures); err != nil {
		logger.Error("failure log write failed", logging.Error(err))
	}

	stats.Duration = time.Since(started)
	logger.Info("season run finished",
		logging.Int("ingested", stats.NewlyIngested),
		logging.Int("already_complete", stats.AlreadyComplete),
		logging.Int("not_available", stats.NotAvailable),
		logging.Int("failed", stats.Failed),
		logging.Duration("duration", stats.Duration))
	return stats, nil
}

func totalInserted(result UnitResult) int {
	total := 0
	for _, count := range result.Inserted {
		total += count
	}
	return total
}
