package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paddock/internal/logging"
	"paddock/internal/store"
	"paddock/internal/upstream"
)

// Unit is one (season, round, session-kind) work item.
type Unit struct {
	Year      int
	Round     int
	Kind      store.SessionKind
	EventName string
	Location  string
	Country   string
	EventDate time.Time
}

func (u Unit) String() string {
	return fmt.Sprintf("%d R%d %s", u.Year, u.Round, u.Kind)
}

// Outcome is the terminal state of one processed unit.
type Outcome string

const (
	// OutcomeSkipped means every category already held rows; no network call
	// was made.
	OutcomeSkipped Outcome = "already_complete"
	// OutcomeIngested means every missing category was ingested successfully.
	OutcomeIngested Outcome = "ingested"
	// OutcomePartial means at least one dispatched ingester failed while its
	// siblings succeeded.
	OutcomePartial Outcome = "partially_ingested"
	// OutcomeNotAvailable means the session does not exist upstream. Expected
	// for sprint kinds at non-sprint events; never counted as a failure.
	OutcomeNotAvailable Outcome = "not_available"
	// OutcomeFailed means the fetch exhausted its retries or the unit aborted
	// before dispatch completed.
	OutcomeFailed Outcome = "failed"
)

// UnitResult aggregates per-category outcomes for one processed unit.
type UnitResult struct {
	Unit           Unit
	Outcome        Outcome
	SessionID      int64
	Inserted       map[store.Category]int
	CategoryErrors map[store.Category]error
	Err            error
}

// FailureText flattens the unit's errors into one log-friendly string.
func (r UnitResult) FailureText() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	text := ""
	for _, category := range store.AllCategories {
		if err, ok := r.CategoryErrors[category]; ok {
			if text != "" {
				text += "; "
			}
			text += fmt.Sprintf("%s: %v", category, err)
		}
	}
	return text
}

type categoryIngester func(ctx context.Context, st *store.Store, data *upstream.SessionData, sessionID int64, year int, kind store.SessionKind) (int, error)

var categoryIngesters = map[store.Category]categoryIngester{
	store.CategoryResults:     ingestResults,
	store.CategoryLaps:        ingestLaps,
	store.CategoryWeather:     ingestWeather,
	store.CategoryTrackStatus: ingestTrackStatus,
	store.CategoryMessages:    ingestMessages,
}

// Orchestrator processes one unit at a time: completeness check, conditional
// fetch, and dispatch of exactly the missing category ingesters.
type Orchestrator struct {
	store   *store.Store
	fetcher *Fetcher
	logger  *slog.Logger
	strict  bool
}

// NewOrchestrator builds an orchestrator. In strict mode the first ingester
// failure aborts the rest of the unit instead of being isolated; strict mode
// exists for fail-fast diagnostics, not production runs.
func NewOrchestrator(st *store.Store, fetcher *Fetcher, logger *slog.Logger, strict bool) *Orchestrator {
	return &Orchestrator{
		store:   st,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "orchestrator"),
		strict:  strict,
	}
}

// ProcessUnit runs one unit to its terminal state. Errors are folded into the
// result; the season run decides what becomes a statistic and what becomes a
// failure log entry.
func (o *Orchestrator) ProcessUnit(ctx context.Context, unit Unit) UnitResult {
	result := UnitResult{
		Unit:           unit,
		Inserted:       make(map[store.Category]int),
		CategoryErrors: make(map[store.Category]error),
	}
	logger := o.logger.With(
		logging.Int("year", unit.Year),
		logging.Int("round", unit.Round),
		logging.String("kind", string(unit.Kind)),
	)

	completeness, err := o.store.SessionCompleteness(ctx, unit.Year, unit.Round, unit.Kind)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("completeness check: %w", err)
		return result
	}
	result.SessionID = completeness.SessionID

	if completeness.AllPresent() {
		logger.Debug("all categories present, skipping")
		result.Outcome = OutcomeSkipped
		return result
	}
	missing := completeness.Missing()

	data, err := o.fetcher.FetchSession(ctx, unit.Year, unit.Round, unit.Kind.UpstreamName())
	if err != nil {
		if upstream.IsNotFound(err) {
			logger.Debug("session does not exist upstream", logging.Error(err))
			result.Outcome = OutcomeNotAvailable
			return result
		}
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	if result.SessionID == 0 {
		sessionID, err := o.createSession(ctx, unit)
		if err != nil {
			result.Outcome = OutcomeFailed
			result.Err = err
			return result
		}
		result.SessionID = sessionID
	}

	for _, category := range missing {
		count, err := categoryIngesters[category](ctx, o.store, data, result.SessionID, unit.Year, unit.Kind)
		if err != nil {
			if o.strict {
				result.Outcome = OutcomeFailed
				result.Err = fmt.Errorf("%s: %w", category, err)
				return result
			}
			logger.Error("category ingestion failed",
				logging.String("category", string(category)),
				logging.Error(err))
			result.CategoryErrors[category] = err
			continue
		}
		result.Inserted[category] = count
		logger.Debug("category ingested",
			logging.String("category", string(category)),
			logging.Int("rows", count))
	}

	if len(result.CategoryErrors) > 0 {
		result.Outcome = OutcomePartial
	} else {
		result.Outcome = OutcomeIngested
	}
	return result
}

func (o *Orchestrator) createSession(ctx context.Context, unit Unit) (int64, error) {
	circuitID, err := o.store.EnsureCircuit(ctx, store.Circuit{
		Name:     unit.EventName,
		Location: unit.Location,
		Country:  unit.Country,
	})
	if err != nil {
		return 0, fmt.Errorf("ensure circuit: %w", err)
	}
	sessionID, err := o.store.CreateSession(ctx, store.Session{
		Year:      unit.Year,
		Round:     unit.Round,
		Kind:      unit.Kind,
		EventName: unit.EventName,
		EventDate: unit.EventDate,
		CircuitID: circuitID,
	})
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}
