package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"paddock/internal/config"
	"paddock/internal/logging"
	"paddock/internal/store"
	"paddock/internal/testsupport"
	"paddock/internal/upstream"
)

func newTestOrchestrator(t *testing.T, provider upstream.Provider, strict bool) (*Orchestrator, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fetcher := NewFetcher(provider, config.Ingest{RetryMaxAttempts: 1, RetryBaseDelaySeconds: 1}, logging.NewNop())
	return NewOrchestrator(st, fetcher, logging.NewNop(), strict), st
}

func raceUnit() Unit {
	return Unit{
		Year:      2024,
		Round:     3,
		Kind:      store.KindRace,
		EventName: "Australian Grand Prix",
		Location:  "Melbourne",
		Country:   "Australia",
		EventDate: time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC),
	}
}

func TestProcessUnitIngestsAllCategories(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.AddSession(2024, 3, "Race", testsupport.RaceSessionData())
	orch, st := newTestOrchestrator(t, provider, false)

	result := orch.ProcessUnit(context.Background(), raceUnit())
	if result.Outcome != OutcomeIngested {
		t.Fatalf("expected ingested, got %s (err=%v)", result.Outcome, result.Err)
	}
	if result.SessionID == 0 {
		t.Fatal("expected a session row to be created")
	}
	for _, category := range store.AllCategories {
		if result.Inserted[category] == 0 {
			t.Fatalf("expected rows for %s", category)
		}
	}

	completeness, err := st.SessionCompleteness(context.Background(), 2024, 3, store.KindRace)
	if err != nil {
		t.Fatalf("SessionCompleteness: %v", err)
	}
	if !completeness.AllPresent() {
		t.Fatalf("expected every category present, missing %v", completeness.Missing())
	}
}

func TestProcessUnitSkipsCompleteSession(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.AddSession(2024, 3, "Race", testsupport.RaceSessionData())
	orch, _ := newTestOrchestrator(t, provider, false)

	first := orch.ProcessUnit(context.Background(), raceUnit())
	if first.Outcome != OutcomeIngested {
		t.Fatalf("setup run: expected ingested, got %s", first.Outcome)
	}
	callsAfterFirst := provider.TotalLoadCalls()

	second := orch.ProcessUnit(context.Background(), raceUnit())
	if second.Outcome != OutcomeSkipped {
		t.Fatalf("expected skip, got %s", second.Outcome)
	}
	if provider.TotalLoadCalls() != callsAfterFirst {
		t.Fatal("a complete session must not trigger an upstream fetch")
	}
}

func TestProcessUnitNotAvailableCreatesNothing(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	orch, st := newTestOrchestrator(t, provider, false)

	unit := raceUnit()
	unit.Kind = store.KindSprintRace
	result := orch.ProcessUnit(context.Background(), unit)
	if result.Outcome != OutcomeNotAvailable {
		t.Fatalf("expected not-available, got %s (err=%v)", result.Outcome, result.Err)
	}

	session, err := st.SessionByKey(context.Background(), 2024, 3, store.KindSprintRace)
	if err != nil {
		t.Fatalf("SessionByKey: %v", err)
	}
	if session != nil {
		t.Fatal("no session row should exist for an unavailable session")
	}
}

func TestProcessUnitFetchFailure(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.FailSession(2024, 3, "Race", errors.Join(upstream.ErrTransient, errors.New("status 503")))
	orch, st := newTestOrchestrator(t, provider, false)

	result := orch.ProcessUnit(context.Background(), raceUnit())
	if result.Outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", result.Outcome)
	}
	if result.Err == nil {
		t.Fatal("expected a unit error")
	}

	session, err := st.SessionByKey(context.Background(), 2024, 3, store.KindRace)
	if err != nil {
		t.Fatalf("SessionByKey: %v", err)
	}
	if session != nil {
		t.Fatal("failed fetch must not create a session row")
	}
}

func TestProcessUnitIsolatesCategoryFailures(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.AddSession(2024, 3, "Race", testsupport.RaceSessionData())
	orch, st := newTestOrchestrator(t, provider, false)

	original := categoryIngesters[store.CategoryWeather]
	categoryIngesters[store.CategoryWeather] = func(context.Context, *store.Store, *upstream.SessionData, int64, int, store.SessionKind) (int, error) {
		return 0, errors.New("weather insert blew up")
	}
	defer func() { categoryIngesters[store.CategoryWeather] = original }()

	result := orch.ProcessUnit(context.Background(), raceUnit())
	if result.Outcome != OutcomePartial {
		t.Fatalf("expected partial, got %s", result.Outcome)
	}
	if _, ok := result.CategoryErrors[store.CategoryWeather]; !ok {
		t.Fatal("expected a recorded weather error")
	}
	if result.Inserted[store.CategoryResults] == 0 || result.Inserted[store.CategoryMessages] == 0 {
		t.Fatal("sibling categories must still be ingested")
	}

	// The next run re-dispatches only the failed category.
	categoryIngesters[store.CategoryWeather] = original
	retry := orch.ProcessUnit(context.Background(), raceUnit())
	if retry.Outcome != OutcomeIngested {
		t.Fatalf("expected retry to ingest, got %s", retry.Outcome)
	}
	if len(retry.Inserted) != 1 || retry.Inserted[store.CategoryWeather] == 0 {
		t.Fatalf("expected only weather to be dispatched, got %v", retry.Inserted)
	}

	completeness, err := st.SessionCompleteness(context.Background(), 2024, 3, store.KindRace)
	if err != nil {
		t.Fatalf("SessionCompleteness: %v", err)
	}
	if !completeness.AllPresent() {
		t.Fatalf("expected complete session after retry, missing %v", completeness.Missing())
	}
}

func TestProcessUnitStrictStopsAtFirstFailure(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.AddSession(2024, 3, "Race", testsupport.RaceSessionData())
	orch, st := newTestOrchestrator(t, provider, true)

	original := categoryIngesters[store.CategoryResults]
	categoryIngesters[store.CategoryResults] = func(context.Context, *store.Store, *upstream.SessionData, int64, int, store.SessionKind) (int, error) {
		return 0, errors.New("results insert blew up")
	}
	defer func() { categoryIngesters[store.CategoryResults] = original }()

	result := orch.ProcessUnit(context.Background(), raceUnit())
	if result.Outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", result.Outcome)
	}
	if result.Err == nil {
		t.Fatal("strict mode surfaces the category error as the unit error")
	}

	hasLaps, err := st.HasCategoryRows(context.Background(), result.SessionID, store.CategoryLaps)
	if err != nil {
		t.Fatalf("HasCategoryRows: %v", err)
	}
	if hasLaps {
		t.Fatal("strict mode must not run categories after the failure")
	}
}
