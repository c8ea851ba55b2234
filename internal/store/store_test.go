package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"paddock/internal/config"
	"paddock/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Database.Path = filepath.Join(base, "data", "paddock.db")

	st, err := store.Open(&cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func createSession(t *testing.T, st *store.Store, year, round int, kind store.SessionKind) int64 {
	t.Helper()
	ctx := context.Background()
	circuitID, err := st.EnsureCircuit(ctx, store.Circuit{Name: "Albert Park", Location: "Melbourne", Country: "Australia"})
	if err != nil {
		t.Fatalf("EnsureCircuit: %v", err)
	}
	id, err := st.CreateSession(ctx, store.Session{
		Year:      year,
		Round:     round,
		Kind:      kind,
		EventName: "Australian Grand Prix",
		EventDate: time.Date(year, 3, 24, 0, 0, 0, 0, time.UTC),
		CircuitID: circuitID,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return id
}

func TestOpenAppliesMigrations(t *testing.T) {
	st := newStore(t)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Fatalf("expected a readable database, got %+v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("missing tables after migration: %v", health.MissingTables)
	}
	if !health.IntegrityCheck {
		t.Fatal("integrity check failed on a fresh database")
	}
}

func TestSessionByKeyReturnsNilWhenAbsent(t *testing.T) {
	st := newStore(t)

	session, err := st.SessionByKey(context.Background(), 2024, 3, store.KindRace)
	if err != nil {
		t.Fatalf("SessionByKey: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil for an absent session, got %+v", session)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	st := newStore(t)
	id := createSession(t, st, 2024, 3, store.KindRace)

	session, err := st.SessionByKey(context.Background(), 2024, 3, store.KindRace)
	if err != nil {
		t.Fatalf("SessionByKey: %v", err)
	}
	if session == nil || session.ID != id {
		t.Fatalf("expected session %d, got %+v", id, session)
	}
	if session.Kind != store.KindRace || session.EventName != "Australian Grand Prix" {
		t.Fatalf("unexpected session fields: %+v", session)
	}
	if !session.EventDate.Equal(time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event date: %v", session.EventDate)
	}
}

func TestSessionCompleteness(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	completeness, err := st.SessionCompleteness(ctx, 2024, 3, store.KindRace)
	if err != nil {
		t.Fatalf("SessionCompleteness: %v", err)
	}
	if completeness.SessionID != 0 {
		t.Fatalf("absent session must report id 0, got %d", completeness.SessionID)
	}
	if completeness.AllPresent() {
		t.Fatal("absent session cannot be complete")
	}
	if len(completeness.Missing()) != len(store.AllCategories) {
		t.Fatalf("every category must be missing, got %v", completeness.Missing())
	}

	id := createSession(t, st, 2024, 3, store.KindRace)
	driverID, err := st.EnsureDriver(ctx, store.Driver{Code: "VER", FullName: "Max Verstappen"})
	if err != nil {
		t.Fatalf("EnsureDriver: %v", err)
	}
	teamID, err := st.EnsureTeam(ctx, store.Team{Year: 2024, Name: "Red Bull Racing"})
	if err != nil {
		t.Fatalf("EnsureTeam: %v", err)
	}
	if _, err := st.InsertResults(ctx, []store.Result{{SessionID: id, DriverID: driverID, TeamID: teamID, Status: "Finished"}}); err != nil {
		t.Fatalf("InsertResults: %v", err)
	}

	completeness, err = st.SessionCompleteness(ctx, 2024, 3, store.KindRace)
	if err != nil {
		t.Fatalf("SessionCompleteness: %v", err)
	}
	if completeness.SessionID != id {
		t.Fatalf("expected session id %d, got %d", id, completeness.SessionID)
	}
	if !completeness.Has(store.CategoryResults) {
		t.Fatal("results must be present after insert")
	}
	missing := completeness.Missing()
	if len(missing) != len(store.AllCategories)-1 {
		t.Fatalf("expected the other categories missing, got %v", missing)
	}
}

func TestEnsureCircuitIsIdempotent(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	first, err := st.EnsureCircuit(ctx, store.Circuit{Name: "Albert Park", Location: "Melbourne", Country: "Australia"})
	if err != nil {
		t.Fatalf("EnsureCircuit: %v", err)
	}
	second, err := st.EnsureCircuit(ctx, store.Circuit{Name: "Albert Park", Location: "Elsewhere", Country: "Nowhere"})
	if err != nil {
		t.Fatalf("EnsureCircuit: %v", err)
	}
	if first != second {
		t.Fatalf("same venue name must resolve to one row, got %d and %d", first, second)
	}
}

func TestEnsureTeamIsYearPartitioned(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	id2023, err := st.EnsureTeam(ctx, store.Team{Year: 2023, Name: "Sauber"})
	if err != nil {
		t.Fatalf("EnsureTeam: %v", err)
	}
	id2024, err := st.EnsureTeam(ctx, store.Team{Year: 2024, Name: "Sauber"})
	if err != nil {
		t.Fatalf("EnsureTeam: %v", err)
	}
	if id2023 == id2024 {
		t.Fatal("the same name in different years must be distinct teams")
	}

	again, err := st.EnsureTeam(ctx, store.Team{Year: 2024, Name: "Sauber"})
	if err != nil {
		t.Fatalf("EnsureTeam: %v", err)
	}
	if again != id2024 {
		t.Fatalf("expected the existing 2024 row, got %d and %d", id2024, again)
	}
}

func TestInsertBatchEmptySliceIsNoOp(t *testing.T) {
	st := newStore(t)
	id := createSession(t, st, 2024, 3, store.KindRace)

	count, err := st.InsertWeatherSamples(context.Background(), nil)
	if err != nil {
		t.Fatalf("InsertWeatherSamples: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 rows, got %d", count)
	}

	has, err := st.HasCategoryRows(context.Background(), id, store.CategoryWeather)
	if err != nil {
		t.Fatalf("HasCategoryRows: %v", err)
	}
	if has {
		t.Fatal("empty insert must not mark the category present")
	}
}

func TestSeasonCategoryCounts(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	id := createSession(t, st, 2024, 3, store.KindRace)

	if _, err := st.InsertWeatherSamples(ctx, []store.WeatherSample{
		{SessionID: id, SessionTimeSeconds: 0},
		{SessionID: id, SessionTimeSeconds: 60},
	}); err != nil {
		t.Fatalf("InsertWeatherSamples: %v", err)
	}
	if _, err := st.InsertTrackStatusEvents(ctx, []store.TrackStatusEvent{
		{SessionID: id, SessionTimeSeconds: 0, Status: "1"},
	}); err != nil {
		t.Fatalf("InsertTrackStatusEvents: %v", err)
	}

	counts, err := st.SeasonCategoryCounts(ctx, 2024)
	if err != nil {
		t.Fatalf("SeasonCategoryCounts: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("expected 1 session, got %d", len(counts))
	}
	c := counts[0]
	if c.Round != 3 || c.Kind != store.KindRace {
		t.Fatalf("unexpected session key: %+v", c)
	}
	if c.Weather != 2 || c.TrackStatus != 1 || c.Results != 0 {
		t.Fatalf("unexpected counts: %+v", c)
	}
}

func TestParseSessionKind(t *testing.T) {
	kind, err := store.ParseSessionKind(" Sprint_Race ")
	if err != nil {
		t.Fatalf("ParseSessionKind: %v", err)
	}
	if kind != store.KindSprintRace {
		t.Fatalf("expected sprint_race, got %s", kind)
	}
	if _, err := store.ParseSessionKind("practice"); err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}

func TestUpstreamNames(t *testing.T) {
	cases := map[store.SessionKind]string{
		store.KindRace:             "Race",
		store.KindQualifying:       "Qualifying",
		store.KindSprintRace:       "Sprint",
		store.KindSprintQualifying: "Sprint Qualifying",
	}
	for kind, want := range cases {
		if got := kind.UpstreamName(); got != want {
			t.Fatalf("%s: expected %q, got %q", kind, want, got)
		}
	}
	if !store.KindRace.IsRaceLike() || !store.KindSprintRace.IsRaceLike() {
		t.Fatal("race kinds must be race-like")
	}
	if store.KindQualifying.IsRaceLike() || store.KindSprintQualifying.IsRaceLike() {
		t.Fatal("qualifying kinds must not be race-like")
	}
}
