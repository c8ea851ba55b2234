package testsupport

import (
	"context"
	"testing"
	"time"

	"paddock/internal/config"
	"paddock/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustCreateSession inserts a circuit and a session row for tests and returns
// the session id.
func MustCreateSession(t testing.TB, st *store.Store, year, round int, kind store.SessionKind) int64 {
	t.Helper()

	ctx := context.Background()
	circuitID, err := st.EnsureCircuit(ctx, store.Circuit{
		Name:     "Test Circuit",
		Location: "Testville",
		Country:  "Testland",
	})
	if err != nil {
		t.Fatalf("EnsureCircuit: %v", err)
	}
	sessionID, err := st.CreateSession(ctx, store.Session{
		Year:      year,
		Round:     round,
		Kind:      kind,
		EventName: "Test Grand Prix",
		EventDate: time.Date(year, 3, 2, 0, 0, 0, 0, time.UTC),
		CircuitID: circuitID,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return sessionID
}
