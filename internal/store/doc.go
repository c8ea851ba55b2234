// Package store manages the session database backed by SQLite.
//
// The ingesters are the only writers. Resource rows (results, laps, weather
// samples, track status events, control messages) are append-only: once a
// session has rows in a category the category is treated as complete and is
// never re-ingested. Unique constraints on (session, driver) for results and
// laps and on (year, name) for teams back up the idempotency checks done in
// code.
package store
