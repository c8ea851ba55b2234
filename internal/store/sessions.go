package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const sessionDateLayout = "2006-01-02"

// SessionByKey fetches a session by its (year, round, kind) identity.
// Returns nil when the session does not exist.
func (s *Store) SessionByKey(ctx context.Context, year, round int, kind SessionKind) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, year, round, kind, event_name, event_date, circuit_id
         FROM sessions WHERE year = ? AND round = ? AND kind = ?`,
		year, round, kind,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// CreateSession inserts a session row and returns its id.
func (s *Store) CreateSession(ctx context.Context, session Session) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (year, round, kind, event_name, event_date, circuit_id)
         VALUES (?, ?, ?, ?, ?, ?)`,
		session.Year,
		session.Round,
		session.Kind,
		session.EventName,
		session.EventDate.Format(sessionDateLayout),
		session.CircuitID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// SessionCompleteness reports, without contacting the upstream provider, which
// categories already hold rows for the (year, round, kind) session. When the
// session row itself does not exist, SessionID is 0 and every category is
// reported missing.
func (s *Store) SessionCompleteness(ctx context.Context, year, round int, kind SessionKind) (Completeness, error) {
	completeness := Completeness{Present: make(map[Category]bool, len(AllCategories))}

	session, err := s.SessionByKey(ctx, year, round, kind)
	if err != nil {
		return completeness, err
	}
	if session == nil {
		return completeness, nil
	}
	completeness.SessionID = session.ID

	tables := map[Category]string{
		CategoryResults:     "session_results",
		CategoryLaps:        "laps",
		CategoryWeather:     "weather_samples",
		CategoryTrackStatus: "track_status_events",
		CategoryMessages:    "control_messages",
	}
	for _, category := range AllCategories {
		var count int
		query := `SELECT COUNT(1) FROM ` + tables[category] + ` WHERE session_id = ? LIMIT 1`
		if err := s.db.QueryRowContext(ctx, query, session.ID).Scan(&count); err != nil {
			return completeness, fmt.Errorf("count %s: %w", category, err)
		}
		completeness.Present[category] = count > 0
	}
	return completeness, nil
}

// HasCategoryRows reports whether a session already holds rows in a category.
// Ingesters re-check this immediately before writing so a repeated dispatch
// stays a no-op.
func (s *Store) HasCategoryRows(ctx context.Context, sessionID int64, category Category) (bool, error) {
	var table string
	switch category {
	case CategoryResults:
		table = "session_results"
	case CategoryLaps:
		table = "laps"
	case CategoryWeather:
		table = "weather_samples"
	case CategoryTrackStatus:
		table = "track_status_events"
	case CategoryMessages:
		table = "control_messages"
	default:
		return false, fmt.Errorf("unknown category %q", category)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table+` WHERE session_id = ? LIMIT 1`, sessionID).Scan(&count); err != nil {
		return false, fmt.Errorf("count %s: %w", category, err)
	}
	return count > 0, nil
}

// SeasonSessions lists the sessions stored for a year ordered by round.
func (s *Store) SeasonSessions(ctx context.Context, year int) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, year, round, kind, event_name, event_date, circuit_id
         FROM sessions WHERE year = ? ORDER BY round, kind`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("query season sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		session Session
		kind    string
		dateRaw string
	)
	if err := scanner.Scan(&session.ID, &session.Year, &session.Round, &kind, &session.EventName, &dateRaw, &session.CircuitID); err != nil {
		return nil, err
	}
	session.Kind = SessionKind(kind)
	if parsed, err := time.Parse(sessionDateLayout, dateRaw); err == nil {
		session.EventDate = parsed
	}
	return &session, nil
}
