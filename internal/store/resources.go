package store

import (
	"context"
	"database/sql"
	"fmt"
)

// InsertResults persists result rows for one session in a single transaction.
// Each category commits independently of its siblings, so a crash between two
// ingesters leaves earlier categories persisted.
func (s *Store) InsertResults(ctx context.Context, results []Result) (int, error) {
	return s.insertBatch(ctx, "insert results", len(results), func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(
			ctx,
			`INSERT INTO session_results (
                session_id, driver_id, team_id, position, status, grid_position,
                points, laps_completed, time_seconds, fastest_lap,
                q1_time_seconds, q2_time_seconds, q3_time_seconds, headshot_url
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for _, result := range results {
			_, err := stmt.ExecContext(
				ctx,
				result.SessionID,
				result.DriverID,
				result.TeamID,
				nullableInt(result.Position),
				result.Status,
				nullableInt(result.GridPosition),
				nullableFloat(result.Points),
				nullableInt(result.LapsCompleted),
				nullableFloat(result.TimeSeconds),
				boolToInt(result.FastestLap),
				nullableFloat(result.Q1TimeSeconds),
				nullableFloat(result.Q2TimeSeconds),
				nullableFloat(result.Q3TimeSeconds),
				nullableString(result.HeadshotURL),
			)
			if err != nil {
				return fmt.Errorf("exec: %w", err)
			}
		}
		return nil
	})
}

// InsertLaps persists lap rows for one session in a single transaction.
func (s *Store) InsertLaps(ctx context.Context, laps []Lap) (int, error) {
	return s.insertBatch(ctx, "insert laps", len(laps), func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(
			ctx,
			`INSERT INTO laps (
                session_id, driver_id, lap_number, lap_time_seconds,
                sector1_time_seconds, sector2_time_seconds, sector3_time_seconds,
                lap_start_time_seconds, sector1_session_time_seconds,
                sector2_session_time_seconds, sector3_session_time_seconds,
                pit_in_time_seconds, pit_out_time_seconds, pit_duration_seconds,
                stint, speed_i1, speed_i2, speed_fl, speed_st, compound,
                tyre_life, fresh_tyre, position, track_status, personal_best,
                accurate, deleted, deleted_reason
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for _, lap := range laps {
			_, err := stmt.ExecContext(
				ctx,
				lap.SessionID,
				lap.DriverID,
				lap.LapNumber,
				nullableFloat(lap.LapTimeSeconds),
				nullableFloat(lap.Sector1TimeSeconds),
				nullableFloat(lap.Sector2TimeSeconds),
				nullableFloat(lap.Sector3TimeSeconds),
				nullableFloat(lap.LapStartTimeSeconds),
				nullableFloat(lap.Sector1SessionTimeSeconds),
				nullableFloat(lap.Sector2SessionTimeSeconds),
				nullableFloat(lap.Sector3SessionTimeSeconds),
				nullableFloat(lap.PitInTimeSeconds),
				nullableFloat(lap.PitOutTimeSeconds),
				nullableFloat(lap.PitDurationSeconds),
				nullableInt(lap.Stint),
				nullableFloat(lap.SpeedI1),
				nullableFloat(lap.SpeedI2),
				nullableFloat(lap.SpeedFL),
				nullableFloat(lap.SpeedST),
				nullableString(lap.Compound),
				nullableInt(lap.TyreLife),
				nullableBool(lap.FreshTyre),
				nullableInt(lap.Position),
				nullableString(lap.TrackStatus),
				nullableBool(lap.PersonalBest),
				nullableBool(lap.Accurate),
				nullableBool(lap.Deleted),
				nullableString(lap.DeletedReason),
			)
			if err != nil {
				return fmt.Errorf("exec: %w", err)
			}
		}
		return nil
	})
}

// InsertWeatherSamples persists weather rows for one session in a single transaction.
func (s *Store) InsertWeatherSamples(ctx context.Context, samples []WeatherSample) (int, error) {
	return s.insertBatch(ctx, "insert weather samples", len(samples), func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(
			ctx,
			`INSERT INTO weather_samples (
                session_id, session_time_seconds, air_temp, track_temp,
                humidity, pressure, wind_speed, wind_direction, rainfall
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for _, sample := range samples {
			_, err := stmt.ExecContext(
				ctx,
				sample.SessionID,
				sample.SessionTimeSeconds,
				nullableFloat(sample.AirTemp),
				nullableFloat(sample.TrackTemp),
				nullableFloat(sample.Humidity),
				nullableFloat(sample.Pressure),
				nullableFloat(sample.WindSpeed),
				nullableInt(sample.WindDirection),
				nullableBool(sample.Rainfall),
			)
			if err != nil {
				return fmt.Errorf("exec: %w", err)
			}
		}
		return nil
	})
}

// InsertTrackStatusEvents persists track status rows for one session in a single transaction.
func (s *Store) InsertTrackStatusEvents(ctx context.Context, events []TrackStatusEvent) (int, error) {
	return s.insertBatch(ctx, "insert track status events", len(events), func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(
			ctx,
			`INSERT INTO track_status_events (session_id, session_time_seconds, status, message)
             VALUES (?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for _, event := range events {
			_, err := stmt.ExecContext(
				ctx,
				event.SessionID,
				event.SessionTimeSeconds,
				event.Status,
				nullableString(event.Message),
			)
			if err != nil {
				return fmt.Errorf("exec: %w", err)
			}
		}
		return nil
	})
}

// InsertControlMessages persists control message rows for one session in a single transaction.
func (s *Store) InsertControlMessages(ctx context.Context, messages []ControlMessage) (int, error) {
	return s.insertBatch(ctx, "insert control messages", len(messages), func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(
			ctx,
			`INSERT INTO control_messages (
                session_id, session_time_seconds, category, message, status,
                driver_number, flag, scope, sector, lap_number
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for _, message := range messages {
			_, err := stmt.ExecContext(
				ctx,
				message.SessionID,
				message.SessionTimeSeconds,
				nullableString(message.Category),
				message.Message,
				nullableString(message.Status),
				nullableInt(message.DriverNumber),
				nullableString(message.Flag),
				nullableString(message.Scope),
				nullableInt(message.Sector),
				nullableInt(message.LapNumber),
			)
			if err != nil {
				return fmt.Errorf("exec: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) insertBatch(ctx context.Context, op string, count int, fill func(tx *sql.Tx) error) (int, error) {
	if count == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fill(tx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}
	return count, nil
}

// SessionResults returns the persisted classification for one session ordered
// by finishing position (unclassified rows last).
func (s *Store) SessionResults(ctx context.Context, sessionID int64) ([]*Result, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, driver_id, team_id, position, status, grid_position,
            points, laps_completed, time_seconds, fastest_lap,
            q1_time_seconds, q2_time_seconds, q3_time_seconds, headshot_url
         FROM session_results WHERE session_id = ?
         ORDER BY position IS NULL, position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query session results: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var r Result
		var position, gridPosition, lapsCompleted sql.NullInt64
		var points, timeSeconds, q1, q2, q3 sql.NullFloat64
		var fastestLap int
		var headshot sql.NullString
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.DriverID, &r.TeamID, &position, &r.Status,
			&gridPosition, &points, &lapsCompleted, &timeSeconds, &fastestLap,
			&q1, &q2, &q3, &headshot,
		); err != nil {
			return nil, fmt.Errorf("scan session result: %w", err)
		}
		r.Position = intPtr(position)
		r.GridPosition = intPtr(gridPosition)
		r.Points = floatPtr(points)
		r.LapsCompleted = intPtr(lapsCompleted)
		r.TimeSeconds = floatPtr(timeSeconds)
		r.FastestLap = fastestLap != 0
		r.Q1TimeSeconds = floatPtr(q1)
		r.Q2TimeSeconds = floatPtr(q2)
		r.Q3TimeSeconds = floatPtr(q3)
		r.HeadshotURL = stringPtr(headshot)
		results = append(results, &r)
	}
	return results, rows.Err()
}

// DriverLaps returns one driver's persisted laps for a session in lap order.
func (s *Store) DriverLaps(ctx context.Context, sessionID, driverID int64) ([]*Lap, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, driver_id, lap_number, lap_time_seconds,
            pit_in_time_seconds, pit_out_time_seconds, pit_duration_seconds,
            stint, compound, tyre_life, fresh_tyre, position, deleted
         FROM laps WHERE session_id = ? AND driver_id = ? ORDER BY lap_number`,
		sessionID, driverID,
	)
	if err != nil {
		return nil, fmt.Errorf("query driver laps: %w", err)
	}
	defer rows.Close()

	var laps []*Lap
	for rows.Next() {
		var l Lap
		var lapTime, pitIn, pitOut, pitDuration sql.NullFloat64
		var stint, tyreLife, position sql.NullInt64
		var compound sql.NullString
		var freshTyre, deleted sql.NullInt64
		if err := rows.Scan(
			&l.ID, &l.SessionID, &l.DriverID, &l.LapNumber, &lapTime,
			&pitIn, &pitOut, &pitDuration, &stint, &compound, &tyreLife,
			&freshTyre, &position, &deleted,
		); err != nil {
			return nil, fmt.Errorf("scan driver lap: %w", err)
		}
		l.LapTimeSeconds = floatPtr(lapTime)
		l.PitInTimeSeconds = floatPtr(pitIn)
		l.PitOutTimeSeconds = floatPtr(pitOut)
		l.PitDurationSeconds = floatPtr(pitDuration)
		l.Stint = intPtr(stint)
		l.Compound = stringPtr(compound)
		l.TyreLife = intPtr(tyreLife)
		l.FreshTyre = boolPtr(freshTyre)
		l.Position = intPtr(position)
		l.Deleted = boolPtr(deleted)
		laps = append(laps, &l)
	}
	return laps, rows.Err()
}

// SessionControlMessages returns the persisted race-control messages for one
// session in chronological order.
func (s *Store) SessionControlMessages(ctx context.Context, sessionID int64) ([]*ControlMessage, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, session_time_seconds, category, message, status,
            driver_number, flag, scope, sector, lap_number
         FROM control_messages WHERE session_id = ? ORDER BY session_time_seconds, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query control messages: %w", err)
	}
	defer rows.Close()

	var messages []*ControlMessage
	for rows.Next() {
		var m ControlMessage
		var category, status, flag, scope sql.NullString
		var driverNumber, sector, lapNumber sql.NullInt64
		if err := rows.Scan(
			&m.ID, &m.SessionID, &m.SessionTimeSeconds, &category, &m.Message,
			&status, &driverNumber, &flag, &scope, &sector, &lapNumber,
		); err != nil {
			return nil, fmt.Errorf("scan control message: %w", err)
		}
		m.Category = stringPtr(category)
		m.Status = stringPtr(status)
		m.DriverNumber = intPtr(driverNumber)
		m.Flag = stringPtr(flag)
		m.Scope = stringPtr(scope)
		m.Sector = intPtr(sector)
		m.LapNumber = intPtr(lapNumber)
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// SeasonCategoryCounts returns per-category row counts for every session of a
// year, ordered by round then kind.
func (s *Store) SeasonCategoryCounts(ctx context.Context, year int) ([]CategoryCounts, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT s.year, s.round, s.kind, s.event_name,
            (SELECT COUNT(1) FROM session_results r WHERE r.session_id = s.id),
            (SELECT COUNT(1) FROM laps l WHERE l.session_id = s.id),
            (SELECT COUNT(1) FROM weather_samples w WHERE w.session_id = s.id),
            (SELECT COUNT(1) FROM track_status_events t WHERE t.session_id = s.id),
            (SELECT COUNT(1) FROM control_messages m WHERE m.session_id = s.id)
         FROM sessions s WHERE s.year = ? ORDER BY s.round, s.kind`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("query season counts: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCounts
	for rows.Next() {
		var c CategoryCounts
		var kind string
		if err := rows.Scan(&c.Year, &c.Round, &kind, &c.EventName, &c.Results, &c.Laps, &c.Weather, &c.TrackStatus, &c.Messages); err != nil {
			return nil, fmt.Errorf("scan season counts: %w", err)
		}
		c.Kind = SessionKind(kind)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
