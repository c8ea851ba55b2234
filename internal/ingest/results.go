package ingest

import (
	"context"
	"strings"

	"paddock/internal/store"
	"paddock/internal/upstream"
)

// ingestResults transforms the participant classification into result rows and
// persists them. One row per participant. For race-like kinds the fastest-lap
// holder is computed from the loaded lap set. Returns the count inserted.
func ingestResults(ctx context.Context, st *store.Store, data *upstream.SessionData, sessionID int64, year int, kind store.SessionKind) (int, error) {
	exists, err := st.HasCategoryRows(ctx, sessionID, store.CategoryResults)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	fastestCode := ""
	if kind.IsRaceLike() {
		fastestCode = fastestLapDriver(data.Laps)
	}

	results := make([]store.Result, 0, len(data.Results))
	for _, row := range data.Results {
		driverID, teamID, err := ensureParticipant(ctx, st, year, row)
		if err != nil {
			return 0, err
		}

		status := "Unknown"
		if row.Status != nil && strings.TrimSpace(*row.Status) != "" {
			status = strings.TrimSpace(*row.Status)
		}

		// Qualifying sessions award no points; the feed omits the field
		// entirely, so store an explicit zero rather than NULL.
		points := row.Points
		if points == nil && !kind.IsRaceLike() {
			zero := 0.0
			points = &zero
		}

		results = append(results, store.Result{
			SessionID:     sessionID,
			DriverID:      driverID,
			TeamID:        teamID,
			Position:      row.Position,
			Status:        status,
			GridPosition:  row.GridPosition,
			Points:        points,
			LapsCompleted: row.LapsCompleted,
			TimeSeconds:   row.TimeSeconds,
			FastestLap:    fastestCode != "" && strings.EqualFold(row.DriverCode, fastestCode),
			Q1TimeSeconds: row.Q1TimeSeconds,
			Q2TimeSeconds: row.Q2TimeSeconds,
			Q3TimeSeconds: row.Q3TimeSeconds,
			HeadshotURL:   row.HeadshotURL,
		})
	}

	return st.InsertResults(ctx, results)
}

// fastestLapDriver returns the code of the driver holding the minimum valid
// lap time. Ties break on the earlier lap number, then lexicographically on
// driver code, so the result is deterministic regardless of row order.
func fastestLapDriver(laps []upstream.LapRow) string {
	bestCode := ""
	bestTime := 0.0
	bestLap := 0
	for _, lap := range laps {
		if lap.LapTimeSeconds == nil || *lap.LapTimeSeconds <= 0 || lap.LapNumber == nil {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(lap.DriverCode))
		if code == "" {
			continue
		}
		lapTime := *lap.LapTimeSeconds
		lapNumber := *lap.LapNumber
		better := bestCode == "" ||
			lapTime < bestTime ||
			(lapTime == bestTime && lapNumber < bestLap) ||
			(lapTime == bestTime && lapNumber == bestLap && code < bestCode)
		if better {
			bestCode = code
			bestTime = lapTime
			bestLap = lapNumber
		}
	}
	return bestCode
}
