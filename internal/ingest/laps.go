package ingest

import (
	"context"

	"paddock/internal/store"
	"paddock/internal/upstream"
)

// ingestLaps transforms lap-by-lap records into lap rows and persists them.
// Rows without a lap number are unidentifiable and dropped. Pit duration is
// derived here from the pit endpoints and stays NULL whenever either endpoint
// is missing.
func ingestLaps(ctx context.Context, st *store.Store, data *upstream.SessionData, sessionID int64, year int, kind store.SessionKind) (int, error) {
	exists, err := st.HasCategoryRows(ctx, sessionID, store.CategoryLaps)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	index, err := participantIndex(ctx, st, year, data)
	if err != nil {
		return 0, err
	}

	laps := make([]store.Lap, 0, len(data.Laps))
	for _, row := range data.Laps {
		if row.LapNumber == nil {
			continue
		}
		driverID, err := driverIDForCode(ctx, st, index, row.DriverCode)
		if err != nil {
			return 0, err
		}

		laps = append(laps, store.Lap{
			SessionID:                 sessionID,
			DriverID:                  driverID,
			LapNumber:                 *row.LapNumber,
			LapTimeSeconds:            row.LapTimeSeconds,
			Sector1TimeSeconds:        row.Sector1TimeSeconds,
			Sector2TimeSeconds:        row.Sector2TimeSeconds,
			Sector3TimeSeconds:        row.Sector3TimeSeconds,
			LapStartTimeSeconds:       row.LapStartTimeSeconds,
			Sector1SessionTimeSeconds: row.Sector1SessionTimeSeconds,
			Sector2SessionTimeSeconds: row.Sector2SessionTimeSeconds,
			Sector3SessionTimeSeconds: row.Sector3SessionTimeSeconds,
			PitInTimeSeconds:          row.PitInTimeSeconds,
			PitOutTimeSeconds:         row.PitOutTimeSeconds,
			PitDurationSeconds:        pitDuration(row.PitInTimeSeconds, row.PitOutTimeSeconds),
			Stint:                     row.Stint,
			SpeedI1:                   row.SpeedI1,
			SpeedI2:                   row.SpeedI2,
			SpeedFL:                   row.SpeedFL,
			SpeedST:                   row.SpeedST,
			Compound:                  row.Compound,
			TyreLife:                  row.TyreLife,
			FreshTyre:                 row.FreshTyre,
			Position:                  row.Position,
			TrackStatus:               row.TrackStatus,
			PersonalBest:              row.PersonalBest,
			Accurate:                  row.Accurate,
			Deleted:                   row.Deleted,
			DeletedReason:             row.DeletedReason,
		})
	}

	return st.InsertLaps(ctx, laps)
}

func pitDuration(pitIn, pitOut *float64) *float64 {
	if pitIn == nil || pitOut == nil {
		return nil
	}
	duration := *pitOut - *pitIn
	return &duration
}
