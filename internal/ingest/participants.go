package ingest

import (
	"context"
	"fmt"
	"strings"

	"paddock/internal/store"
	"paddock/internal/upstream"
)

// ensureParticipant resolves one upstream participant record to internal
// driver and team ids, creating rows as needed. Driver identity fields are
// first-write-wins; teams are keyed by (year, name).
func ensureParticipant(ctx context.Context, st *store.Store, year int, row upstream.ResultRow) (int64, int64, error) {
	driverID, err := st.EnsureDriver(ctx, store.Driver{
		Code:        row.DriverCode,
		FullName:    row.FullName,
		Number:      row.DriverNumber,
		CountryCode: row.CountryCode,
		HeadshotURL: row.HeadshotURL,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("ensure driver %q: %w", row.DriverCode, err)
	}

	teamID, err := st.EnsureTeam(ctx, store.Team{
		Year:  year,
		Name:  row.TeamName,
		Color: normalizeTeamColor(row.TeamColor),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("ensure team %q: %w", row.TeamName, err)
	}

	return driverID, teamID, nil
}

// normalizeTeamColor strips the leading marker the feed sometimes prefixes to
// hex colors.
func normalizeTeamColor(color *string) *string {
	if color == nil {
		return nil
	}
	cleaned := strings.TrimPrefix(strings.TrimSpace(*color), "#")
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// participantIndex resolves every participant of a dataset up front and
// returns a driver-code index for ingesters that join on code. Lap rows can
// reference a code missing from the classification; those drivers are created
// from the code alone.
func participantIndex(ctx context.Context, st *store.Store, year int, data *upstream.SessionData) (map[string]int64, error) {
	index := make(map[string]int64, len(data.Results))
	for _, row := range data.Results {
		code := strings.ToUpper(strings.TrimSpace(row.DriverCode))
		if code == "" {
			continue
		}
		if _, ok := index[code]; ok {
			continue
		}
		driverID, _, err := ensureParticipant(ctx, st, year, row)
		if err != nil {
			return nil, err
		}
		index[code] = driverID
	}
	return index, nil
}

// driverIDForCode returns the driver id for a lap row code, creating a
// minimal driver row when the code never appeared in the classification.
func driverIDForCode(ctx context.Context, st *store.Store, index map[string]int64, code string) (int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, fmt.Errorf("driver code required")
	}
	if id, ok := index[code]; ok {
		return id, nil
	}
	id, err := st.EnsureDriver(ctx, store.Driver{Code: code, FullName: code})
	if err != nil {
		return 0, fmt.Errorf("ensure driver %q: %w", code, err)
	}
	index[code] = id
	return id, nil
}
