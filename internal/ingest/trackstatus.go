package ingest

import (
	"context"
	"strings"

	"paddock/internal/store"
	"paddock/internal/upstream"
)

// ingestTrackStatus transforms flag and safety-car transitions into rows and
// persists them. Rows lacking a status code are dropped; the human-readable
// message is optional.
func ingestTrackStatus(ctx context.Context, st *store.Store, data *upstream.SessionData, sessionID int64, year int, kind store.SessionKind) (int, error) {
	exists, err := st.HasCategoryRows(ctx, sessionID, store.CategoryTrackStatus)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	events := make([]store.TrackStatusEvent, 0, len(data.TrackStatus))
	for _, row := range data.TrackStatus {
		if row.SessionTimeSeconds == nil || row.Status == nil || strings.TrimSpace(*row.Status) == "" {
			continue
		}
		events = append(events, store.TrackStatusEvent{
			SessionID:          sessionID,
			SessionTimeSeconds: *row.SessionTimeSeconds,
			Status:             strings.TrimSpace(*row.Status),
			Message:            row.Message,
		})
	}

	return st.InsertTrackStatusEvents(ctx, events)
}
