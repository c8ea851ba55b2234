package ingest

import (
	"context"
	"strings"

	"paddock/internal/store"
	"paddock/internal/upstream"
)

// ingestMessages transforms race-control communications into rows and
// persists them. Message timestamps arrive either as elapsed seconds or as
// absolute wall-clock times; both are normalized against the session start
// reference captured once per dataset. Rows with no message text are dropped.
func ingestMessages(ctx context.Context, st *store.Store, data *upstream.SessionData, sessionID int64, year int, kind store.SessionKind) (int, error) {
	exists, err := st.HasCategoryRows(ctx, sessionID, store.CategoryMessages)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	messages := make([]store.ControlMessage, 0, len(data.Messages))
	for _, row := range data.Messages {
		if row.Message == nil || strings.TrimSpace(*row.Message) == "" {
			continue
		}
		sessionTime := normalizeMessageTime(data, row)
		if sessionTime == nil {
			continue
		}
		messages = append(messages, store.ControlMessage{
			SessionID:          sessionID,
			SessionTimeSeconds: *sessionTime,
			Category:           row.Category,
			Message:            strings.TrimSpace(*row.Message),
			Status:             row.Status,
			DriverNumber:       row.DriverNumber,
			Flag:               row.Flag,
			Scope:              row.Scope,
			Sector:             row.Sector,
			LapNumber:          row.LapNumber,
		})
	}

	return st.InsertControlMessages(ctx, messages)
}

func normalizeMessageTime(data *upstream.SessionData, row upstream.MessageRow) *float64 {
	if row.SessionTimeSeconds != nil {
		return row.SessionTimeSeconds
	}
	if row.Timestamp != nil && !data.StartTime.IsZero() {
		elapsed := row.Timestamp.Sub(data.StartTime).Seconds()
		return &elapsed
	}
	return nil
}
