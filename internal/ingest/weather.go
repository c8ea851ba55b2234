package ingest

import (
	"context"

	"paddock/internal/store"
	"paddock/internal/upstream"
)

// ingestWeather transforms weather samples into rows and persists them. Rows
// without a parseable timestamp are dropped.
func ingestWeather(ctx context.Context, st *store.Store, data *upstream.SessionData, sessionID int64, year int, kind store.SessionKind) (int, error) {
	exists, err := st.HasCategoryRows(ctx, sessionID, store.CategoryWeather)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	samples := make([]store.WeatherSample, 0, len(data.Weather))
	for _, row := range data.Weather {
		if row.SessionTimeSeconds == nil {
			continue
		}
		samples = append(samples, store.WeatherSample{
			SessionID:          sessionID,
			SessionTimeSeconds: *row.SessionTimeSeconds,
			AirTemp:            row.AirTemp,
			TrackTemp:          row.TrackTemp,
			Humidity:           row.Humidity,
			Pressure:           row.Pressure,
			WindSpeed:          row.WindSpeed,
			WindDirection:      row.WindDirection,
			Rainfall:           row.Rainfall,
		})
	}

	return st.InsertWeatherSamples(ctx, samples)
}
