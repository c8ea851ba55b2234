package upstream

import (
	"context"
	"time"
)

// Provider supplies season schedules and full session datasets.
type Provider interface {
	Schedule(ctx context.Context, year int) ([]ScheduleEvent, error)
	LoadSession(ctx context.Context, year, round int, sessionName string) (*SessionData, error)
}

// ScheduleEvent is one round of a season schedule.
type ScheduleEvent struct {
	RoundNumber int       `json:"round_number"`
	EventName   string    `json:"event_name"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	EventDate   time.Time `json:"event_date"`
}

// SessionData is one session's full dataset: participant results, lap-by-lap
// records, weather samples, track status transitions, and control messages.
type SessionData struct {
	StartTime   time.Time        `json:"start_time"`
	Results     []ResultRow      `json:"results"`
	Laps        []LapRow         `json:"laps"`
	Weather     []WeatherRow     `json:"weather"`
	TrackStatus []TrackStatusRow `json:"track_status"`
	Messages    []MessageRow     `json:"messages"`
}

// ResultRow is one participant's raw classification record.
type ResultRow struct {
	DriverCode        string   `json:"driver_code"`
	FullName          string   `json:"full_name"`
	DriverNumber      *int     `json:"driver_number"`
	CountryCode       *string  `json:"country_code"`
	HeadshotURL       *string  `json:"headshot_url"`
	TeamName          string   `json:"team_name"`
	TeamColor         *string  `json:"team_color"`
	Position          *int     `json:"position"`
	GridPosition      *int     `json:"grid_position"`
	Status            *string  `json:"status"`
	Points            *float64 `json:"points"`
	LapsCompleted     *int     `json:"laps_completed"`
	TimeSeconds       *float64 `json:"time_seconds"`
	Q1TimeSeconds     *float64 `json:"q1_time_seconds"`
	Q2TimeSeconds     *float64 `json:"q2_time_seconds"`
	Q3TimeSeconds     *float64 `json:"q3_time_seconds"`
}

// LapRow is one raw lap record. All times are elapsed seconds since session
// start; rows without a lap number are unidentifiable and dropped downstream.
type LapRow struct {
	DriverCode                string   `json:"driver_code"`
	LapNumber                 *int     `json:"lap_number"`
	LapTimeSeconds            *float64 `json:"lap_time_seconds"`
	Sector1TimeSeconds        *float64 `json:"sector1_time_seconds"`
	Sector2TimeSeconds        *float64 `json:"sector2_time_seconds"`
	Sector3TimeSeconds        *float64 `json:"sector3_time_seconds"`
	LapStartTimeSeconds       *float64 `json:"lap_start_time_seconds"`
	Sector1SessionTimeSeconds *float64 `json:"sector1_session_time_seconds"`
	Sector2SessionTimeSeconds *float64 `json:"sector2_session_time_seconds"`
	Sector3SessionTimeSeconds *float64 `json:"sector3_session_time_seconds"`
	PitInTimeSeconds          *float64 `json:"pit_in_time_seconds"`
	PitOutTimeSeconds         *float64 `json:"pit_out_time_seconds"`
	Stint                     *int     `json:"stint"`
	SpeedI1                   *float64 `json:"speed_i1"`
	SpeedI2                   *float64 `json:"speed_i2"`
	SpeedFL                   *float64 `json:"speed_fl"`
	SpeedST                   *float64 `json:"speed_st"`
	Compound                  *string  `json:"compound"`
	TyreLife                  *int     `json:"tyre_life"`
	FreshTyre                 *bool    `json:"fresh_tyre"`
	Position                  *int     `json:"position"`
	TrackStatus               *string  `json:"track_status"`
	PersonalBest              *bool    `json:"personal_best"`
	Accurate                  *bool    `json:"accurate"`
	Deleted                   *bool    `json:"deleted"`
	DeletedReason             *string  `json:"deleted_reason"`
}

// WeatherRow is one raw weather sample.
type WeatherRow struct {
	SessionTimeSeconds *float64 `json:"session_time_seconds"`
	AirTemp            *float64 `json:"air_temp"`
	TrackTemp          *float64 `json:"track_temp"`
	Humidity           *float64 `json:"humidity"`
	Pressure           *float64 `json:"pressure"`
	WindSpeed          *float64 `json:"wind_speed"`
	WindDirection      *int     `json:"wind_direction"`
	Rainfall           *bool    `json:"rainfall"`
}

// TrackStatusRow is one raw track status transition.
type TrackStatusRow struct {
	SessionTimeSeconds *float64 `json:"session_time_seconds"`
	Status             *string  `json:"status"`
	Message            *string  `json:"message"`
}

// MessageRow is one raw race-control communication. Timestamps arrive either
// as elapsed seconds or as an absolute wall-clock time depending on the feed.
type MessageRow struct {
	SessionTimeSeconds *float64   `json:"session_time_seconds"`
	Timestamp          *time.Time `json:"timestamp"`
	Category           *string    `json:"category"`
	Message            *string    `json:"message"`
	Status             *string    `json:"status"`
	DriverNumber       *int       `json:"driver_number"`
	Flag               *string    `json:"flag"`
	Scope              *string    `json:"scope"`
	Sector             *int       `json:"sector"`
	LapNumber          *int       `json:"lap_number"`
}
