package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paddock/internal/upstream"
)

// FakeProvider is a scripted upstream.Provider for tests. Sessions are keyed
// by (year, round, session name); unknown keys return a not-found error the
// way the real archive does.
type FakeProvider struct {
	mu sync.Mutex

	ScheduleEvents []upstream.ScheduleEvent
	ScheduleErr    error
	Sessions       map[string]*upstream.SessionData
	SessionErrs    map[string]error

	ScheduleCalls int
	LoadCalls     map[string]int
}

var _ upstream.Provider = (*FakeProvider)(nil)

// NewFakeProvider returns an empty scripted provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Sessions:    make(map[string]*upstream.SessionData),
		SessionErrs: make(map[string]error),
		LoadCalls:   make(map[string]int),
	}
}

// SessionKey builds the scripting key for one session.
func SessionKey(year, round int, sessionName string) string {
	return fmt.Sprintf("%d/%d/%s", year, round, sessionName)
}

// AddSession scripts a successful session load.
func (f *FakeProvider) AddSession(year, round int, sessionName string, data *upstream.SessionData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sessions[SessionKey(year, round, sessionName)] = data
}

// FailSession scripts an error for a session load. The error is returned on
// every attempt.
func (f *FakeProvider) FailSession(year, round int, sessionName string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SessionErrs[SessionKey(year, round, sessionName)] = err
}

func (f *FakeProvider) Schedule(ctx context.Context, year int) ([]upstream.ScheduleEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ScheduleCalls++
	if f.ScheduleErr != nil {
		return nil, f.ScheduleErr
	}
	return f.ScheduleEvents, nil
}

func (f *FakeProvider) LoadSession(ctx context.Context, year, round int, sessionName string) (*upstream.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := SessionKey(year, round, sessionName)
	f.LoadCalls[key]++
	if err, ok := f.SessionErrs[key]; ok {
		return nil, err
	}
	if data, ok := f.Sessions[key]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: session %q does not exist for round %d", upstream.ErrNotFound, sessionName, round)
}

// TotalLoadCalls sums the load attempts across every session.
func (f *FakeProvider) TotalLoadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, count := range f.LoadCalls {
		total += count
	}
	return total
}

// RaceSessionData builds a small but fully-populated session dataset for
// tests: two participants, four laps, two weather samples, two track status
// transitions, and two control messages.
func RaceSessionData() *upstream.SessionData {
	start := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	return &upstream.SessionData{
		StartTime: start,
		Results: []upstream.ResultRow{
			{
				DriverCode:   "VER",
				FullName:     "Max Verstappen",
				DriverNumber: IntPtr(1),
				CountryCode:  StrPtr("NED"),
				TeamName:     "Red Bull Racing",
				TeamColor:    StrPtr("#3671C6"),
				Position:     IntPtr(1),
				GridPosition: IntPtr(1),
				Status:       StrPtr("Finished"),
				Points:       FloatPtr(25),
				TimeSeconds:  FloatPtr(5503.471),
			},
			{
				DriverCode:   "LEC",
				FullName:     "Charles Leclerc",
				DriverNumber: IntPtr(16),
				CountryCode:  StrPtr("MON"),
				TeamName:     "Ferrari",
				TeamColor:    StrPtr("#E8002D"),
				Position:     IntPtr(2),
				GridPosition: IntPtr(2),
				Status:       StrPtr("Finished"),
				Points:       FloatPtr(18),
				TimeSeconds:  FloatPtr(5525.891),
			},
		},
		Laps: []upstream.LapRow{
			{DriverCode: "VER", LapNumber: IntPtr(1), LapTimeSeconds: FloatPtr(96.243), LapStartTimeSeconds: FloatPtr(0)},
			{DriverCode: "VER", LapNumber: IntPtr(2), LapTimeSeconds: FloatPtr(93.501), LapStartTimeSeconds: FloatPtr(96.243)},
			{DriverCode: "LEC", LapNumber: IntPtr(1), LapTimeSeconds: FloatPtr(97.011), LapStartTimeSeconds: FloatPtr(0)},
			{DriverCode: "LEC", LapNumber: IntPtr(2), LapTimeSeconds: FloatPtr(94.112), LapStartTimeSeconds: FloatPtr(97.011)},
		},
		Weather: []upstream.WeatherRow{
			{SessionTimeSeconds: FloatPtr(0), AirTemp: FloatPtr(28.5), TrackTemp: FloatPtr(41.2)},
			{SessionTimeSeconds: FloatPtr(60), AirTemp: FloatPtr(28.3), TrackTemp: FloatPtr(40.8)},
		},
		TrackStatus: []upstream.TrackStatusRow{
			{SessionTimeSeconds: FloatPtr(0), Status: StrPtr("1"), Message: StrPtr("AllClear")},
			{SessionTimeSeconds: FloatPtr(1843.2), Status: StrPtr("2"), Message: StrPtr("Yellow")},
		},
		Messages: []upstream.MessageRow{
			{SessionTimeSeconds: FloatPtr(12.4), Category: StrPtr("Flag"), Message: StrPtr("GREEN LIGHT - PIT EXIT OPEN")},
			{SessionTimeSeconds: FloatPtr(1843.2), Category: StrPtr("Flag"), Message: StrPtr("YELLOW IN TRACK SECTOR 7"), Flag: StrPtr("YELLOW")},
		},
	}
}

// IntPtr returns a pointer to value.
func IntPtr(value int) *int { return &value }

// FloatPtr returns a pointer to value.
func FloatPtr(value float64) *float64 { return &value }

// StrPtr returns a pointer to value.
func StrPtr(value string) *string { return &value }

// BoolPtr returns a pointer to value.
func BoolPtr(value bool) *bool { return &value }

// TimePtr returns a pointer to value.
func TimePtr(value time.Time) *time.Time { return &value }
