package store

import (
	"fmt"
	"strings"
	"time"
)

// SessionKind identifies one timed session within a round.
type SessionKind string

const (
	KindRace             SessionKind = "race"
	KindQualifying       SessionKind = "qualifying"
	KindSprintRace       SessionKind = "sprint_race"
	KindSprintQualifying SessionKind = "sprint_qualifying"
)

// AllSessionKinds lists every supported session kind in ingestion order.
var AllSessionKinds = []SessionKind{KindRace, KindQualifying, KindSprintRace, KindSprintQualifying}

// ParseSessionKind validates a session kind string.
func ParseSessionKind(value string) (SessionKind, error) {
	kind := SessionKind(strings.ToLower(strings.TrimSpace(value)))
	switch kind {
	case KindRace, KindQualifying, KindSprintRace, KindSprintQualifying:
		return kind, nil
	}
	return "", fmt.Errorf("unknown session kind %q", value)
}

// ParseSessionKinds parses a comma-separated session kind list.
func ParseSessionKinds(value string) ([]SessionKind, error) {
	parts := strings.Split(value, ",")
	kinds := make([]SessionKind, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kind, err := ParseSessionKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no session kinds in %q", value)
	}
	return kinds, nil
}

// UpstreamName maps a session kind to the name the telemetry archive uses.
func (k SessionKind) UpstreamName() string {
	switch k {
	case KindRace:
		return "Race"
	case KindQualifying:
		return "Qualifying"
	case KindSprintRace:
		return "Sprint"
	case KindSprintQualifying:
		return "Sprint Qualifying"
	}
	return string(k)
}

// IsRaceLike reports whether the kind awards points and a fastest lap.
func (k SessionKind) IsRaceLike() bool {
	return k == KindRace || k == KindSprintRace
}

// Category identifies one of the five independently-ingested data slices of a
// session.
type Category string

const (
	CategoryResults     Category = "results"
	CategoryLaps        Category = "laps"
	CategoryWeather     Category = "weather"
	CategoryTrackStatus Category = "track_status"
	CategoryMessages    Category = "messages"
)

// AllCategories lists every category in ingestion order.
var AllCategories = []Category{CategoryResults, CategoryLaps, CategoryWeather, CategoryTrackStatus, CategoryMessages}

// Completeness reports which categories of a session already hold rows.
// SessionID is 0 when the session row itself does not exist yet.
type Completeness struct {
	SessionID int64
	Present   map[Category]bool
}

// Has reports whether the category already holds rows.
func (c Completeness) Has(category Category) bool {
	return c.Present[category]
}

// Missing returns the categories without rows, in ingestion order.
func (c Completeness) Missing() []Category {
	var missing []Category
	for _, category := range AllCategories {
		if !c.Present[category] {
			missing = append(missing, category)
		}
	}
	return missing
}

// AllPresent reports whether every category holds rows.
func (c Completeness) AllPresent() bool {
	return len(c.Missing()) == 0
}

// Circuit is a venue. Created once and looked up by name afterwards.
type Circuit struct {
	ID        int64
	Name      string
	Location  string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// Session is one discrete timed event identified by (year, round, kind).
type Session struct {
	ID        int64
	Year      int
	Round     int
	Kind      SessionKind
	EventName string
	EventDate time.Time
	CircuitID int64
}

// Driver is identified by the short code, unique across all years. Identity
// fields are first-write-wins; only the headshot URL is refreshed on later
// sightings.
type Driver struct {
	ID          int64
	Code        string
	FullName    string
	Number      *int
	CountryCode *string
	HeadshotURL *string
}

// Team is year-partitioned because names and colors change season to season.
type Team struct {
	ID    int64
	Year  int
	Name  string
	Color *string
}

// Result is one participant's classification in a session.
type Result struct {
	ID            int64
	SessionID     int64
	DriverID      int64
	TeamID        int64
	Position      *int
	Status        string
	GridPosition  *int
	Points        *float64
	LapsCompleted *int
	TimeSeconds   *float64
	FastestLap    bool
	Q1TimeSeconds *float64
	Q2TimeSeconds *float64
	Q3TimeSeconds *float64
	HeadshotURL   *string
}

// Lap is one completed or attempted lap by a driver. All times are elapsed
// seconds since session start.
type Lap struct {
	ID                        int64
	SessionID                 int64
	DriverID                  int64
	LapNumber                 int
	LapTimeSeconds            *float64
	Sector1TimeSeconds        *float64
	Sector2TimeSeconds        *float64
	Sector3TimeSeconds        *float64
	LapStartTimeSeconds       *float64
	Sector1SessionTimeSeconds *float64
	Sector2SessionTimeSeconds *float64
	Sector3SessionTimeSeconds *float64
	PitInTimeSeconds          *float64
	PitOutTimeSeconds         *float64
	PitDurationSeconds        *float64
	Stint                     *int
	SpeedI1                   *float64
	SpeedI2                   *float64
	SpeedFL                   *float64
	SpeedST                   *float64
	Compound                  *string
	TyreLife                  *int
	FreshTyre                 *bool
	Position                  *int
	TrackStatus               *string
	PersonalBest              *bool
	Accurate                  *bool
	Deleted                   *bool
	DeletedReason             *string
}

// WeatherSample is one weather reading, taken roughly once per minute.
type WeatherSample struct {
	ID                 int64
	SessionID          int64
	SessionTimeSeconds float64
	AirTemp            *float64
	TrackTemp          *float64
	Humidity           *float64
	Pressure           *float64
	WindSpeed          *float64
	WindDirection      *int
	Rainfall           *bool
}

// TrackStatusEvent is one flag or safety-car state transition.
type TrackStatusEvent struct {
	ID                 int64
	SessionID          int64
	SessionTimeSeconds float64
	Status             string
	Message            *string
}

// ControlMessage is one race-control communication.
type ControlMessage struct {
	ID                 int64
	SessionID          int64
	SessionTimeSeconds float64
	Category           *string
	Message            string
	Status             *string
	DriverNumber       *int
	Flag               *string
	Scope              *string
	Sector             *int
	LapNumber          *int
}

// CategoryCounts holds per-category row counts for one session.
type CategoryCounts struct {
	Year        int
	Round       int
	Kind        SessionKind
	EventName   string
	Results     int
	Laps        int
	Weather     int
	TrackStatus int
	Messages    int
}

// DatabaseHealth captures diagnostic information about the database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	SessionCount     int
	Error            string
}
