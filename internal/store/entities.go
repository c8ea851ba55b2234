package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// EnsureCircuit returns the circuit id for a venue, creating the row on first
// sighting. Geometry stays NULL until provided at creation time; existing rows
// are never updated.
func (s *Store) EnsureCircuit(ctx context.Context, circuit Circuit) (int64, error) {
	name := strings.TrimSpace(circuit.Name)
	if name == "" {
		return 0, errors.New("circuit name required")
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM circuits WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup circuit: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO circuits (name, location, country, latitude, longitude) VALUES (?, ?, ?, ?, ?)`,
		name,
		circuit.Location,
		circuit.Country,
		nullableFloat(circuit.Latitude),
		nullableFloat(circuit.Longitude),
	)
	if err != nil {
		return 0, fmt.Errorf("insert circuit: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// EnsureDriver returns the driver id for a short code, creating the row on
// first sighting. Identity fields are first-write-wins: later sightings never
// overwrite name, number, or nationality, even when the stored values are
// incomplete. Only the headshot URL is refreshed when the sighting carries one.
func (s *Store) EnsureDriver(ctx context.Context, driver Driver) (int64, error) {
	code := strings.ToUpper(strings.TrimSpace(driver.Code))
	if code == "" {
		return 0, errors.New("driver code required")
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM drivers WHERE code = ?`, code).Scan(&id)
	if err == nil {
		if driver.HeadshotURL != nil && strings.TrimSpace(*driver.HeadshotURL) != "" {
			if _, err := s.db.ExecContext(ctx, `UPDATE drivers SET headshot_url = ? WHERE id = ?`, *driver.HeadshotURL, id); err != nil {
				return 0, fmt.Errorf("refresh driver headshot: %w", err)
			}
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup driver: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO drivers (code, full_name, number, country_code, headshot_url) VALUES (?, ?, ?, ?, ?)`,
		code,
		driver.FullName,
		nullableInt(driver.Number),
		nullableString(driver.CountryCode),
		nullableString(driver.HeadshotURL),
	)
	if err != nil {
		return 0, fmt.Errorf("insert driver: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// DriverByCode fetches a driver by short code. Returns nil when absent.
func (s *Store) DriverByCode(ctx context.Context, code string) (*Driver, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, code, full_name, number, country_code, headshot_url FROM drivers WHERE code = ?`,
		strings.ToUpper(strings.TrimSpace(code)),
	)
	var (
		driver   Driver
		number   sql.NullInt64
		country  sql.NullString
		headshot sql.NullString
	)
	err := row.Scan(&driver.ID, &driver.Code, &driver.FullName, &number, &country, &headshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}
	driver.Number = intPtr(number)
	driver.CountryCode = stringPtr(country)
	driver.HeadshotURL = stringPtr(headshot)
	return &driver, nil
}

// EnsureTeam returns the team id for a (year, name) pair, creating the row on
// first sighting within the year. Existing rows are not updated.
func (s *Store) EnsureTeam(ctx context.Context, team Team) (int64, error) {
	name := strings.TrimSpace(team.Name)
	if name == "" {
		return 0, errors.New("team name required")
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM teams WHERE year = ? AND name = ?`, team.Year, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup team: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO teams (year, name, color) VALUES (?, ?, ?)`,
		team.Year,
		name,
		nullableString(team.Color),
	)
	if err != nil {
		return 0, fmt.Errorf("insert team: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}
