package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FailureRecord is one persisted ingestion failure. Records survive across
// runs so operators can review what a re-run should pick up.
type FailureRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Season      int       `json:"season"`
	Round       int       `json:"round"`
	EventName   string    `json:"event_name"`
	SessionKind string    `json:"session_kind"`
	Error       string    `json:"error"`
}

// LoadFailureLog reads the failure log at path. A missing file is an empty
// log, not an error.
func LoadFailureLog(path string) ([]FailureRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read failure log: %w", err)
	}
	var records []FailureRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse failure log %s: %w", path, err)
	}
	return records, nil
}

// AppendFailures merges new records into the log at path and writes it back
// atomically. Passing no records leaves the file untouched.
func AppendFailures(path string, records []FailureRecord) error {
	if len(records) == 0 {
		return nil
	}
	existing, err := LoadFailureLog(path)
	if err != nil {
		return err
	}
	merged := append(existing, records...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create failure log directory: %w", err)
	}
	raw, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encode failure log: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write failure log: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace failure log: %w", err)
	}
	return nil
}
