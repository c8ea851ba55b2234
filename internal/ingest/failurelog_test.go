package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFailureLogMissingFile(t *testing.T) {
	records, err := LoadFailureLog(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFailureLog: %v", err)
	}
	if records != nil {
		t.Fatalf("expected empty log, got %v", records)
	}
}

func TestAppendFailuresMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "failures.json")
	first := FailureRecord{
		Timestamp:   time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC),
		Season:      2024,
		Round:       1,
		EventName:   "Bahrain Grand Prix",
		SessionKind: "race",
		Error:       "fetch session after 3 attempts: status 503",
	}
	if err := AppendFailures(path, []FailureRecord{first}); err != nil {
		t.Fatalf("AppendFailures: %v", err)
	}

	second := first
	second.Round = 2
	second.EventName = "Saudi Arabian Grand Prix"
	if err := AppendFailures(path, []FailureRecord{second}); err != nil {
		t.Fatalf("AppendFailures: %v", err)
	}

	records, err := LoadFailureLog(path)
	if err != nil {
		t.Fatalf("LoadFailureLog: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Round != 1 || records[1].Round != 2 {
		t.Fatalf("records out of order: %+v", records)
	}
}

func TestAppendFailuresNoRecordsLeavesFileAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")
	if err := AppendFailures(path, nil); err != nil {
		t.Fatalf("AppendFailures: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected no file for an empty append")
	}
}

func TestLoadFailureLogRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFailureLog(path); err == nil {
		t.Fatal("expected parse error")
	}
}
