package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"paddock/internal/config"
	"paddock/internal/upstream"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...upstream.Option) *upstream.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(config.Upstream{
		BaseURL:           server.URL,
		TimeoutSeconds:    5,
		RequestsPerSecond: 1000,
		Burst:             10,
	}, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestScheduleDecodesEvents(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seasons/2024/schedule" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
            {"round_number": 0, "event_name": "Pre-Season Testing", "location": "Sakhir", "country": "Bahrain", "event_date": "2024-02-21T00:00:00Z"},
            {"round_number": 1, "event_name": "Bahrain Grand Prix", "location": "Sakhir", "country": "Bahrain", "event_date": "2024-03-02T00:00:00Z"}
        ]`))
	})
	client := newTestClient(t, handler)

	events, err := client.Schedule(context.Background(), 2024)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].RoundNumber != 1 || events[1].EventName != "Bahrain Grand Prix" {
		t.Fatalf("unexpected event: %#v", events[1])
	}
}

func TestLoadSessionNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "session does not exist"}`, http.StatusNotFound)
	})
	client := newTestClient(t, handler)

	_, err := client.LoadSession(context.Background(), 2024, 1, "Sprint")
	if err == nil {
		t.Fatal("expected error")
	}
	if !upstream.IsNotFound(err) {
		t.Fatalf("expected not-found classification, got %v", err)
	}
}

func TestLoadSessionServerErrorIsTransient(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	client := newTestClient(t, handler)

	_, err := client.LoadSession(context.Background(), 2024, 1, "Race")
	if err == nil {
		t.Fatal("expected error")
	}
	if upstream.IsNotFound(err) {
		t.Fatalf("transient error misclassified as not found: %v", err)
	}
}

func TestLoadSessionUsesCache(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"start_time": "2024-03-02T15:00:00Z", "results": [], "laps": [], "weather": [], "track_status": [], "messages": []}`))
	})
	cache := upstream.NewCache(t.TempDir())
	client := newTestClient(t, handler, upstream.WithCache(cache))

	ctx := context.Background()
	first, err := client.LoadSession(ctx, 2024, 1, "Race")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := client.LoadSession(ctx, 2024, 1, "Race")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}
	if !first.StartTime.Equal(second.StartTime) {
		t.Fatalf("cache returned different payload: %v vs %v", first.StartTime, second.StartTime)
	}
	if !second.StartTime.Equal(time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time %v", second.StartTime)
	}
}

func TestIsNotFoundMessageFallback(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    bool
	}{
		{"does not exist", "session 'Sprint' does not exist for this event", true},
		{"not found", "404 not found", true},
		{"timeout", "context deadline exceeded", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := errString(tc.message)
			if got := upstream.IsNotFound(err); got != tc.want {
				t.Fatalf("IsNotFound(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
