package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleResponse = `{
	"current": {"temperature_2m": 54.3, "weather_code": 2},
	"daily": {
		"temperature_2m_max": [58.1, 61.0],
		"temperature_2m_min": [41.2, 44.5],
		"weather_code": [2, 61]
	}
}`

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewService(Config{Latitude: "47.6", Longitude: "-122.3"})
	s.baseURL = srv.URL
	return s
}

func TestCurrentFetchesForecast(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleResponse)
	})

	f := s.Current(context.Background())
	if !f.Available {
		t.Fatal("expected forecast to be available")
	}
	if f.Temp != 54.3 {
		t.Errorf("temp = %v, want 54.3", f.Temp)
	}
	if f.Desc != "Partly cloudy" {
		t.Errorf("desc = %q, want %q", f.Desc, "Partly cloudy")
	}
	if len(f.Days) != 2 {
		t.Fatalf("expected 2 daily entries, got %d", len(f.Days))
	}
	if f.Days[1].Desc != "Rain" {
		t.Errorf("day 2 desc = %q, want %q", f.Days[1].Desc, "Rain")
	}
}

func TestCurrentCachesResult(t *testing.T) {
	calls := 0
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, sampleResponse)
	})

	s.Current(context.Background())
	s.Current(context.Background())

	if calls != 1 {
		t.Errorf("expected 1 API call, got %d", calls)
	}
}

func TestCurrentKeepsStaleOnError(t *testing.T) {
	fail := false
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, sampleResponse)
	})

	first := s.Current(context.Background())
	if !first.Available {
		t.Fatal("expected first fetch to succeed")
	}

	fail = true
	s.fetchedAt = s.fetchedAt.Add(-2 * cacheTTL)
	s.cached.Available = false

	second := s.Current(context.Background())
	if second.Available {
		t.Error("expected stale-marked forecast after failed refresh")
	}
	if second.Temp != first.Temp {
		t.Errorf("stale temp = %v, want %v", second.Temp, first.Temp)
	}
}

func TestCurrentUnconfigured(t *testing.T) {
	s := NewService(Config{})
	f := s.Current(context.Background())
	if f.Configured || f.Available {
		t.Error("unconfigured service should return empty forecast")
	}
}
