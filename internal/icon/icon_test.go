package icon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Prompt != "Feed the dog" {
			t.Errorf("prompt = %q, want %q", req.Prompt, "Feed the dog")
		}
		fmt.Fprint(w, `{"icon": "🐕"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", slog.Default())
	if got := c.Generate(context.Background(), "Feed the dog"); got != "🐕" {
		t.Errorf("icon = %q, want %q", got, "🐕")
	}
}

func TestGenerateFailureYieldsEmptyIcon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", slog.Default())
	if got := c.Generate(context.Background(), "Feed the dog"); got != "" {
		t.Errorf("icon = %q, want empty on failure", got)
	}
}

func TestGenerateUnconfigured(t *testing.T) {
	c := NewClient("", "", slog.Default())
	if got := c.Generate(context.Background(), "Feed the dog"); got != "" {
		t.Errorf("icon = %q, want empty when unconfigured", got)
	}
}
