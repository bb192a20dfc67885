// Package calendar pulls events from an external calendar provider and
// folds them into the shared family calendar. Fetches are
// fire-and-forget: a failed sync logs and leaves local state alone.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
)

const (
	// Synced events get a uniform display treatment; the provider feed
	// carries no category or color of its own.
	defaultCategory = "family"
	defaultColor    = "#6b8e7f"
)

// Config points the client at a provider.
type Config struct {
	BaseURL    string
	CalendarID string
	Token      string // bearer token for the provider API
	Lookahead  time.Duration
}

// Service fetches provider events.
type Service struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewService builds a provider client. With a token configured the
// client authenticates via an OAuth2 token source.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 14 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := &http.Client{Timeout: 15 * time.Second}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client = oauth2.NewClient(context.Background(), src)
		client.Timeout = 15 * time.Second
	}

	return &Service{cfg: cfg, client: client, logger: logger}
}

// Configured reports whether a provider URL is set.
func (s *Service) Configured() bool {
	return s.cfg.BaseURL != ""
}

type apiEvent struct {
	Summary string `json:"summary"`
	Start   struct {
		DateTime time.Time `json:"dateTime"`
		Date     string    `json:"date"`
	} `json:"start"`
	End struct {
		DateTime time.Time `json:"dateTime"`
		Date     string    `json:"date"`
	} `json:"end"`
}

type apiEventList struct {
	Items []apiEvent `json:"items"`
}

// FetchEvents returns provider events inside the lookahead window,
// mapped to calendar events with the default display treatment.
func (s *Service) FetchEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	now := time.Now().UTC()
	q := url.Values{}
	q.Set("timeMin", now.Format(time.RFC3339))
	q.Set("timeMax", now.Add(s.cfg.Lookahead).Format(time.RFC3339))
	q.Set("singleEvents", "true")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", s.cfg.BaseURL, url.PathEscape(s.cfg.CalendarID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build calendar request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar provider returned status %d", resp.StatusCode)
	}

	var list apiEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode calendar response: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, mapEvent(item))
	}
	return events, nil
}

func mapEvent(item apiEvent) model.CalendarEvent {
	e := model.CalendarEvent{
		ID:       uuid.NewString(),
		Title:    item.Summary,
		Category: defaultCategory,
		Color:    defaultColor,
	}

	// All-day events carry a bare date instead of a timestamp.
	if item.Start.Date != "" {
		e.AllDay = true
		if d, err := time.Parse("2006-01-02", item.Start.Date); err == nil {
			e.StartTime = d
		}
		if d, err := time.Parse("2006-01-02", item.End.Date); err == nil {
			e.EndTime = d
		}
		return e
	}

	e.StartTime = item.Start.DateTime
	e.EndTime = item.End.DateTime
	return e
}

// Sync fetches provider events and appends them to the family calendar.
// The feed is appended as-is, without de-duplication against previously
// synced events. Failures are logged and swallowed.
func (s *Service) Sync(ctx context.Context, st *state.Store) {
	if !s.Configured() {
		return
	}

	events, err := s.FetchEvents(ctx)
	if err != nil {
		s.logger.Warn("calendar sync failed", "error", err)
		return
	}
	if len(events) == 0 {
		return
	}

	err = st.Update(func(f *state.Family) error {
		state.AppendEvents(f, events)
		return nil
	})
	if err != nil {
		s.logger.Warn("calendar sync apply failed", "error", err)
		return
	}
	s.logger.Info("calendar synced", "events", len(events))
}
