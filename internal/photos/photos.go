// Package photos pulls recent pictures from an external photo provider
// for the slideshow. Read-only: nothing is ever written back.
package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
)

const defaultLimit = 50

type Config struct {
	BaseURL string
	APIKey  string
	Limit   int
}

type Service struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Configured reports whether a provider URL is set.
func (s *Service) Configured() bool {
	return s.cfg.BaseURL != ""
}

type apiPhoto struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// FetchRecent returns the provider's most recent photos.
func (s *Service) FetchRecent(ctx context.Context) ([]model.Photo, error) {
	endpoint := fmt.Sprintf("%s/api/photos?limit=%d", s.cfg.BaseURL, s.cfg.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build photos request: %w", err)
	}
	if s.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photos request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo provider returned status %d", resp.StatusCode)
	}

	var items []apiPhoto
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode photos response: %w", err)
	}

	out := make([]model.Photo, 0, len(items))
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		out = append(out, model.Photo{URL: item.URL, Caption: item.Caption})
	}
	return out, nil
}

// Sync merges fetched photos into the slideshow, skipping URLs already
// present. Failures are logged and swallowed.
func (s *Service) Sync(ctx context.Context, st *state.Store) {
	if !s.Configured() {
		return
	}

	fetched, err := s.FetchRecent(ctx)
	if err != nil {
		s.logger.Warn("photo sync failed", "error", err)
		return
	}
	if len(fetched) == 0 {
		return
	}

	added := 0
	err = st.Update(func(f *state.Family) error {
		added = state.MergePhotos(f, fetched)
		return nil
	})
	if err != nil {
		s.logger.Warn("photo sync apply failed", "error", err)
		return
	}
	if added > 0 {
		s.logger.Info("photos synced", "added", added)
	}
}
