// Package profile talks to the external identity provider. The provider
// only cosmetically refreshes a parent profile's display fields; it
// never creates roster entries or authenticates anyone.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/hearthside/hearth/internal/state"
)

// Profile is the subset of identity claims the organizer cares about.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// FromIDToken extracts display claims from an OIDC id_token. The
// signature is deliberately not verified: the claims feed cosmetic
// display fields only, never authorization.
func FromIDToken(raw string) (Profile, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Profile{}, fmt.Errorf("parse id_token: %w", err)
	}

	var p Profile
	if v, ok := claims["name"].(string); ok {
		p.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := claims["picture"].(string); ok {
		p.Picture = v
	}
	return p, nil
}

// Service fetches profiles from the provider's userinfo endpoint.
type Service struct {
	userinfoURL string
	logger      *slog.Logger
}

func NewService(userinfoURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{userinfoURL: userinfoURL, logger: logger}
}

// Fetch calls the userinfo endpoint with the given access token.
func (s *Service) Fetch(ctx context.Context, accessToken string) (Profile, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(ctx, src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return p, nil
}

// Refresh applies a fetched profile to the given parent user's display
// fields. Failures are logged and swallowed; the roster is never
// blocked on the identity provider.
func (s *Service) Refresh(ctx context.Context, st *state.Store, userID, accessToken string) {
	p, err := s.Fetch(ctx, accessToken)
	if err != nil {
		s.logger.Warn("profile refresh failed", "user_id", userID, "error", err)
		return
	}
	s.apply(st, userID, p)
}

// RefreshFromIDToken applies claims parsed from an id_token instead of
// calling the userinfo endpoint.
func (s *Service) RefreshFromIDToken(st *state.Store, userID, idToken string) {
	p, err := FromIDToken(idToken)
	if err != nil {
		s.logger.Warn("profile refresh failed", "user_id", userID, "error", err)
		return
	}
	s.apply(st, userID, p)
}

func (s *Service) apply(st *state.Store, userID string, p Profile) {
	err := st.Update(func(f *state.Family) error {
		return state.RefreshUserDisplay(f, userID, p.Name, p.Picture)
	})
	if err != nil {
		s.logger.Warn("profile refresh apply failed", "user_id", userID, "error", err)
		return
	}
	s.logger.Info("profile refreshed", "user_id", userID)
}
