package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthside/hearth/internal/profile"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

// SessionHandler manages the active profile selection. Selection is
// roster login, not authentication: it identifies who is tapping the
// screen and never survives a restart.
type SessionHandler struct {
	store    *state.Store
	profiles *profile.Service
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewSessionHandler(st *state.Store, profiles *profile.Service, hub *websocket.Hub, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{store: st, profiles: profiles, hub: hub, logger: logger}
}

func (h *SessionHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Current reports the selected profile, or null when nobody is selected.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	if f.CurrentUserID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": f.UserByID(f.CurrentUserID)})
}

type selectRequest struct {
	AccessToken string `json:"access_token,omitempty"`
	IDToken     string `json:"id_token,omitempty"`
}

// Select makes a roster profile the active one. If the client passes
// identity-provider tokens, a parent's display name and photo are
// refreshed in the background.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req selectRequest
	decodeJSON(r, &req) // tokens are optional; an empty body is fine

	err := h.store.Update(func(f *state.Family) error {
		return state.SelectUser(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	if h.profiles != nil {
		if req.IDToken != "" {
			h.profiles.RefreshFromIDToken(h.store, id, req.IDToken)
		} else if req.AccessToken != "" {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				h.profiles.Refresh(ctx, h.store, id, req.AccessToken)
			}()
		}
	}

	h.broadcast(websocket.NewMessage("session", "selected", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"current_user_id": id})
}

// Clear returns the display to the profile picker.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Update(func(f *state.Family) error {
		state.ClearSession(f)
		return nil
	})

	h.broadcast(websocket.NewMessage("session", "cleared", "", nil))
	w.WriteHeader(http.StatusNoContent)
}
