package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/photos"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

type PhotoHandler struct {
	store  *state.Store
	photos *photos.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewPhotoHandler(st *state.Store, svc *photos.Service, hub *websocket.Hub, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{store: st, photos: svc, hub: hub, logger: logger}
}

func (h *PhotoHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	writeJSON(w, http.StatusOK, f.Photos)
}

func (h *PhotoHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL     string `json:"url"`
		Caption string `json:"caption"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	var created model.Photo
	h.store.Update(func(f *state.Family) error {
		created = *state.AddPhoto(f, req.URL, req.Caption)
		return nil
	})

	h.broadcast(websocket.NewMessage("photo", "added", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.Update(func(f *state.Family) error {
		return state.DeletePhoto(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("photo", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Sync pulls recent photos from the provider now. New photos are merged
// by URL; the slideshow never gets duplicates from repeated syncs.
func (h *PhotoHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil || !h.photos.Configured() {
		writeError(w, http.StatusServiceUnavailable, "photo provider not configured")
		return
	}

	h.photos.Sync(r.Context(), h.store)

	h.broadcast(websocket.NewMessage("photo", "synced", "", nil))
	writeJSON(w, http.StatusOK, h.store.Snapshot().Photos)
}
