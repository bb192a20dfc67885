package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthside/hearth/internal/localstore"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/weather"
	"github.com/hearthside/hearth/internal/websocket"
)

// settingsPrefix namespaces display settings in the key-value store,
// away from the household snapshot.
const settingsPrefix = "settings:"

type SettingsHandler struct {
	store   *state.Store
	kv      *localstore.KV
	weather *weather.Service
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewSettingsHandler(st *state.Store, kv *localstore.KV, weatherSvc *weather.Service, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{store: st, kv: kv, weather: weatherSvc, hub: hub, logger: logger}
}

func (h *SettingsHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Household reports the family name and roster summary.
func (h *SettingsHandler) Household(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"family_name": f.FamilyName,
		"users":       len(f.Users),
	})
}

func (h *SettingsHandler) RenameHousehold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FamilyName string `json:"family_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	err := h.store.Update(func(f *state.Family) error {
		return state.RenameFamily(f, req.FamilyName)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("settings", "updated", "family_name", nil))
	writeJSON(w, http.StatusOK, map[string]string{"family_name": strings.TrimSpace(req.FamilyName)})
}

// Weather serves the cached forecast for the dashboard.
func (h *SettingsHandler) Weather(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.weather.Current(r.Context()))
}

// GetDisplay returns every display setting under the settings prefix.
func (h *SettingsHandler) GetDisplay(w http.ResponseWriter, r *http.Request) {
	all, err := h.kv.GetAll(settingsPrefix)
	if err != nil {
		h.logger.Error("read settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		out[strings.TrimPrefix(k, settingsPrefix)] = v
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateDisplay upserts the submitted display settings.
func (h *SettingsHandler) UpdateDisplay(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	for k, v := range req {
		if err := h.kv.Set(settingsPrefix+k, v); err != nil {
			h.logger.Error("write setting", "key", k, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	h.broadcast(websocket.NewMessage("settings", "updated", "display", nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
