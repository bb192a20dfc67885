package handler

import (
	"log/slog"
	"net/http"

	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

type MealHandler struct {
	store  *state.Store
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewMealHandler(st *state.Store, hub *websocket.Hub, logger *slog.Logger) *MealHandler {
	return &MealHandler{store: st, hub: hub, logger: logger}
}

func (h *MealHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type mealRequest struct {
	Date  string         `json:"date"`
	Type  model.MealType `json:"type"`
	Title string         `json:"title"`
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	writeJSON(w, http.StatusOK, f.Meals)
}

// Upsert fills the planner slot at (date, type), replacing whatever was
// there. An empty title clears the slot.
func (h *MealHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var saved *model.Meal
	err := h.store.Update(func(f *state.Family) error {
		m, err := state.UpsertMeal(f, req.Date, req.Type, req.Title)
		if err != nil {
			return err
		}
		if m != nil {
			mm := *m
			saved = &mm
		}
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("meal", "updated", req.Date, map[string]any{"type": string(req.Type)}))
	if saved == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.Update(func(f *state.Family) error {
		return state.DeleteMeal(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("meal", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
