package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hearthside/hearth/internal/calendar"
	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

type EventHandler struct {
	store    *state.Store
	calendar *calendar.Service
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewEventHandler(st *state.Store, cal *calendar.Service, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{store: st, calendar: cal, hub: hub, logger: logger}
}

func (h *EventHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type eventRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	AllDay    bool      `json:"all_day"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	MemberID  string    `json:"member_id"`
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	writeJSON(w, http.StatusOK, f.Events)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	var created model.CalendarEvent
	h.store.Update(func(f *state.Family) error {
		e := state.AddEvent(f, model.CalendarEvent{
			Title:     req.Title,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			AllDay:    req.AllDay,
			Category:  req.Category,
			Color:     req.Color,
			MemberID:  req.MemberID,
		})
		created = *e
		return nil
	})

	h.broadcast(websocket.NewMessage("event", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.Update(func(f *state.Family) error {
		return state.DeleteEvent(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("event", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Sync pulls the provider feed now instead of waiting for the scheduler.
// Failures are swallowed by the sync itself; the handler always answers
// with the post-sync event list.
func (h *EventHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if h.calendar == nil || !h.calendar.Configured() {
		writeError(w, http.StatusServiceUnavailable, "calendar provider not configured")
		return
	}

	h.calendar.Sync(r.Context(), h.store)

	h.broadcast(websocket.NewMessage("event", "synced", "", nil))
	writeJSON(w, http.StatusOK, h.store.Snapshot().Events)
}
