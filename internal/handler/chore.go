package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthside/hearth/internal/chore"
	"github.com/hearthside/hearth/internal/icon"
	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

type ChoreHandler struct {
	store  *state.Store
	icons  *icon.Client
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewChoreHandler(st *state.Store, icons *icon.Client, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{store: st, icons: icons, hub: hub, logger: logger}
}

func (h *ChoreHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type choreRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Points      int              `json:"points"`
	AssignedTo  string           `json:"assigned_to"`
	Recurrence  model.Recurrence `json:"recurrence"`
	DueDate     string           `json:"due_date"`
	Icon        string           `json:"icon"`
}

// choreView is a chore decorated with its display status for today.
type choreView struct {
	model.Chore
	Status chore.Status `json:"status"`
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	today := time.Now()

	out := make([]choreView, 0, len(f.Chores))
	for _, c := range f.Chores {
		out = append(out, choreView{Chore: c, Status: chore.ComputeStatus(c, today)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Recurrence == "" {
		req.Recurrence = model.RecurrenceOnce
	}

	var created model.Chore
	err := h.store.Update(func(f *state.Family) error {
		c, err := state.AddChore(f, state.ChoreParams{
			Title:       req.Title,
			Description: req.Description,
			Points:      req.Points,
			AssignedTo:  req.AssignedTo,
			Recurrence:  req.Recurrence,
			DueDate:     req.DueDate,
			Icon:        req.Icon,
		})
		if err != nil {
			return err
		}
		created = *c
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	if req.Icon == "" {
		h.generateIcon(created.ID, created.Title)
	}

	h.broadcast(websocket.NewMessage("chore", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req choreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var before, after model.Chore
	err := h.store.Update(func(f *state.Family) error {
		if c := f.ChoreByID(id); c != nil {
			before = *c
		}
		c, err := state.UpdateChore(f, id, state.ChoreParams{
			Title:       req.Title,
			Description: req.Description,
			Points:      req.Points,
			AssignedTo:  req.AssignedTo,
			Recurrence:  req.Recurrence,
			DueDate:     req.DueDate,
			Icon:        req.Icon,
		})
		if err != nil {
			return err
		}
		after = *c
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	if after.Title != before.Title && req.Icon == "" {
		h.generateIcon(id, after.Title)
	}

	h.broadcast(websocket.NewMessage("chore", "updated", id, nil))
	writeJSON(w, http.StatusOK, after)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.Update(func(f *state.Family) error {
		return state.DeleteChore(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("chore", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Toggle flips a chore between done and not done. The assignee's point
// balance moves in the same request: completing pays out, un-completing
// takes the payout back. An unknown chore id answers 200 with
// changed=false rather than an error, so a stale kiosk tap is harmless.
func (h *ChoreHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var changed bool
	var after *model.Chore
	h.store.Update(func(f *state.Family) error {
		changed = state.ToggleChore(f, id)
		if c := f.ChoreByID(id); c != nil {
			cc := *c
			after = &cc
		}
		return nil
	})

	if !changed {
		writeJSON(w, http.StatusOK, map[string]any{"changed": false})
		return
	}

	h.broadcast(websocket.NewMessage("chore", "toggled", id, map[string]any{"done": after.Done}))
	writeJSON(w, http.StatusOK, map[string]any{"changed": true, "chore": after})
}

// generateIcon asks the icon service for artwork in the background and
// attaches it when it arrives. A failed or unconfigured generation
// leaves the chore without an icon.
func (h *ChoreHandler) generateIcon(choreID, title string) {
	if h.icons == nil || !h.icons.Configured() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		url := h.icons.Generate(ctx, title)
		if url == "" {
			return
		}
		err := h.store.Update(func(f *state.Family) error {
			c := f.ChoreByID(choreID)
			if c == nil {
				return state.ErrChoreNotFound
			}
			c.Icon = url
			return nil
		})
		if err != nil {
			return
		}
		h.broadcast(websocket.NewMessage("chore", "updated", choreID, nil))
	}()
}
