package handler

import (
	"log/slog"
	"net/http"

	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/push"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

type RewardHandler struct {
	store    *state.Store
	notifier *push.Notifier
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewRewardHandler(st *state.Store, notifier *push.Notifier, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{store: st, notifier: notifier, hub: hub, logger: logger}
}

func (h *RewardHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type rewardRequest struct {
	Title       string `json:"title"`
	PointCost   int    `json:"point_cost"`
	ImageURL    string `json:"image_url"`
	RequestedBy string `json:"requested_by"`
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	writeJSON(w, http.StatusOK, f.Rewards)
}

// Create adds a catalog reward, immediately visible to everyone.
func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var created model.Reward
	err := h.store.Update(func(f *state.Family) error {
		rw, err := state.AddReward(f, req.Title, req.PointCost, req.ImageURL)
		if err != nil {
			return err
		}
		created = *rw
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("reward", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

// Request creates a wishlist entry awaiting parental approval and
// notifies subscribed devices.
func (h *RewardHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var created model.Reward
	var requesterName string
	err := h.store.Update(func(f *state.Family) error {
		rw, err := state.RequestReward(f, req.Title, req.PointCost, req.ImageURL, req.RequestedBy)
		if err != nil {
			return err
		}
		created = *rw
		if u := f.UserByID(req.RequestedBy); u != nil {
			requesterName = u.Name
		}
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	if h.notifier != nil {
		go h.notifier.RewardRequested(created, requesterName)
	}

	h.broadcast(websocket.NewMessage("reward", "requested", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

// Approve flips a pending request to approved. The flip is one-way and
// approving twice is a harmless no-op.
func (h *RewardHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var approved model.Reward
	err := h.store.Update(func(f *state.Family) error {
		rw, err := state.ApproveReward(f, id)
		if err != nil {
			return err
		}
		approved = *rw
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("reward", "approved", id, nil))
	writeJSON(w, http.StatusOK, approved)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var updated model.Reward
	err := h.store.Update(func(f *state.Family) error {
		rw, err := state.UpdateReward(f, id, req.Title, req.PointCost, req.ImageURL)
		if err != nil {
			return err
		}
		updated = *rw
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("reward", "updated", id, nil))
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a reward. Declining a request is a delete; there is no
// separate rejection state.
func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.Update(func(f *state.Family) error {
		return state.DeleteReward(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("reward", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
