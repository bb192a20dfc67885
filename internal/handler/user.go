package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

type UserHandler struct {
	store  *state.Store
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewUserHandler(st *state.Store, hub *websocket.Hub, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: st, hub: hub, logger: logger}
}

func (h *UserHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type userRequest struct {
	Name   string     `json:"name"`
	Avatar string     `json:"avatar"`
	Role   model.Role `json:"role"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	f := h.store.Snapshot()
	writeJSON(w, http.StatusOK, f.Users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var created model.User
	err := h.store.Update(func(f *state.Family) error {
		u, err := state.AddUser(f, req.Name, req.Avatar, req.Role)
		if err != nil {
			return err
		}
		created = *u
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("user", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var updated model.User
	err := h.store.Update(func(f *state.Family) error {
		u, err := state.UpdateUser(f, id, req.Name, req.Avatar, req.Role)
		if err != nil {
			return err
		}
		updated = *u
		return nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("user", "updated", id, nil))
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a profile and cascades: their chores, their pending
// reward requests, and their PIN go with them. The last profile on the
// roster cannot be deleted.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.Update(func(f *state.Family) error {
		return state.DeleteUser(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("user", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

type pinRequest struct {
	PIN string `json:"pin"`
}

func (h *UserHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.PIN) < 4 {
		writeError(w, http.StatusBadRequest, "PIN must be at least 4 digits")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash PIN", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}

	err = h.store.Update(func(f *state.Family) error {
		return state.SetPIN(f, id, string(hash))
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("user", "updated", id, nil))
	writeJSON(w, http.StatusOK, map[string]bool{"has_pin": true})
}

func (h *UserHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.Update(func(f *state.Family) error {
		return state.ClearPIN(f, id)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("user", "updated", id, nil))
	writeJSON(w, http.StatusOK, map[string]bool{"has_pin": false})
}

// VerifyPIN checks a submitted PIN against the stored hash. Rate limited
// at the route level.
func (h *UserHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	hash := h.store.PINHash(id)
	if hash == "" {
		writeError(w, http.StatusNotFound, "no PIN set")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)) != nil {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
