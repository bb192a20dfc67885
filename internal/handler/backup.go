package handler

import (
	"log/slog"
	"net/http"

	"github.com/hearthside/hearth/internal/backup"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/websocket"
)

type BackupHandler struct {
	store   *state.Store
	manager *backup.Manager
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewBackupHandler(st *state.Store, mgr *backup.Manager, hub *websocket.Hub, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{store: st, manager: mgr, hub: hub, logger: logger}
}

func (h *BackupHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type backupRequest struct {
	Passphrase string `json:"passphrase"`
}

// Now runs an encrypted backup immediately.
func (h *BackupHandler) Now(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "backup storage not configured")
		return
	}

	var req backupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	rec, err := h.manager.Run(r.Context(), req.Passphrase)
	if err != nil {
		h.logger.Error("backup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}

	h.broadcast(websocket.NewMessage("backup", "completed", rec.ID, nil))
	writeJSON(w, http.StatusCreated, rec)
}

func (h *BackupHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.manager.History(20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Restore replaces the live household with a decrypted backup. Every
// display reloads afterward.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req backupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.manager.Restore(r.Context(), h.store, id, req.Passphrase); err != nil {
		h.logger.Error("restore failed", "backup_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "restore failed")
		return
	}

	h.broadcast(websocket.NewMessage("backup", "restored", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
