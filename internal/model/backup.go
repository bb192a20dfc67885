package model

import "time"

type BackupStatus string

const (
	BackupStatusComplete BackupStatus = "complete"
	BackupStatusFailed   BackupStatus = "failed"
)

// BackupRecord is one row of snapshot backup history.
type BackupRecord struct {
	ID        string       `json:"id"`
	ObjectKey string       `json:"object_key"`
	SizeBytes int64        `json:"size_bytes"`
	Status    BackupStatus `json:"status"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
