package localstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthside/hearth/internal/model"
)

type BackupStore struct {
	db *sql.DB
}

func NewBackupStore(db *sql.DB) *BackupStore {
	return &BackupStore{db: db}
}

const backupCols = `id, object_key, size_bytes, status, error, created_at`

func scanBackup(scanner interface{ Scan(...any) error }) (*model.BackupRecord, error) {
	var b model.BackupRecord
	err := scanner.Scan(&b.ID, &b.ObjectKey, &b.SizeBytes, &b.Status, &b.Error, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BackupStore) Record(objectKey string, sizeBytes int64, status model.BackupStatus, errMsg string) (*model.BackupRecord, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO backups (id, object_key, size_bytes, status, error, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, objectKey, sizeBytes, string(status), errMsg, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert backup record: %w", err)
	}
	return s.GetByID(id)
}

func (s *BackupStore) GetByID(id string) (*model.BackupRecord, error) {
	row := s.db.QueryRow(`SELECT `+backupCols+` FROM backups WHERE id = ?`, id)
	b, err := scanBackup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get backup record: %w", err)
	}
	return b, nil
}

func (s *BackupStore) List(limit int) ([]model.BackupRecord, error) {
	rows, err := s.db.Query(`SELECT `+backupCols+` FROM backups ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list backup records: %w", err)
	}
	defer rows.Close()

	var records []model.BackupRecord
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backup record: %w", err)
		}
		records = append(records, *b)
	}
	return records, rows.Err()
}
