// Package backup encrypts the household snapshot and ships it to
// S3-compatible storage. Backups are manual or cron-triggered; there is
// no retry logic — a failed upload is recorded and the next trigger
// tries fresh.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hearthside/hearth/internal/localstore"
	"github.com/hearthside/hearth/internal/model"
	"github.com/hearthside/hearth/internal/snapshot"
	"github.com/hearthside/hearth/internal/state"
)

// s3Client is the slice of the S3 API the manager uses, an interface
// for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Manager runs encrypted snapshot backups.
type Manager struct {
	cfg     S3Config
	kv      *localstore.KV
	history *localstore.BackupStore
	client  s3Client
	logger  *slog.Logger
}

// NewManager creates a backup manager. With incomplete S3 settings the
// manager is disabled and every operation reports so.
func NewManager(cfg S3Config, kv *localstore.KV, history *localstore.BackupStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{cfg: cfg, kv: kv, history: history, logger: logger}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		m.client = newS3Client(cfg)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether S3 storage is configured.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// Run encrypts the current persisted snapshot and uploads it. The
// outcome lands in backup history either way.
func (m *Manager) Run(ctx context.Context, passphrase string) (*model.BackupRecord, error) {
	if !m.Enabled() {
		return nil, fmt.Errorf("backup storage not configured")
	}
	if passphrase == "" {
		return nil, fmt.Errorf("backup passphrase required")
	}

	raw, ok, err := m.kv.Get(snapshot.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("no snapshot to back up")
	}

	sealed, err := Encrypt([]byte(raw), passphrase)
	if err != nil {
		return nil, fmt.Errorf("encrypt snapshot: %w", err)
	}

	key := fmt.Sprintf("hearth/%s.json.enc", time.Now().UTC().Format("20060102-150405"))
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(sealed),
	})
	if err != nil {
		if rec, herr := m.history.Record(key, 0, model.BackupStatusFailed, err.Error()); herr == nil {
			return rec, fmt.Errorf("upload backup: %w", err)
		}
		return nil, fmt.Errorf("upload backup: %w", err)
	}

	rec, err := m.history.Record(key, int64(len(sealed)), model.BackupStatusComplete, "")
	if err != nil {
		return nil, fmt.Errorf("record backup: %w", err)
	}
	m.logger.Info("backup complete", "key", key, "bytes", len(sealed))
	return rec, nil
}

// Restore downloads and decrypts a backup, then replaces the live
// document via the snapshot merge path, so a blob from an older build
// still loads against current defaults.
func (m *Manager) Restore(ctx context.Context, st *state.Store, backupID, passphrase string) error {
	if !m.Enabled() {
		return fmt.Errorf("backup storage not configured")
	}

	rec, err := m.history.GetByID(backupID)
	if err != nil {
		return fmt.Errorf("lookup backup: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("backup %s not found", backupID)
	}

	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(rec.ObjectKey),
	})
	if err != nil {
		return fmt.Errorf("download backup: %w", err)
	}
	defer out.Body.Close()

	sealed, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read backup body: %w", err)
	}

	plaintext, err := Decrypt(sealed, passphrase)
	if err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}

	f, err := snapshot.Merge(plaintext)
	if err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}

	if err := st.Replace(f); err != nil {
		return fmt.Errorf("apply backup: %w", err)
	}
	m.logger.Info("backup restored", "key", rec.ObjectKey)
	return nil
}

// History lists recent backup records.
func (m *Manager) History(limit int) ([]model.BackupRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return m.history.List(limit)
}
