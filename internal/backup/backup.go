// Package backup snapshots the records before a run writes them back.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/chorewheel/internal/model"
	"github.com/dukerupert/chorewheel/internal/store"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether enough is set to talk to a bucket.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration.
type Config struct {
	Dir           string
	Passphrase    string
	RetentionDays int
	S3            S3Config
}

// Manager writes snapshots to the backup directory and, when configured, to S3.
type Manager struct {
	cfg    Config
	store  *store.BackupStore
	client s3Client
}

// NewManager creates a backup manager. An empty Dir disables local files;
// snapshots then only go to S3, if that is configured.
func NewManager(cfg Config, bs *store.BackupStore) *Manager {
	m := &Manager{cfg: cfg, store: bs}
	if cfg.S3.Enabled() {
		m.client = newS3Client(cfg.S3)
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

// Enabled reports whether snapshots have anywhere to go.
func (m *Manager) Enabled() bool {
	return m != nil && (m.cfg.Dir != "" || m.client != nil)
}

// Snapshot serializes the records, encrypts them when a passphrase is set,
// writes them locally and uploads them. The backup row tracks progress.
func (m *Manager) Snapshot(ctx context.Context, runID string, candidates []model.Candidate, chores []model.Chore) (*model.Backup, error) {
	if !m.Enabled() {
		return nil, fmt.Errorf("backup not configured")
	}

	now := time.Now().UTC()
	snap := model.Snapshot{RunID: runID, TakenAt: now, Candidates: candidates, Chores: chores}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	encrypted := m.cfg.Passphrase != ""
	filename := fmt.Sprintf("snapshot-%s.json", now.Format("2006-01-02T150405.000Z"))
	if encrypted {
		filename += ".enc"
		if data, err = Encrypt(data, m.cfg.Passphrase); err != nil {
			return nil, fmt.Errorf("encrypt snapshot: %w", err)
		}
	}

	var s3Key string
	if m.client != nil {
		s3Key = m.objectKey(filename)
	}

	record, err := m.store.Create(ctx, runID, filename, s3Key, encrypted)
	if err != nil {
		return nil, fmt.Errorf("create backup record: %w", err)
	}

	fail := func(err error) (*model.Backup, error) {
		if uerr := m.store.UpdateStatus(ctx, record.ID, model.BackupStatusFailed, err.Error()); uerr != nil {
			slog.Error("mark backup failed", "backup_id", record.ID, "error", uerr)
		}
		record.Status = model.BackupStatusFailed
		record.ErrorMessage = err.Error()
		return record, err
	}

	if m.cfg.Dir != "" {
		if err := os.MkdirAll(m.cfg.Dir, 0o700); err != nil {
			return fail(fmt.Errorf("create backup dir: %w", err))
		}
		if err := os.WriteFile(filepath.Join(m.cfg.Dir, filename), data, 0o600); err != nil {
			return fail(fmt.Errorf("write snapshot: %w", err))
		}
	}

	if m.client != nil {
		if err := m.store.UpdateStatus(ctx, record.ID, model.BackupStatusUploading, ""); err != nil {
			return fail(err)
		}
		_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(m.cfg.S3.Bucket),
			Key:           aws.String(s3Key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		if err != nil {
			return fail(fmt.Errorf("upload to s3: %w", err))
		}
	}

	if err := m.store.UpdateCompleted(ctx, record.ID, int64(len(data))); err != nil {
		return fail(err)
	}
	record.Status = model.BackupStatusCompleted
	record.SizeBytes = int64(len(data))
	record.CompletedAt = &now
	return record, nil
}

// Restore reads a snapshot back, from the local file if present and otherwise
// from S3.
func (m *Manager) Restore(ctx context.Context, backupID int64, passphrase string) (*model.Snapshot, error) {
	record, err := m.store.GetByID(ctx, backupID)
	if err != nil {
		return nil, fmt.Errorf("get backup: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("backup %d not found", backupID)
	}

	data, err := m.read(ctx, record)
	if err != nil {
		return nil, err
	}

	if record.Encrypted {
		if passphrase == "" {
			passphrase = m.cfg.Passphrase
		}
		if data, err = Decrypt(data, passphrase); err != nil {
			return nil, err
		}
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (m *Manager) read(ctx context.Context, record *model.Backup) ([]byte, error) {
	if m.cfg.Dir != "" {
		data, err := os.ReadFile(filepath.Join(m.cfg.Dir, record.Filename))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
	}

	if m.client == nil || record.S3Key == "" {
		return nil, fmt.Errorf("snapshot %s not available locally and no S3 copy", record.Filename)
	}
	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(record.S3Key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object: %w", err)
	}
	return data, nil
}

// List returns the most recent backups.
func (m *Manager) List(ctx context.Context, limit int) ([]model.Backup, error) {
	return m.store.List(ctx, limit)
}

// Cleanup deletes snapshots older than the retention period. A retention of
// zero or less keeps everything.
func (m *Manager) Cleanup(ctx context.Context, now time.Time) (int, error) {
	if m.cfg.RetentionDays <= 0 {
		return 0, nil
	}

	before := now.UTC().AddDate(0, 0, -m.cfg.RetentionDays)
	old, err := m.store.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("delete old backups: %w", err)
	}

	for _, b := range old {
		if m.cfg.Dir != "" {
			if err := os.Remove(filepath.Join(m.cfg.Dir, b.Filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("remove old snapshot", "file", b.Filename, "error", err)
			}
		}
		if m.client != nil && b.S3Key != "" {
			if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(m.cfg.S3.Bucket),
				Key:    aws.String(b.S3Key),
			}); err != nil {
				slog.Warn("delete old snapshot object", "key", b.S3Key, "error", err)
			}
		}
	}
	return len(old), nil
}

func (m *Manager) objectKey(filename string) string {
	if m.cfg.S3.Prefix == "" {
		return filename
	}
	return m.cfg.S3.Prefix + "/" + filename
}
