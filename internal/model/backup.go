package model

import "time"

type BackupStatus string

const (
	BackupStatusPending   BackupStatus = "pending"
	BackupStatusUploading BackupStatus = "uploading"
	BackupStatusCompleted BackupStatus = "completed"
	BackupStatusFailed    BackupStatus = "failed"
)

// Backup records one snapshot of the records taken before a run wrote them back.
type Backup struct {
	ID           int64        `json:"id"`
	RunID        string       `json:"run_id"`
	Filename     string       `json:"filename"`
	S3Key        string       `json:"s3_key,omitempty"`
	SizeBytes    int64        `json:"size_bytes"`
	Encrypted    bool         `json:"encrypted"`
	Status       BackupStatus `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// Snapshot is the serialized form of a backup.
type Snapshot struct {
	RunID      string      `json:"run_id"`
	TakenAt    time.Time   `json:"taken_at"`
	Candidates []Candidate `json:"candidates"`
	Chores     []Chore     `json:"chores"`
}
