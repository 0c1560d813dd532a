package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
)

const archiveJobType = "archive_upload"

type uploadStore interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobQueue interface {
	TryEnqueue(job jobs.Job) error
}

// ArchivePayload is the queued copy of one uploaded file.
type ArchivePayload struct {
	Kind     dto.UploadKind
	Filename string
	Content  []byte
	Received time.Time
}

// UploadArchiver keeps a copy of every accepted upload on disk. Archiving
// runs on the job queue so uploads never wait on the filesystem.
type UploadArchiver struct {
	store     uploadStore
	queue     jobQueue
	retention time.Duration
	logger    *zap.Logger
}

// NewUploadArchiver constructs an archiver. A non-positive retention keeps
// files forever.
func NewUploadArchiver(store uploadStore, retention time.Duration, logger *zap.Logger) *UploadArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadArchiver{store: store, retention: retention, logger: logger}
}

// AttachQueue routes archive requests through queue instead of saving inline.
func (a *UploadArchiver) AttachQueue(queue jobQueue) {
	a.queue = queue
}

// Archive schedules a copy of the file. With a queue attached it never
// waits; a full queue returns an error and the copy is skipped.
func (a *UploadArchiver) Archive(kind dto.UploadKind, file dto.UploadFile, received time.Time) error {
	if a == nil || a.store == nil {
		return nil
	}
	payload := ArchivePayload{Kind: kind, Filename: file.Filename, Content: file.Content, Received: received}
	if a.queue == nil {
		return a.save(payload)
	}
	return a.queue.TryEnqueue(jobs.Job{ID: uuid.NewString(), Type: archiveJobType, Payload: payload})
}

// Handle is the job queue handler.
func (a *UploadArchiver) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(ArchivePayload)
	if !ok {
		a.logger.Error("unexpected archive payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.save(payload)
}

func (a *UploadArchiver) save(payload ArchivePayload) error {
	name := ArchiveName(payload.Kind, payload.Filename, payload.Received)
	if _, err := a.store.Save(name, payload.Content); err != nil {
		return fmt.Errorf("archive %s: %w", payload.Filename, err)
	}
	a.logger.Info("upload archived", zap.String("kind", string(payload.Kind)), zap.String("path", name), zap.Int("bytes", len(payload.Content)))

	if a.retention > 0 {
		removed, err := a.store.CleanupOlderThan(a.retention)
		if err != nil {
			a.logger.Warn("archive cleanup failed", zap.Error(err))
		} else if len(removed) > 0 {
			a.logger.Info("expired archives removed", zap.Int("count", len(removed)))
		}
	}
	return nil
}

// ArchiveName places an upload under its kind with a sortable timestamp.
func ArchiveName(kind dto.UploadKind, filename string, received time.Time) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return filepath.Join(string(kind), received.UTC().Format("20060102T150405")+"_"+base)
}
