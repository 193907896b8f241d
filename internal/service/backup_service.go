package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/jobs"
	"github.com/eduerp-dev/eduerp-api/pkg/storage"
)

type backupStore interface {
	Snapshot(role models.UserRole) (*models.Backup, error)
	Replace(ctx context.Context, role models.UserRole, b *models.Backup) error
	FactoryReset(ctx context.Context, role models.UserRole) error
}

// BackupService exports backup bundles through the background queue, applies
// restores, and performs factory resets. All entry points are admin-only,
// enforced by the store.
type BackupService struct {
	store   backupStore
	files   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	tracker *ArtifactTracker
	queue   *jobs.Queue
	logger  *zap.Logger
}

type backupJobPayload struct {
	ArtifactID string
	Bundle     *models.Backup
}

// NewBackupService constructs the backup service and its own job queue.
func NewBackupService(store backupStore, files *storage.LocalStorage, signer *storage.SignedURLSigner, tracker *ArtifactTracker, queueCfg jobs.QueueConfig, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BackupService{
		store:   store,
		files:   files,
		signer:  signer,
		tracker: tracker,
		logger:  logger,
	}
	s.queue = jobs.NewQueue("backups", s.handleJob, queueCfg)
	return s
}

// Start launches the backup workers.
func (s *BackupService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the backup workers.
func (s *BackupService) Stop() { s.queue.Stop() }

// CreateBackup snapshots the store now and queues bundling to disk. The
// snapshot is taken synchronously so the bundle reflects the moment of the
// request, not the moment the worker ran.
func (s *BackupService) CreateBackup(role models.UserRole) (*Artifact, error) {
	bundle, err := s.store.Snapshot(role)
	if err != nil {
		return nil, err
	}

	artifact := s.tracker.Create("backup")
	err = s.queue.Enqueue(jobs.Job{
		ID:      artifact.ID,
		Type:    "backup.create",
		Payload: backupJobPayload{ArtifactID: artifact.ID, Bundle: bundle},
	})
	if err != nil {
		s.tracker.Fail(artifact.ID, "queue unavailable")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue backup")
	}
	return artifact, nil
}

// Status reports a backup job. Admin-only like the rest of the surface.
func (s *BackupService) Status(role models.UserRole, id string) (*Artifact, error) {
	if !role.Valid() {
		return nil, appErrors.ErrInvalidRole
	}
	if role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	artifact, ok := s.tracker.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "backup job not found")
	}
	return artifact, nil
}

// Restore applies a backup bundle wholesale. A malformed file is one
// user-visible failure; nothing is partially applied.
func (s *BackupService) Restore(ctx context.Context, role models.UserRole, raw []byte) error {
	var bundle models.Backup
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid backup file")
	}
	if err := s.store.Replace(ctx, role, &bundle); err != nil {
		return err
	}
	s.logger.Info("backup restored",
		zap.Int("students", len(bundle.Students)),
		zap.Int("teachers", len(bundle.Teachers)),
	)
	return nil
}

// FactoryReset erases all persisted state including the session.
func (s *BackupService) FactoryReset(ctx context.Context, role models.UserRole) error {
	return s.store.FactoryReset(ctx, role)
}

// Download validates a signed token and returns the bundle bytes.
func (s *BackupService) Download(token string) ([]byte, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	data, err := s.files.Read(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "backup artifact not found")
	}
	return data, relPath, nil
}

func (s *BackupService) handleJob(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(backupJobPayload)
	if !ok {
		s.tracker.Fail(job.ID, "malformed job payload")
		return nil
	}

	data, err := json.MarshalIndent(payload.Bundle, "", "  ")
	if err != nil {
		s.tracker.Fail(payload.ArtifactID, "failed to encode bundle")
		return nil
	}

	fileName := fmt.Sprintf("backup-%s.json", payload.ArtifactID)
	if _, err := s.files.Save(fileName, data); err != nil {
		s.tracker.Fail(payload.ArtifactID, "failed to write bundle")
		return err
	}

	token, expiresAt, err := s.signer.Generate(payload.ArtifactID, fileName)
	if err != nil {
		s.tracker.Fail(payload.ArtifactID, "failed to sign download token")
		return nil
	}

	s.tracker.Complete(payload.ArtifactID, fileName, token, expiresAt)
	s.logger.Info("backup bundle ready",
		zap.String("artifact_id", payload.ArtifactID),
		zap.String("file", fileName),
	)
	return nil
}
