package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/services"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sweepDocumentStore interface {
	FindArchivable(ctx context.Context, cutoff time.Time) ([]models.Document, error)
	MarkArchived(ctx context.Context, id primitive.ObjectID, meta *models.ArchivedMetadata) error
	FindDeletedBefore(ctx context.Context, cutoff time.Time) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id primitive.ObjectID) error
}

type sweepNotificationStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type sweepSettingsStore interface {
	GetRetentionSetting(ctx context.Context) (*models.RetentionSetting, error)
	GetStorageSetting(ctx context.Context) (*models.StorageSetting, error)
}

// RetentionSweeper reclassifies aged documents and purges aged ephemeral
// records. Each record is processed independently: a failure on one never
// aborts the batch.
type RetentionSweeper struct {
	docs          sweepDocumentStore
	notifications sweepNotificationStore
	settings      sweepSettingsStore
	storage       services.ObjectStorage
}

// NewRetentionSweeper creates a new instance of RetentionSweeper.
func NewRetentionSweeper(docs sweepDocumentStore, notifications sweepNotificationStore, settings sweepSettingsStore, storage services.ObjectStorage) *RetentionSweeper {
	return &RetentionSweeper{
		docs:          docs,
		notifications: notifications,
		settings:      settings,
		storage:       storage,
	}
}

// Run executes one sweep: archive-by-age, notification purge, deleted-file
// purge. Disabled settings skip their step entirely.
func (s *RetentionSweeper) Run(ctx context.Context) error {
	archived, err := s.archiveAgedDocuments(ctx)
	if err != nil {
		logrus.WithError(err).Error("Archive-by-age step failed")
	}

	purgedNotifs, purgedDocs, err := s.purgeAgedRecords(ctx)
	if err != nil {
		logrus.WithError(err).Error("Purge step failed")
	}

	logrus.WithFields(logrus.Fields{
		"archived_documents":   archived,
		"purged_notifications": purgedNotifs,
		"purged_documents":     purgedDocs,
	}).Info("Retention sweep completed")
	return nil
}

func (s *RetentionSweeper) archiveAgedDocuments(ctx context.Context) (int, error) {
	setting, err := s.settings.GetRetentionSetting(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load retention setting: %v", err)
	}
	if !setting.Enabled {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -setting.RetentionDays)
	docs, err := s.docs.FindArchivable(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to find archivable documents: %v", err)
	}

	archived := 0
	for _, doc := range docs {
		meta := &models.ArchivedMetadata{
			DateArchived: time.Now(),
			Notes:        fmt.Sprintf("Archived by retention policy after %d days", setting.RetentionDays),
		}
		if err := s.docs.MarkArchived(ctx, doc.ID, meta); err != nil {
			logrus.WithError(err).WithField("document_id", doc.ID.Hex()).Warn("Failed to archive aged document")
			continue
		}
		archived++
	}
	return archived, nil
}

func (s *RetentionSweeper) purgeAgedRecords(ctx context.Context) (int64, int, error) {
	setting, err := s.settings.GetStorageSetting(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load storage setting: %v", err)
	}
	if !setting.Enabled {
		return 0, 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -setting.DeleteAfterDays)

	purgedNotifs, err := s.notifications.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Warn("Failed to purge aged notifications")
	}

	docs, err := s.docs.FindDeletedBefore(ctx, cutoff)
	if err != nil {
		return purgedNotifs, 0, fmt.Errorf("failed to find deleted documents: %v", err)
	}

	purgedDocs := 0
	for _, doc := range docs {
		// The database record is authoritative: remove it first, then try the
		// remote object. A failed remote delete never reverses the purge.
		if err := s.docs.DeleteDocument(ctx, doc.ID); err != nil {
			logrus.WithError(err).WithField("document_id", doc.ID.Hex()).Warn("Failed to purge deleted document")
			continue
		}
		purgedDocs++

		if doc.FileID != "" {
			if err := s.storage.Delete(ctx, doc.FileID); err != nil {
				logrus.WithError(err).WithField("object_key", doc.FileID).Warn("Failed to delete remote object during purge")
			}
		}
	}
	return purgedNotifs, purgedDocs, nil
}
