package services

import (
	"context"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type activityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetDocumentActivities(ctx context.Context, documentID primitive.ObjectID, limit int) ([]models.Activity, error)
	GetRecentActivities(ctx context.Context, limit int) ([]models.Activity, error)
}

// ActivityService records the write-once audit trail of document actions.
type ActivityService struct {
	repo activityStore
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(repo activityStore) *ActivityService {
	return &ActivityService{repo: repo}
}

// LogActivity persists one audit record. The timestamp is stamped here so
// callers cannot backdate entries.
func (s *ActivityService) LogActivity(ctx context.Context, activity *models.Activity) error {
	activity.Timestamp = time.Now()
	if activity.Level == "" {
		activity.Level = "info"
	}

	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		logrus.WithError(err).Error("Failed to log activity")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":    activity.ActorID.Hex(),
		"document_id": activity.DocumentID.Hex(),
		"type":        activity.Type,
	}).Info("Activity logged")
	return nil
}

// GetDocumentActivities returns the audit trail of a document.
func (s *ActivityService) GetDocumentActivities(ctx context.Context, documentID primitive.ObjectID, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetDocumentActivities(ctx, documentID, limit)
}

// GetRecentActivities returns the newest audit records across all documents.
func (s *ActivityService) GetRecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetRecentActivities(ctx, limit)
}
