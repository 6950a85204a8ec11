package services

import (
	"context"
	"fmt"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/presence"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type notificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) (*models.Notification, error)
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error
}

type adminLister interface {
	GetUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

type pusher interface {
	Push(userID, eventName string, payload presence.Payload) bool
}

// NotificationService persists notification records and attempts best-effort
// real-time delivery to viewers currently present on the websocket channel.
type NotificationService struct {
	repo     notificationStore
	userRepo adminLister
	registry pusher
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo notificationStore, userRepo adminLister, registry pusher) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
		registry: registry,
	}
}

// Notify persists a notification addressed to the given viewers and pushes it
// to every viewer with a live connection. The persisted record guarantees
// later pickup for viewers who were offline; the push carries no retry or
// acknowledgement.
func (s *NotificationService) Notify(ctx context.Context, message string, fileID *primitive.ObjectID, viewerIDs []primitive.ObjectID, eventName string) (*models.Notification, error) {
	viewers := make([]models.NotificationViewer, 0, len(viewerIDs))
	for _, id := range viewerIDs {
		viewers = append(viewers, models.NotificationViewer{UserID: id})
	}

	notif, err := s.repo.CreateNotification(ctx, &models.Notification{
		Message: message,
		FileID:  fileID,
		Viewers: viewers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist notification: %v", err)
	}

	payload := presence.Payload{
		Message:        message,
		NotificationID: notif.ID.Hex(),
	}
	if fileID != nil {
		payload.FileID = fileID.Hex()
	}

	pushed := 0
	for _, id := range viewerIDs {
		if s.registry.Push(id.Hex(), eventName, payload) {
			pushed++
		}
	}

	logrus.WithFields(logrus.Fields{
		"notification_id": notif.ID.Hex(),
		"viewers":         len(viewerIDs),
		"pushed":          pushed,
	}).Info("Notification dispatched")

	return notif, nil
}

// NotifyAdmins addresses a notification to every current admin account.
func (s *NotificationService) NotifyAdmins(ctx context.Context, message string, fileID *primitive.ObjectID, eventName string) (*models.Notification, error) {
	admins, err := s.userRepo.GetUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve admin viewers: %v", err)
	}

	viewerIDs := make([]primitive.ObjectID, 0, len(admins))
	for _, admin := range admins {
		viewerIDs = append(viewerIDs, admin.ID)
	}
	return s.Notify(ctx, message, fileID, viewerIDs, eventName)
}

// NotifyUser addresses a notification to a single viewer.
func (s *NotificationService) NotifyUser(ctx context.Context, userID primitive.ObjectID, message string, fileID *primitive.ObjectID, eventName string) (*models.Notification, error) {
	return s.Notify(ctx, message, fileID, []primitive.ObjectID{userID}, eventName)
}

// GetUserNotifications returns all notifications addressed to a user.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead flips the read flag for one viewer of one
// notification. Other viewers are unaffected.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID, userID primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, notifID, userID)
}

// DeleteNotification removes a notification record.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID primitive.ObjectID) error {
	return s.repo.DeleteNotification(ctx, notifID)
}
