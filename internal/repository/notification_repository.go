package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// CreateNotification inserts a new notification record.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	notif.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return nil, fmt.Errorf("failed to create notification: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = insertedID
	}
	return notif, nil
}

// GetUserNotifications returns all notifications addressed to a user, newest
// first.
func (r *NotificationRepository) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	filter := bson.M{"viewers.user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %v", err)
	}
	return notifications, nil
}

// MarkAsRead flips the read flag for exactly one viewer entry. Other viewers'
// read state on the same notification is untouched.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error {
	now := time.Now()
	filter := bson.M{"_id": id, "viewers.user_id": userID}
	update := bson.M{"$set": bson.M{
		"viewers.$.is_read":   true,
		"viewers.$.viewed_at": now,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNotification removes a notification record.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteOlderThan removes all notifications created before cutoff and
// returns how many were deleted.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{"created_at": bson.M{"$lt": cutoff}}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete aged notifications: %v", err)
	}
	logrus.Infof("Deleted %d aged notifications", result.DeletedCount)
	return result.DeletedCount, nil
}
