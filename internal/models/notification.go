package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationViewer tracks one intended recipient's read state. The viewer
// list is fixed when the notification is created.
type NotificationViewer struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	IsRead   bool               `bson:"is_read" json:"is_read"`
	ViewedAt *time.Time         `bson:"viewed_at,omitempty" json:"viewed_at,omitempty"`
}

// Notification is one message broadcast to a set of viewers. The persisted
// record is the durable fallback for viewers missed by the real-time push.
type Notification struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Message   string               `bson:"message" json:"message"`
	FileID    *primitive.ObjectID  `bson:"file_id,omitempty" json:"file_id,omitempty"`
	Viewers   []NotificationViewer `bson:"viewers" json:"viewers"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}
