package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RetentionSetting is the singleton configuration for the archive-by-age
// sweep. The repository upserts a single document keyed by a fixed name, so
// "first found wins" ambiguity does not arise.
type RetentionSetting struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Enabled       bool               `bson:"enabled" json:"enabled"`
	RetentionDays int                `bson:"retention_days" json:"retention_days"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// StorageSetting is the singleton configuration for purging aged
// notifications and deleted documents.
type StorageSetting struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Enabled         bool               `bson:"enabled" json:"enabled"`
	DeleteAfterDays int                `bson:"delete_after_days" json:"delete_after_days"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
