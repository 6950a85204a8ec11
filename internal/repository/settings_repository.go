package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nursultan-qb/docvault/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fixed document names enforce one instance per setting. All reads and
// upserts key on the name, so "first found wins" never applies.
const (
	retentionSettingName = "retention"
	storageSettingName   = "storage"
)

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("settings"),
	}
}

// GetRetentionSetting fetches the retention singleton. When none has been
// saved yet, a disabled default is returned.
func (r *SettingsRepository) GetRetentionSetting(ctx context.Context) (*models.RetentionSetting, error) {
	var setting models.RetentionSetting

	err := r.collection.FindOne(ctx, bson.M{"name": retentionSettingName}).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.RetentionSetting{Enabled: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch retention setting: %v", err)
	}
	return &setting, nil
}

// UpsertRetentionSetting saves the retention singleton.
func (r *SettingsRepository) UpsertRetentionSetting(ctx context.Context, setting *models.RetentionSetting) error {
	setting.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":           retentionSettingName,
		"enabled":        setting.Enabled,
		"retention_days": setting.RetentionDays,
		"updated_at":     setting.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"name": retentionSettingName}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert retention setting: %v", err)
	}
	return nil
}

// GetStorageSetting fetches the storage-optimization singleton. When none has
// been saved yet, a disabled default is returned.
func (r *SettingsRepository) GetStorageSetting(ctx context.Context) (*models.StorageSetting, error) {
	var setting models.StorageSetting

	err := r.collection.FindOne(ctx, bson.M{"name": storageSettingName}).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.StorageSetting{Enabled: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch storage setting: %v", err)
	}
	return &setting, nil
}

// UpsertStorageSetting saves the storage-optimization singleton.
func (r *SettingsRepository) UpsertStorageSetting(ctx context.Context, setting *models.StorageSetting) error {
	setting.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":              storageSettingName,
		"enabled":           setting.Enabled,
		"delete_after_days": setting.DeleteAfterDays,
		"updated_at":        setting.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"name": storageSettingName}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert storage setting: %v", err)
	}
	return nil
}
