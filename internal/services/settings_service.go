package services

import (
	"context"
	"fmt"

	"github.com/nursultan-qb/docvault/internal/models"
)

type settingsStore interface {
	GetRetentionSetting(ctx context.Context) (*models.RetentionSetting, error)
	UpsertRetentionSetting(ctx context.Context, setting *models.RetentionSetting) error
	GetStorageSetting(ctx context.Context) (*models.StorageSetting, error)
	UpsertStorageSetting(ctx context.Context, setting *models.StorageSetting) error
}

// SettingsService manages the two singleton retention configurations.
type SettingsService struct {
	repo settingsStore
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(repo settingsStore) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetRetentionSetting returns the archive-by-age configuration.
func (s *SettingsService) GetRetentionSetting(ctx context.Context) (*models.RetentionSetting, error) {
	return s.repo.GetRetentionSetting(ctx)
}

// UpdateRetentionSetting saves the archive-by-age configuration.
func (s *SettingsService) UpdateRetentionSetting(ctx context.Context, setting *models.RetentionSetting) error {
	if setting.Enabled && setting.RetentionDays <= 0 {
		return fmt.Errorf("%w: retention days must be positive when enabled", ErrInvalidInput)
	}
	return s.repo.UpsertRetentionSetting(ctx, setting)
}

// GetStorageSetting returns the purge configuration.
func (s *SettingsService) GetStorageSetting(ctx context.Context) (*models.StorageSetting, error) {
	return s.repo.GetStorageSetting(ctx)
}

// UpdateStorageSetting saves the purge configuration.
func (s *SettingsService) UpdateStorageSetting(ctx context.Context, setting *models.StorageSetting) error {
	if setting.Enabled && setting.DeleteAfterDays <= 0 {
		return fmt.Errorf("%w: delete-after days must be positive when enabled", ErrInvalidInput)
	}
	return s.repo.UpsertStorageSetting(ctx, setting)
}
