package repository

import (
	"context"
	"errors"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the settings singleton
func (r *settingsRepository) Get(ctx context.Context) (*entity.ShopSettings, error) {
	var rec entity.SettingsRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", entity.ShopSettingsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec.Data, nil
}

// Save upserts the settings singleton
func (r *settingsRepository) Save(ctx context.Context, settings entity.ShopSettings) error {
	rec := entity.SettingsRecord{ID: entity.ShopSettingsID, Data: settings}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
}
