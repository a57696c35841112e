package repository

import (
	"context"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
)

// SettingsRepository reads and writes the shop settings singleton
type SettingsRepository interface {
	// Get returns (nil, nil) when settings were never saved.
	Get(ctx context.Context) (*entity.ShopSettings, error)
	Save(ctx context.Context, settings entity.ShopSettings) error
}
