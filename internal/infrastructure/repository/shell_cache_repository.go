package repository

import (
	"context"
	"net/http"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/pkg/shellcache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shellCacheRepository struct {
	db *gorm.DB
}

// NewShellCacheRepository creates the persistent backend of the shell cache
func NewShellCacheRepository(db *gorm.DB) shellcache.Backend {
	return &shellCacheRepository{db: db}
}

func (r *shellCacheRepository) LoadAll(ctx context.Context) ([]shellcache.Record, error) {
	var rows []entity.ShellCacheEntry
	if err := r.db.WithContext(ctx).Order("version, uri").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]shellcache.Record, len(rows))
	for i, row := range rows {
		records[i] = shellcache.Record{
			Version: row.Version,
			Key:     row.URI,
			Header:  http.Header(row.Header),
			Body:    row.Body,
			Status:  row.Status,
		}
	}
	return records, nil
}

func (r *shellCacheRepository) Save(ctx context.Context, records []shellcache.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]entity.ShellCacheEntry, len(records))
	for i, rec := range records {
		rows[i] = entity.ShellCacheEntry{
			Version: rec.Version,
			URI:     rec.Key,
			Header:  rec.Header,
			Body:    rec.Body,
			Status:  rec.Status,
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "version"}, {Name: "uri"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}

func (r *shellCacheRepository) DeleteVersions(ctx context.Context, versions []string) error {
	if len(versions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("version IN ?", versions).
		Delete(&entity.ShellCacheEntry{}).Error
}
