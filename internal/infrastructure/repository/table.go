package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTable implements the generic collection contract over one GORM model.
type gormTable[T any] struct {
	db *gorm.DB
}

func newGormTable[T any](db *gorm.DB) gormTable[T] {
	return gormTable[T]{db: db}
}

func (r gormTable[T]) SelectAll(ctx context.Context) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r gormTable[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r gormTable[T]) Insert(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Upsert writes every item with INSERT ... ON CONFLICT (id) DO UPDATE.
// created_at is preserved on conflict.
func (r gormTable[T]) Upsert(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&items).Error
}

func (r gormTable[T]) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(new(T)).Error
}
