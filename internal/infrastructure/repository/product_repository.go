package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/trimtime-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	gormTable[entity.Product]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{newGormTable[entity.Product](db)}
}

func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock atomically decrements stock by qty.
// Uses: UPDATE products SET stock = stock - qty WHERE id = ?
func (r *productRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
