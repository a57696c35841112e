package repository

import (
	"context"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Table[entity.Product]
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// DecrementStock subtracts qty from the stored stock in a single statement.
	// No floor is enforced; stock may go negative.
	DecrementStock(ctx context.Context, id string, qty int) error
}
