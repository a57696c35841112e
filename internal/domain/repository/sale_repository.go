package repository

import (
	"context"
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/pkg/pagination"
)

// SaleRepository is the append-only sales log
type SaleRepository interface {
	Insert(ctx context.Context, sale *entity.Sale) error
	Get(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListBetween returns sales created in [from, to), oldest first.
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.Sale, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	StaffID    string
	From       *time.Time
	To         *time.Time
}
