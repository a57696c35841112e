package repository

import (
	"context"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
)

// Table is the remote store contract shared by every synced collection.
// Get returns (nil, nil) when the row does not exist.
type Table[T any] interface {
	SelectAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, item *T) error
	// Upsert inserts or fully replaces every item by primary key.
	Upsert(ctx context.Context, items []T) error
	// Delete removes exactly the given ids; unknown ids are ignored.
	Delete(ctx context.Context, ids []string) error
}

// ServiceRepository stores the service catalog
type ServiceRepository interface {
	Table[entity.Service]
}

// CustomerRepository stores customers
type CustomerRepository interface {
	Table[entity.Customer]
}

// StaffRepository stores staff members
type StaffRepository interface {
	Table[entity.Staff]
	GetByUsername(ctx context.Context, username string) (*entity.Staff, error)
}
