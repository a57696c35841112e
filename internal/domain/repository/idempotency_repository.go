package repository

import (
	"context"
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and operator
	GetByKey(ctx context.Context, key, staffID string) (*entity.IdempotencyKey, error)
	// Reserve claims the key for a request in flight. It reports false when a
	// live key already exists for the same operator; a key expired at now is
	// replaced.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey, now time.Time) (bool, error)
	// Complete stores the response of a reserved key
	Complete(ctx context.Context, id string, code int, body string) error
	// Release drops a reservation so the request can be retried
	Release(ctx context.Context, id string) error
	// DeleteExpired removes keys that expired before now
	DeleteExpired(ctx context.Context, now time.Time) error
}
