package repository

import (
	"context"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
)

// ExpenseRepository stores the expense ledger. Entries are added or removed,
// never edited.
type ExpenseRepository interface {
	SelectAll(ctx context.Context) ([]entity.Expense, error)
	Insert(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, ids []string) error
}
