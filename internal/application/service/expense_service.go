package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/reconcile"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

const expensesCollection = "expenses"

// ExpenseService owns the local expense ledger. Changes apply locally at once
// and are written to the remote store in the background.
type ExpenseService struct {
	expenses    *reconcile.Collection[entity.Expense]
	expenseRepo repository.ExpenseRepository
	tasks       *background.Tasks
	clock       clock.Clock
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository, tasks *background.Tasks, clk clock.Clock) *ExpenseService {
	return &ExpenseService{
		expenses:    reconcile.NewCollection[entity.Expense](nil),
		expenseRepo: expenseRepo,
		tasks:       tasks,
		clock:       clk,
	}
}

func (s *ExpenseService) Load(ctx context.Context) error {
	items, err := s.expenseRepo.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", expensesCollection, err)
	}
	s.expenses.Replace(items)
	slog.Info("collection loaded", "collection", expensesCollection, "count", len(items))
	return nil
}

// List returns the ledger, newest first
func (s *ExpenseService) List() []entity.Expense {
	all := s.expenses.All()
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}

// ExpenseInput is a new ledger entry
type ExpenseInput struct {
	Category    string
	Amount      decimal.Decimal
	Description string
}

// Add records an expense dated now
func (s *ExpenseService) Add(input ExpenseInput) (*entity.Expense, error) {
	category := strings.TrimSpace(input.Category)

	var errs []apperror.FieldError
	if category == "" {
		errs = append(errs, apperror.FieldError{Field: "category", Message: "Category is required"})
	}
	if !input.Amount.IsPositive() {
		errs = append(errs, apperror.FieldError{Field: "amount", Message: "Amount must be greater than zero"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	expense := entity.Expense{
		ID:          utils.NewID(),
		Category:    category,
		Amount:      input.Amount.Round(2),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.clock.Now(),
	}
	s.expenses.Append(expense)

	remote := expense
	s.tasks.Go(expensesCollection, "insert", []string{expense.ID}, func(ctx context.Context) error {
		return s.expenseRepo.Insert(ctx, &remote)
	})
	return &expense, nil
}

// Delete removes an expense from the ledger
func (s *ExpenseService) Delete(id string) error {
	if !s.expenses.Remove(id) {
		return apperror.NewNotFoundError("Expense")
	}
	ids := []string{id}
	s.tasks.Go(expensesCollection, "delete", ids, func(ctx context.Context) error {
		return s.expenseRepo.Delete(ctx, ids)
	})
	return nil
}

// Between returns the expenses recorded in [from, to), oldest first
func (s *ExpenseService) Between(from, to time.Time) []entity.Expense {
	var out []entity.Expense
	for _, e := range s.expenses.All() {
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out
}
