package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpense_AddAndDelete(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	rent, err := e.expenses.Add(ExpenseInput{Category: " Rent ", Amount: dec("800"), Description: "March"})
	require.NoError(t, err)
	assert.Equal(t, "Rent", rent.Category)
	assert.Equal(t, testStart, rent.CreatedAt)

	e.clock.Advance(time.Hour)
	supplies, err := e.expenses.Add(ExpenseInput{Category: "Supplies", Amount: dec("42.505")})
	require.NoError(t, err)
	assertDec(t, "42.51", supplies.Amount)

	list := e.expenses.List()
	require.Len(t, list, 2)
	assert.Equal(t, supplies.ID, list[0].ID)

	e.tasks.Wait()
	remote, err := e.expenseRepo.SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remote, 2)

	require.NoError(t, e.expenses.Delete(rent.ID))
	assert.Len(t, e.expenses.List(), 1)

	e.tasks.Wait()
	remote, err = e.expenseRepo.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, supplies.ID, remote[0].ID)

	err = e.expenses.Delete(rent.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestExpense_AddValidation(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.expenses.Add(ExpenseInput{Category: "  ", Amount: decimal.Zero})
	require.Error(t, err)
	assert.True(t, apperror.HasReason(err, apperror.ReasonValidation))
	assert.Len(t, apperror.GetAppError(err).Errors, 2)
	assert.Empty(t, e.expenses.List())
}

func TestExpense_LoadedAtStartup(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.expenses.Add(ExpenseInput{Category: "Rent", Amount: dec("800")})
	require.NoError(t, err)
	e.tasks.Wait()

	reloaded := NewExpenseService(e.expenseRepo, e.tasks, e.clock)
	require.NoError(t, reloaded.Load(context.Background()))
	require.Len(t, reloaded.List(), 1)
	assertDec(t, "800", reloaded.List()[0].Amount)
}
