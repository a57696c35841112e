package service

import (
	"context"
	"testing"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_SaveServicesReconciles(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	next := []entity.Service{
		{ID: "svc-beard", Name: "Beard Trim", Price: decimal.NewFromInt(18), Duration: 15},
		{Name: "Hot Towel Shave", Price: decimal.NewFromInt(30), Duration: 25},
	}
	saved, err := e.catalog.SaveServices(next)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.NotEmpty(t, saved[1].ID)

	e.tasks.Wait()
	remote, err := e.serviceRepo.SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remote, 2)
	cut, err := e.serviceRepo.Get(ctx, "svc-cut")
	require.NoError(t, err)
	assert.Nil(t, cut)
	beard, err := e.serviceRepo.Get(ctx, "svc-beard")
	require.NoError(t, err)
	assertDec(t, "18", beard.Price)
}

func TestCatalog_SaveProductsValidation(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.catalog.SaveProducts([]entity.Product{
		{ID: "x", Name: "Wax", Price: decimal.NewFromInt(-1), Barcode: "111"},
		{ID: "x", Name: " ", Price: decimal.NewFromInt(2), Cost: decimal.NewFromInt(-2), Barcode: "111"},
	})
	require.Error(t, err)
	assert.True(t, apperror.HasReason(err, apperror.ReasonValidation))
	assert.Len(t, apperror.GetAppError(err).Errors, 5)

	_, ok := e.catalog.FindProduct("p-pomade")
	assert.True(t, ok)
}

func TestCatalog_ApplySaleUnknownProduct(t *testing.T) {
	e := newTestEnv(t)
	assert.False(t, e.catalog.ApplySale("ghost", 1))
	assert.True(t, e.catalog.ApplySale("p-pomade", 3))

	p, _ := e.catalog.FindProduct("p-pomade")
	assert.Equal(t, 7, p.Stock)
}

func TestCustomers_QuickAdd(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.customers.QuickAdd(QuickAddCustomerInput{Name: "  "})
	assert.True(t, apperror.HasReason(err, apperror.ReasonValidation))

	c, err := e.customers.QuickAdd(QuickAddCustomerInput{Name: " Ada Lovelace ", Phone: "555-0199"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, testStart, c.CreatedAt)
	assert.Len(t, e.customers.List(), 2)

	e.tasks.Wait()
	all, err := e.customerRepo.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSettings_Update(t *testing.T) {
	e := newTestEnv(t)

	bad := e.settings.Get()
	bad.ShopName = ""
	bad.TaxRate = decimal.NewFromInt(101)
	bad.TaxType = 7
	bad.WhatsAppEnabled = true
	_, err := e.settings.Update(bad)
	require.Error(t, err)
	assert.Len(t, apperror.GetAppError(err).Errors, 4)
	assert.Equal(t, "TrimTime Barbershop", e.settings.Get().ShopName)

	good := e.settings.Get()
	good.ShopName = "Fade Factory"
	good.TaxType = enum.TaxTypeIncluded
	_, err = e.settings.Update(good)
	require.NoError(t, err)
	assert.Equal(t, "Fade Factory", e.settings.Get().ShopName)

	e.tasks.Wait()
	stored, err := e.settingsRepo.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, enum.TaxTypeIncluded, stored.TaxType)
}
