package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/pricing"
	"github.com/sangkips/trimtime-pos/internal/application/session"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/trimtime-pos/internal/domain/repository"
	infraRepo "github.com/sangkips/trimtime-pos/internal/infrastructure/repository"
	slotstore "github.com/sangkips/trimtime-pos/internal/infrastructure/session"
	"github.com/sangkips/trimtime-pos/internal/metrics"
	"github.com/sangkips/trimtime-pos/internal/testutil"
	"github.com/sangkips/trimtime-pos/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	clock   *clock.Manual
	tasks   *background.Tasks
	metrics *metrics.Metrics

	serviceRepo  domainRepo.ServiceRepository
	productRepo  domainRepo.ProductRepository
	staffRepo    domainRepo.StaffRepository
	customerRepo domainRepo.CustomerRepository
	saleRepo     domainRepo.SaleRepository
	settingsRepo domainRepo.SettingsRepository
	expenseRepo  domainRepo.ExpenseRepository

	sessions  *session.Manager
	catalog   *CatalogService
	customers *CustomerService
	staff     *StaffService
	settings  *SettingsService
	sales     *SaleService
	register  *RegisterService
	auth      *AuthService
	reports   *ReportService
	expenses  *ExpenseService
	printer   *printer.MemoryPrinter
	receipts  *PrinterService

	admin    entity.Staff
	employee entity.Staff
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	e := &testEnv{
		clock:        clock.NewManual(testStart),
		metrics:      metrics.New(),
		serviceRepo:  infraRepo.NewServiceRepository(db),
		productRepo:  infraRepo.NewProductRepository(db),
		staffRepo:    infraRepo.NewStaffRepository(db),
		customerRepo: infraRepo.NewCustomerRepository(db),
		saleRepo:     infraRepo.NewSaleRepository(db),
		settingsRepo: infraRepo.NewSettingsRepository(db),
		expenseRepo:  infraRepo.NewExpenseRepository(db),
		printer:      printer.NewMemoryPrinter(),
	}
	e.tasks = background.New(5*time.Second, slog.Default(), background.WithObserver(e.metrics))

	e.admin = entity.Staff{ID: "a1", Name: "Marco", Username: "marco", Role: enum.StaffRoleAdmin, Commission: decimal.NewFromInt(50)}
	e.employee = entity.Staff{ID: "e1", Name: "Lena", Username: "lena", Role: enum.StaffRoleEmployee, Commission: decimal.NewFromInt(40)}
	require.NoError(t, e.admin.SetPassword("admin-pass"))
	require.NoError(t, e.employee.SetPassword("lena-pass"))
	require.NoError(t, e.staffRepo.Upsert(ctx, []entity.Staff{e.admin, e.employee}))
	require.NoError(t, e.serviceRepo.Upsert(ctx, []entity.Service{
		{ID: "svc-cut", Name: "Classic Cut", Price: decimal.NewFromInt(50), Duration: 30, Category: "Hair"},
		{ID: "svc-beard", Name: "Beard Trim", Price: decimal.NewFromInt(15), Duration: 15, Category: "Beard"},
	}))
	require.NoError(t, e.productRepo.Upsert(ctx, []entity.Product{
		{ID: "p-pomade", Name: "Pomade", Price: decimal.NewFromInt(12), Cost: decimal.NewFromInt(5), Stock: 10, Barcode: "4006381333931"},
	}))
	require.NoError(t, e.customerRepo.Upsert(ctx, []entity.Customer{
		{ID: "c1", Name: "Tom Baker", Phone: "555-0101", CreatedAt: testStart},
	}))

	e.sessions = session.NewManager(config.SessionConfig{Secret: "test-secret"}, slotstore.NewMemorySlot(), e.clock)
	e.catalog = NewCatalogService(e.serviceRepo, e.productRepo, e.tasks)
	e.customers = NewCustomerService(e.customerRepo, e.tasks, e.clock)
	e.staff = NewStaffService(e.staffRepo, e.sessions, e.tasks)
	e.settings = NewSettingsService(e.settingsRepo, e.tasks)
	e.sales = NewSaleService(e.saleRepo, e.catalog, e.tasks, e.clock, e.metrics)
	e.register = NewRegisterService(RegisterDeps{
		Clock:     e.clock,
		Catalog:   e.catalog,
		Customers: e.customers,
		Staff:     e.staff,
		Discounts: pricing.NewCatalog(pricing.DefaultCodes()...),
		Settings:  e.settings,
		Sales:     e.sales,
		Metrics:   e.metrics,
		Scanner:   config.ScannerConfig{Cooldown: 1500 * time.Millisecond, KeyGap: 50 * time.Millisecond},
	})
	e.auth = NewAuthService(e.staff, e.sessions)
	e.expenses = NewExpenseService(e.expenseRepo, e.tasks, e.clock)
	e.reports = NewReportService(e.saleRepo, e.staff, e.expenses)
	e.receipts = NewPrinterService(e.printer, nil, e.sales, e.staff, e.customers, e.settings, printer.Width80mm)

	require.NoError(t, e.catalog.Load(ctx))
	require.NoError(t, e.customers.Load(ctx))
	require.NoError(t, e.staff.Load(ctx))
	require.NoError(t, e.settings.Load(ctx))
	require.NoError(t, e.expenses.Load(ctx))

	t.Cleanup(e.tasks.Wait)
	return e
}

// setTax switches the shop's tax and waits for the settings write.
func (e *testEnv) setTax(t *testing.T, rate int64, mode enum.TaxType) {
	t.Helper()
	s := e.settings.Get()
	s.TaxRate = decimal.NewFromInt(rate)
	s.TaxType = mode
	_, err := e.settings.Update(s)
	require.NoError(t, err)
	e.tasks.Wait()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
