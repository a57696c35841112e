package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/pricing"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/application/session"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	infraRepo "github.com/sangkips/trimtime-pos/internal/infrastructure/repository"
	slotstore "github.com/sangkips/trimtime-pos/internal/infrastructure/session"
	"github.com/sangkips/trimtime-pos/internal/metrics"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/handler"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/middleware"
	"github.com/sangkips/trimtime-pos/internal/testutil"
	"github.com/sangkips/trimtime-pos/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	tasks  *background.Tasks
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db := testutil.NewTestDB(t)
	clk := clock.NewManual(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	m := metrics.New()
	tasks := background.New(5*time.Second, slog.Default(), background.WithObserver(m))
	t.Cleanup(tasks.Wait)

	serviceRepo := infraRepo.NewServiceRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	staffRepo := infraRepo.NewStaffRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	saleRepo := infraRepo.NewSaleRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)

	admin := entity.Staff{ID: "a1", Name: "Marco", Username: "marco", Role: enum.StaffRoleAdmin, Commission: decimal.NewFromInt(50)}
	employee := entity.Staff{ID: "e1", Name: "Lena", Username: "lena", Role: enum.StaffRoleEmployee, Commission: decimal.NewFromInt(40)}
	require.NoError(t, admin.SetPassword("admin-pass"))
	require.NoError(t, employee.SetPassword("lena-pass"))
	require.NoError(t, staffRepo.Upsert(ctx, []entity.Staff{admin, employee}))
	require.NoError(t, serviceRepo.Upsert(ctx, []entity.Service{
		{ID: "svc-cut", Name: "Classic Cut", Price: decimal.NewFromInt(50), Duration: 30},
	}))

	cfg := &config.Config{
		App:       config.AppConfig{Name: "trimtime-pos"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}
	sessions := session.NewManager(config.SessionConfig{Secret: "test-secret"}, slotstore.NewMemorySlot(), clk)
	discounts := pricing.NewCatalog(pricing.DefaultCodes()...)

	catalog := service.NewCatalogService(serviceRepo, productRepo, tasks)
	customers := service.NewCustomerService(customerRepo, tasks, clk)
	staff := service.NewStaffService(staffRepo, sessions, tasks)
	settings := service.NewSettingsService(settingsRepo, tasks)
	sales := service.NewSaleService(saleRepo, catalog, tasks, clk, m)
	expenses := service.NewExpenseService(infraRepo.NewExpenseRepository(db), tasks, clk)
	require.NoError(t, catalog.Load(ctx))
	require.NoError(t, customers.Load(ctx))
	require.NoError(t, staff.Load(ctx))
	require.NoError(t, settings.Load(ctx))

	register := service.NewRegisterService(service.RegisterDeps{
		Clock: clk, Catalog: catalog, Customers: customers, Staff: staff,
		Discounts: discounts, Settings: settings, Sales: sales, Metrics: m,
		Scanner: config.ScannerConfig{Cooldown: 1500 * time.Millisecond},
	})
	receipts := service.NewPrinterService(printer.NewNullPrinter(), nil, sales, staff, customers, settings, printer.Width80mm)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	t.Cleanup(limiter.Close)

	shell := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>shell</html>"))
	})

	router := Setup(&Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(staff, sessions), staff),
		Catalog:  handler.NewCatalogHandler(catalog, discounts),
		Staff:    handler.NewStaffHandler(staff),
		Customer: handler.NewCustomerHandler(customers),
		Settings: handler.NewSettingsHandler(settings),
		Register: handler.NewRegisterHandler(register),
		Sale:     handler.NewSaleHandler(sales, receipts),
		Report:   handler.NewReportHandler(service.NewReportService(saleRepo, staff, expenses)),
		Expense:  handler.NewExpenseHandler(expenses),
	}, &Deps{
		Sessions:        sessions,
		Cfg:             cfg,
		Clock:           clk,
		IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
		Metrics:         m.Handler(),
		Shell:           shell,
	})

	return &testServer{router: router, tasks: tasks}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func TestRoutes_AuthRequired(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/register", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "marco", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_CheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "lena", "lena-pass")

	w, _ := s.do(t, http.MethodPost, "/api/v1/register/lines", token, gin.H{"kind": "service", "item_id": "svc-cut"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPut, "/api/v1/register/discount", token, gin.H{"code": "SAVE10"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/register/checkout", token, gin.H{"payment_method": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "idempotency key is required")

	w, env := s.do(t, http.MethodPost, "/api/v1/register/checkout", token, gin.H{"payment_method": "cash"}, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sale entity.Sale
	require.NoError(t, json.Unmarshal(env.Data, &sale))
	// 50 less SAVE10, plus 10% tax
	assert.True(t, decimal.RequireFromString("49.5").Equal(sale.Total), "total %s", sale.Total)
	assert.Equal(t, "e1", sale.StaffID)

	replay, _ := s.do(t, http.MethodPost, "/api/v1/register/checkout", token, gin.H{"payment_method": "cash"}, "Idempotency-Key", "k-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, w.Body.String(), replay.Body.String())

	w, _ = s.do(t, http.MethodGet, "/api/v1/sales/"+sale.ID+"/receipt?format=text", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Receipt-"+sale.ID+".txt")
	assert.Contains(t, w.Body.String(), "TOTAL PAID:")

	s.tasks.Wait()
	w, _ = s.do(t, http.MethodGet, "/api/v1/sales?per_page=5", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_ValidationAndLookupMiss(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "marco", "admin-pass")

	w, _ := s.do(t, http.MethodPost, "/api/v1/register/lines", token, gin.H{"kind": "service", "item_id": "svc-cut"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/register/checkout", token, gin.H{"payment_method": "cash"}, "Idempotency-Key", "k-2")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation", env.Reason)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/register/lines/service/svc-cut", token, gin.H{"delta": 1000000})
	assert.Equal(t, http.StatusBadRequest, w.Code, "delta is bounded")

	w, env = s.do(t, http.MethodPost, "/api/v1/register/scan", token, gin.H{"code": "999999"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "lookup_miss", env.Reason)
}

func TestRoutes_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "lena", "lena-pass")

	w, _ := s.do(t, http.MethodPut, "/api/v1/settings", token, gin.H{"shop_name": "X", "currency": "$"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/reports/commissions?from=2026-03-01&to=2026-03-31", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := s.login(t, "marco", "admin-pass")
	w, _ = s.do(t, http.MethodGet, "/api/v1/reports/commissions?from=2026-03-01&to=2026-03-31", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRoutes_ExpensesAndSummary(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "marco", "admin-pass")
	employee := s.login(t, "lena", "lena-pass")

	w, _ := s.do(t, http.MethodPost, "/api/v1/expenses", employee, gin.H{"category": "Rent", "amount": "20"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/expenses", admin, gin.H{"category": "Rent", "amount": "0"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation", env.Reason)

	w, env = s.do(t, http.MethodPost, "/api/v1/expenses", admin, gin.H{"category": "Rent", "amount": "20", "description": "Chair"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var expense entity.Expense
	require.NoError(t, json.Unmarshal(env.Data, &expense))

	w, _ = s.do(t, http.MethodPost, "/api/v1/register/lines", employee, gin.H{"kind": "service", "item_id": "svc-cut"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/v1/register/checkout", employee, gin.H{"payment_method": "card"}, "Idempotency-Key", "k-3")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	s.tasks.Wait()

	w, env = s.do(t, http.MethodGet, "/api/v1/reports/summary?from=2026-03-01&to=2026-03-31", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary service.PeriodSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.SalesCount)
	assert.True(t, decimal.NewFromInt(55).Equal(summary.Revenue), "revenue %s", summary.Revenue)
	assert.True(t, decimal.NewFromInt(35).Equal(summary.NetProfit), "net %s", summary.NetProfit)

	w, _ = s.do(t, http.MethodGet, "/api/v1/reports/summary?from=2026-03-01&to=2026-03-31", employee, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/expenses/"+expense.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/api/v1/expenses/"+expense.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_ShellAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/index.html", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shell")

	w, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "trimtime_")
}
