package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/pricing"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/application/session"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/infrastructure/database"
	"github.com/sangkips/trimtime-pos/internal/infrastructure/repository"
	slotstore "github.com/sangkips/trimtime-pos/internal/infrastructure/session"
	"github.com/sangkips/trimtime-pos/internal/metrics"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/handler"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/middleware"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/routes"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/email"
	"github.com/sangkips/trimtime-pos/pkg/printer"
	"github.com/sangkips/trimtime-pos/pkg/scanner"
	"github.com/sangkips/trimtime-pos/pkg/shellcache"
)

const (
	shutdownTimeout       = 15 * time.Second
	idempotencyPurgeEvery = time.Hour
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the register API",
		Long: `Start the register HTTP API.

Collections are loaded from the database, the saved session is restored
and the barcode device, discount catalog and application shell are
attached when configured.

Example:
  trimtime serve
  trimtime serve --port 9090 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (default APP_PORT)")

	return cmd
}

func runServe(parent context.Context, opts *ServeOptions) error {
	cfg := config.Load()
	logger := setupLogger(cfg, opts.Verbose)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if err := database.SeedDefaultData(ctx, db, cfg.Admin); err != nil {
		logger.Warn("failed to seed default data", "error", err)
	}

	clk := clock.NewSystem()
	m := metrics.New()
	tasks := background.New(cfg.Remote.WriteTimeout, logger, background.WithObserver(m))

	// Repositories
	serviceRepo := repository.NewServiceRepository(db)
	productRepo := repository.NewProductRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	sessions := session.NewManager(cfg.Session, slotstore.NewFileSlot(cfg.Session.SlotPath), clk,
		session.OnExpire(m.SessionExpired))

	discounts, err := loadDiscounts(ctx, cfg.Catalog, logger)
	if err != nil {
		return err
	}

	// Services
	catalogService := service.NewCatalogService(serviceRepo, productRepo, tasks)
	customerService := service.NewCustomerService(customerRepo, tasks, clk)
	staffService := service.NewStaffService(staffRepo, sessions, tasks)
	settingsService := service.NewSettingsService(settingsRepo, tasks)
	saleService := service.NewSaleService(saleRepo, catalogService, tasks, clk, m)
	registerService := service.NewRegisterService(service.RegisterDeps{
		Clock:     clk,
		Catalog:   catalogService,
		Customers: customerService,
		Staff:     staffService,
		Discounts: discounts,
		Settings:  settingsService,
		Sales:     saleService,
		Metrics:   m,
		Scanner:   cfg.Scanner,
	})
	authService := service.NewAuthService(staffService, sessions)
	expenseService := service.NewExpenseService(expenseRepo, tasks, clk)
	reportService := service.NewReportService(saleRepo, staffService, expenseService)

	loaders := []struct {
		name string
		load func(context.Context) error
	}{
		{"settings", settingsService.Load},
		{"catalog", catalogService.Load},
		{"staff", staffService.Load},
		{"customers", customerService.Load},
		{"expenses", expenseService.Load},
	}
	for _, l := range loaders {
		if err := l.load(ctx); err != nil {
			return fmt.Errorf("load %s: %w", l.name, err)
		}
	}

	if err := sessions.Restore(); err != nil {
		logger.Info("no session restored", "error", err)
	}
	go sessions.Watch(ctx, cfg.Session.PollInterval)

	attachScanner(ctx, cfg.Scanner, registerService, sessions, logger)

	// Thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		logger.Warn("failed to initialize printer", "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})
	printerService := service.NewPrinterService(thermalPrinter, emailService, saleService, staffService,
		customerService, settingsService, cfg.Printer.Width)

	shell := setupShell(ctx, cfg.Shell, repository.NewShellCacheRepository(db), nil, logger)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	defer rateLimiter.Close()
	go middleware.PurgeIdempotencyKeys(ctx, idempotencyRepo, clk, idempotencyPurgeEvery)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService, staffService),
		Catalog:  handler.NewCatalogHandler(catalogService, discounts),
		Staff:    handler.NewStaffHandler(staffService),
		Customer: handler.NewCustomerHandler(customerService),
		Settings: handler.NewSettingsHandler(settingsService),
		Register: handler.NewRegisterHandler(registerService),
		Sale:     handler.NewSaleHandler(saleService, printerService),
		Report:   handler.NewReportHandler(reportService),
		Expense:  handler.NewExpenseHandler(expenseService),
	}
	deps := &routes.Deps{
		Sessions:        sessions,
		Cfg:             cfg,
		Clock:           clk,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         m.Handler(),
		Shell:           shell,
	}
	router := routes.Setup(handlers, deps)

	port := opts.Port
	if port == "" {
		port = cfg.App.Port
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := tasks.Drain(shutdownCtx); err != nil {
		logger.Warn("background writes still running at exit", "error", err)
	}
	for _, f := range tasks.Failures() {
		logger.Warn("unsynced remote write", "error", f)
	}
	return nil
}

// loadDiscounts builds the discount catalog from the configured file, or the
// built-in codes, and keeps it in sync with the file.
func loadDiscounts(ctx context.Context, cfg config.CatalogConfig, logger *slog.Logger) (*pricing.Catalog, error) {
	discounts := pricing.NewCatalog(pricing.DefaultCodes()...)
	if cfg.DiscountPath == "" {
		return discounts, nil
	}

	codes, err := pricing.LoadCatalogFile(cfg.DiscountPath)
	if err != nil {
		return nil, fmt.Errorf("load discount catalog: %w", err)
	}
	discounts.Replace(codes)

	if err := discounts.Watch(ctx, cfg.DiscountPath, logger); err != nil {
		logger.Warn("discount catalog will not reload", "path", cfg.DiscountPath, "error", err)
	}
	return discounts, nil
}

// attachScanner feeds a line-oriented barcode device into the register of
// whoever is logged in. Without a device, manual entry still works.
func attachScanner(ctx context.Context, cfg config.ScannerConfig, register *service.RegisterService, sessions *session.Manager, logger *slog.Logger) {
	src, err := scanner.Open(cfg.DevicePath)
	if err != nil {
		appErr := apperror.NewCapabilityUnavailable("Barcode scanner", err)
		logger.Info(appErr.Message, "reason", appErr.Reason)
		return
	}

	operator := func() (entity.Staff, bool) {
		sess, ok := sessions.Current()
		return sess.Staff, ok
	}
	go func() {
		if err := register.RunDevice(ctx, src, operator); err != nil {
			logger.Warn("barcode scanner stopped", "device", cfg.DevicePath, "error", err)
		}
	}()
	logger.Info("barcode scanner attached", "device", cfg.DevicePath)
}

// setupShell opens the persisted shell cache, installs the current version
// and drops older ones. When the origin cannot be reached the cache still
// serves whatever an earlier run stored. A nil client uses http.DefaultClient.
func setupShell(ctx context.Context, cfg config.ShellConfig, backend shellcache.Backend, client *http.Client, logger *slog.Logger) http.Handler {
	if !cfg.Enabled {
		return nil
	}

	store, err := shellcache.OpenStore(ctx, backend)
	if err != nil {
		logger.Warn("persisted shell cache unavailable", "error", err)
		store = shellcache.NewStore()
	}
	cache, err := shellcache.New(cfg.OriginURL, cfg.CacheVersion, cfg.Precache, client, store)
	if err != nil {
		logger.Warn("application shell disabled", "error", err)
		return nil
	}
	if err := cache.Install(ctx); err != nil {
		logger.Warn("shell precache failed, serving from origin", "version", cache.Version(), "error", err)
		return cache
	}
	if _, err := cache.Activate(ctx); err != nil {
		logger.Warn("old shell caches kept", "error", err)
	}
	return cache
}
