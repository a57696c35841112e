package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteDB(cfg.Path, debug)
	case "postgres", "":
		return NewPostgresDB(cfg, debug)
	default:
		return nil, fmt.Errorf("unknown database driver %q (use postgres or sqlite)", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(debug)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	slog.Info("connected to PostgreSQL database", "host", cfg.Host, "name", cfg.Name)
	return db, nil
}

// NewSQLiteDB opens a SQLite database, for a standalone register or tests.
// Use ":memory:" or a "file:...?mode=memory" DSN for an in-memory store.
func NewSQLiteDB(path string, debug bool) (*gorm.DB, error) {
	if path != ":memory:" && filepath.Dir(path) != "." && !isURI(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(debug)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows one writer; background writes queue behind it.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func isURI(path string) bool {
	return len(path) > 5 && path[:5] == "file:"
}

func logLevel(debug bool) logger.LogLevel {
	if debug {
		return logger.Info
	}
	return logger.Warn
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	slog.Info("running database migrations")

	err := db.AutoMigrate(
		// Synced collections
		&entity.Service{},
		&entity.Product{},
		&entity.Staff{},
		&entity.Customer{},

		// Sales log and expense ledger
		&entity.Sale{},
		&entity.Expense{},

		// System entities
		&entity.SettingsRecord{},
		&entity.IdempotencyKey{},
		&entity.ShellCacheEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the first admin and the default settings row when missing.
func SeedDefaultData(ctx context.Context, db *gorm.DB, admin config.AdminConfig) error {
	var count int64
	if err := db.WithContext(ctx).Model(&entity.SettingsRecord{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if count == 0 {
		rec := entity.SettingsRecord{ID: entity.ShopSettingsID, Data: entity.DefaultShopSettings()}
		if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		slog.Info("default shop settings created")
	}

	if admin.Username == "" || admin.Password == "" {
		return nil
	}

	var existing entity.Staff
	err := db.WithContext(ctx).Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		slog.Info("admin staff already exists", "username", admin.Username)
		return nil
	}

	name := admin.Name
	if name == "" {
		name = "Admin"
	}
	staff := entity.Staff{
		Name:       name,
		Username:   admin.Username,
		Role:       enum.StaffRoleAdmin,
		Commission: decimal.Zero,
	}
	if err := staff.SetPassword(admin.Password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.WithContext(ctx).Create(&staff).Error; err != nil {
		return fmt.Errorf("seed admin staff: %w", err)
	}

	slog.Info("admin staff created", "username", admin.Username)
	return nil
}
