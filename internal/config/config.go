package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Email     EmailConfig
	Shell     ShellConfig
	Scanner   ScannerConfig
	Catalog   CatalogConfig
	Remote    RemoteConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Path     string // sqlite file
}

type SessionConfig struct {
	Secret       string
	ShortTTL     time.Duration
	RememberTTL  time.Duration
	PollInterval time.Duration
	SlotPath     string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type    string // usb, network or none
	USBPath string
	Address string
	Width   int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type ShellConfig struct {
	Enabled      bool
	OriginURL    string
	CacheVersion string
	Precache     []string
}

type ScannerConfig struct {
	DevicePath string
	Cooldown   time.Duration
	KeyGap     time.Duration
}

type CatalogConfig struct {
	DiscountPath string
}

type RemoteConfig struct {
	WriteTimeout time.Duration
}

type AdminConfig struct {
	Username string
	Password string
	Name     string
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "trimtime-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "trimtime")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_PATH", "./storage/trimtime.db")
	viper.SetDefault("SESSION_SECRET", "change-this-secret-in-production")
	viper.SetDefault("SESSION_TTL", "1h")
	viper.SetDefault("SESSION_REMEMBER_TTL", "720h")
	viper.SetDefault("SESSION_POLL_INTERVAL", "60s")
	viper.SetDefault("SESSION_SLOT_PATH", "./storage/session.jwt")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 48)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM_NAME", "TrimTime")
	viper.SetDefault("SHELL_ENABLED", false)
	viper.SetDefault("SHELL_ORIGIN_URL", "http://localhost:3000")
	viper.SetDefault("SHELL_CACHE_VERSION", "trimtime-v1")
	viper.SetDefault("SHELL_PRECACHE", []string{"/", "/index.html", "/manifest.json"})
	viper.SetDefault("SCANNER_COOLDOWN", "1500ms")
	viper.SetDefault("SCANNER_KEY_GAP", "50ms")
	viper.SetDefault("DISCOUNT_CATALOG_PATH", "")
	viper.SetDefault("REMOTE_WRITE_TIMEOUT", "10s")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_NAME", "Admin")
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, using environment variables", "error", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Path:     viper.GetString("DB_PATH"),
		},
		Session: SessionConfig{
			Secret:       viper.GetString("SESSION_SECRET"),
			ShortTTL:     viper.GetDuration("SESSION_TTL"),
			RememberTTL:  viper.GetDuration("SESSION_REMEMBER_TTL"),
			PollInterval: viper.GetDuration("SESSION_POLL_INTERVAL"),
			SlotPath:     viper.GetString("SESSION_SLOT_PATH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("MAIL_FROM_NAME"),
			FromEmail:    viper.GetString("MAIL_FROM_ADDRESS"),
		},
		Shell: ShellConfig{
			Enabled:      viper.GetBool("SHELL_ENABLED"),
			OriginURL:    viper.GetString("SHELL_ORIGIN_URL"),
			CacheVersion: viper.GetString("SHELL_CACHE_VERSION"),
			Precache:     viper.GetStringSlice("SHELL_PRECACHE"),
		},
		Scanner: ScannerConfig{
			DevicePath: viper.GetString("SCANNER_DEVICE"),
			Cooldown:   viper.GetDuration("SCANNER_COOLDOWN"),
			KeyGap:     viper.GetDuration("SCANNER_KEY_GAP"),
		},
		Catalog: CatalogConfig{
			DiscountPath: viper.GetString("DISCOUNT_CATALOG_PATH"),
		},
		Remote: RemoteConfig{
			WriteTimeout: viper.GetDuration("REMOTE_WRITE_TIMEOUT"),
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
