package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("SCANNER_COOLDOWN", "2s")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Scanner.Cooldown)
	assert.Equal(t, 50*time.Millisecond, cfg.Scanner.KeyGap)
	assert.Equal(t, time.Hour, cfg.Session.ShortTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.RememberTTL)
	assert.Equal(t, 60*time.Second, cfg.Session.PollInterval)
	assert.Equal(t, "trimtime-v1", cfg.Shell.CacheVersion)
	assert.Equal(t, []string{"/", "/index.html", "/manifest.json"}, cfg.Shell.Precache)
	assert.Equal(t, 48, cfg.Printer.Width)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
