package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3, cfg.Billing.ReminderDaysAhead)
	assert.Equal(t, 12, cfg.Billing.ProjectionMonths)
	assert.Equal(t, time.Hour, cfg.Billing.InvoiceCacheTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")
	t.Setenv("REMINDER_DAYS_AHEAD", "5")
	t.Setenv("INVOICE_CACHE_TTL", "30m")
	t.Setenv("BILLING_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 5, cfg.Billing.ReminderDaysAhead)
	assert.Equal(t, 30*time.Minute, cfg.Billing.InvoiceCacheTTL)
	assert.Equal(t, time.UTC, cfg.Billing.Location())
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("BILLING_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BILLING_TIMEZONE")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Database:  DatabaseConfig{Host: "localhost"},
			Scheduler: SchedulerConfig{Timezone: "UTC"},
			Billing:   BillingConfig{Timezone: "UTC", ReminderDaysAhead: 3, ProjectionMonths: 12},
		}
	}

	tests := []struct {
		name          string
		mutate        func(*Config)
		errorContains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, errorContains: "SERVER_PORT"},
		{name: "missing database", mutate: func(c *Config) { c.Database.Host = "" }, errorContains: "DATABASE_URL"},
		{name: "zero reminder window", mutate: func(c *Config) { c.Billing.ReminderDaysAhead = 0 }, errorContains: "REMINDER_DAYS_AHEAD"},
		{name: "zero projection", mutate: func(c *Config) { c.Billing.ProjectionMonths = 0 }, errorContains: "PROJECTION_MONTHS"},
		{name: "negative ttl", mutate: func(c *Config) { c.Billing.InvoiceCacheTTL = -time.Second }, errorContains: "INVOICE_CACHE_TTL"},
		{name: "bad scheduler zone", mutate: func(c *Config) { c.Scheduler.Timezone = "Nowhere/City" }, errorContains: "SCHEDULER_TIMEZONE"},
		{name: "smtp without recipients", mutate: func(c *Config) { c.Notifier.SMTPHost = "smtp.example.com" }, errorContains: "REMINDER_FROM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestDatabaseConfig_DSNFromParts(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5433", User: "app", Password: "secret", Name: "ledger", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=ledger sslmode=require", db.DSN())
}
