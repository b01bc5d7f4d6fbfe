// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Store drivers.
const (
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env           string `env:"ACADEMY_ENV" envDefault:"development"`
	LogLevel      string `env:"ACADEMY_LOG_LEVEL" envDefault:"info"`
	ServerHost    string `env:"ACADEMY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ACADEMY_SERVER_PORT" envDefault:"8080"`
	SessionSecret string `env:"ACADEMY_SESSION_SECRET,required"`

	// Store configuration
	StoreDriver string `env:"ACADEMY_STORE_DRIVER" envDefault:"sqlite"`
	DBPath      string `env:"ACADEMY_DB_PATH" envDefault:"./data/academy.db"`
	MySQLDSN    string `env:"ACADEMY_MYSQL_DSN"`
	RedisURL    string `env:"ACADEMY_REDIS_URL"`
	StorePrefix string `env:"ACADEMY_STORE_PREFIX" envDefault:"academy:"` // Redis key prefix

	DefaultLanguage string `env:"ACADEMY_DEFAULT_LANGUAGE" envDefault:"ar"`

	// Bootstrap admin, created when the store holds no admin
	DefaultAdminUsername string `env:"ACADEMY_DEFAULT_ADMIN_USERNAME" envDefault:"admin"`
	DefaultAdminPassword string `env:"ACADEMY_DEFAULT_ADMIN_PASSWORD" envDefault:"admin123"`

	// Backups
	BackupDir      string `env:"ACADEMY_BACKUP_DIR" envDefault:"./backups"`
	BackupSchedule string `env:"ACADEMY_BACKUP_SCHEDULE"` // cron spec, empty disables backups
	BackupKeep     int    `env:"ACADEMY_BACKUP_KEEP" envDefault:"7"`

	LoginMaxAttempts int `env:"ACADEMY_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// BackupsEnabled returns true if a backup schedule is configured.
func (c Config) BackupsEnabled() bool {
	return c.BackupSchedule != ""
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the secret and the driver-specific settings.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("ACADEMY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	if slices.Contains(knownWeakSecrets, c.SessionSecret) {
		return fmt.Errorf("ACADEMY_SESSION_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("ACADEMY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch c.StoreDriver {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("ACADEMY_DB_PATH is required for the sqlite store")
		}
	case StoreMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("ACADEMY_MYSQL_DSN is required for the mysql store")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("ACADEMY_REDIS_URL is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("ACADEMY_STORE_DRIVER %q is not one of sqlite, mysql, redis, memory", c.StoreDriver)
	}

	if c.DefaultLanguage != "ar" && c.DefaultLanguage != "en" {
		return fmt.Errorf("ACADEMY_DEFAULT_LANGUAGE must be ar or en, got %q", c.DefaultLanguage)
	}

	if c.DefaultAdminUsername == "" || c.DefaultAdminPassword == "" {
		return fmt.Errorf("ACADEMY_DEFAULT_ADMIN_USERNAME and ACADEMY_DEFAULT_ADMIN_PASSWORD must not be empty")
	}
	if !c.IsDevelopment() && c.DefaultAdminPassword == "admin123" {
		slog.Warn("ACADEMY_DEFAULT_ADMIN_PASSWORD uses the built-in default; change the admin credentials after first login")
	}

	if c.BackupSchedule != "" {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			return fmt.Errorf("ACADEMY_BACKUP_SCHEDULE is not a valid cron expression: %w", err)
		}
		if c.BackupKeep < 1 {
			return fmt.Errorf("ACADEMY_BACKUP_KEEP must be at least 1, got %d", c.BackupKeep)
		}
	}

	if c.LoginMaxAttempts < 1 {
		return fmt.Errorf("ACADEMY_LOGIN_MAX_ATTEMPTS must be at least 1, got %d", c.LoginMaxAttempts)
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
