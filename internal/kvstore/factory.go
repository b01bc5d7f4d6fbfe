// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kvstore

import (
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds configuration for store creation.
type Config struct {
	// Driver is the backend: "sqlite", "mysql", "redis" or "memory".
	Driver string

	// SQLitePath is the database file (sqlite driver).
	SQLitePath string

	// MySQLDSN is the data source name (mysql driver).
	MySQLDSN string

	// RedisURL is the connection URL (redis driver).
	RedisURL string

	// Prefix is the key prefix (redis driver).
	Prefix string
}

// Open creates the store selected by cfg.Driver.
func Open(cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		store, err = OpenSQLite(cfg.SQLitePath)
	case DriverMySQL:
		store, err = OpenMySQL(cfg.MySQLDSN)
	case DriverRedis:
		opts := DefaultRedisOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		store, err = NewRedisStore(opts)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Driver, err)
	}
	return store, nil
}
