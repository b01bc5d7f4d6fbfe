// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kvstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

// Dialect identifies the SQL flavour of a SQLStore.
type Dialect string

// Supported SQL dialects.
const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// gooseDialect returns the dialect name goose expects.
func (d Dialect) gooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return string(d)
}

func (d Dialect) upsertQuery() string {
	if d == DialectMySQL {
		return `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value), updated_at = VALUES(updated_at)`
	}
	return `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`
}

// SQLStore keeps values in the kv_entries table of a SQLite or MySQL database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	closed  atomic.Bool
}

// OpenSQLite opens (creating if needed) the SQLite database at path,
// applies pragmas and runs migrations.
func OpenSQLite(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// busy_timeout is per connection, so it goes into the DSN for every pooled conn.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Good balance of safety and speed
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return newSQLStore(db, DialectSQLite)
}

// OpenMySQL connects to the MySQL database described by dsn and runs migrations.
func OpenMySQL(dsn string) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql DSN: %w", err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newSQLStore(db, DialectMySQL)
}

func newSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := Migrate(db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// Migrate runs all pending migrations for dialect.
func Migrate(db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations/"+string(dialect)); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// DB returns the underlying database handle (used by the session store).
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's SQL dialect.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// Get retrieves the value stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT entry_value FROM kv_entries WHERE entry_key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if value == nil {
		value = []byte{}
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.upsertQuery(),
		key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE entry_key = ?", key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Keys returns the stored keys in ascending order.
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, "SELECT entry_key FROM kv_entries ORDER BY entry_key")
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	return keys, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
