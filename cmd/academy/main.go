// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command academy serves the academy JSON API and imports or exports the
// store contents.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/academy/internal/auth"
	"github.com/olegiv/academy/internal/config"
	"github.com/olegiv/academy/internal/handler"
	"github.com/olegiv/academy/internal/i18n"
	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/logging"
	"github.com/olegiv/academy/internal/middleware"
	"github.com/olegiv/academy/internal/repository"
	"github.com/olegiv/academy/internal/scheduler"
	"github.com/olegiv/academy/internal/session"
	"github.com/olegiv/academy/internal/transfer"
	"github.com/olegiv/academy/internal/version"
)

// options are the command line flags.
type options struct {
	importPath string
	exportPath string
	replace    bool
	dryRun     bool
}

func main() {
	var opts options

	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.StringVar(&opts.importPath, "import", "", "Import a snapshot or browser dump from `file` and exit")
	flag.StringVar(&opts.exportPath, "export", "", "Export the store to `file` and exit")
	flag.BoolVar(&opts.replace, "replace", false, "With -import: replace collections instead of merging")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "With -import: report what would change without writing")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "academy - Quran academy site back end\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ACADEMY_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ACADEMY_STORE_DRIVER     sqlite|mysql|redis|memory (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ACADEMY_DB_PATH          SQLite database path (default: ./data/academy.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ACADEMY_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ACADEMY_ENV              development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ACADEMY_BACKUP_SCHEDULE  Cron spec for backups (default: disabled)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("academy %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(opts); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	if err := i18n.Init(logger, cfg.DefaultLanguage); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	slog.Info("opening store", "driver", cfg.StoreDriver)
	store, err := kvstore.Open(kvstore.Config{
		Driver:     cfg.StoreDriver,
		SQLitePath: cfg.DBPath,
		MySQLDSN:   cfg.MySQLDSN,
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.StorePrefix,
	})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	// Upgrade logger to also write audit entries to the events collection
	events := repository.New(store, nil, repository.WithLogger(logger)).Events
	logger = slog.New(logging.NewEventLogHandler(textHandler, events))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()

	if opts.importPath != "" {
		return runImport(ctx, store, logger, opts)
	}
	if opts.exportPath != "" {
		return runExport(ctx, store, logger, opts.exportPath)
	}

	repos := repository.New(store, auth.Hasher{}, repository.WithLogger(logger))

	sessionManager := session.New(sessionDB(store), cfg.IsDevelopment())
	authService := auth.NewService(repos.Users, session.NewHolder(sessionManager), auth.Config{
		DefaultAdmin: auth.Credentials{
			Username: cfg.DefaultAdminUsername,
			Password: cfg.DefaultAdminPassword,
		},
		Logger: logger,
	})
	if _, err := authService.EnsureDefaultAdmin(ctx); err != nil {
		return err
	}

	exporter := transfer.NewExporter(store, logger)

	if cfg.BackupsEnabled() {
		sched := scheduler.New(exporter, scheduler.Config{
			Dir:      cfg.BackupDir,
			Schedule: cfg.BackupSchedule,
			Keep:     cfg.BackupKeep,
		}, logger)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	protectionCfg := middleware.DefaultLoginProtectionConfig()
	protectionCfg.MaxFailedAttempts = cfg.LoginMaxAttempts
	loginProtection := middleware.NewLoginProtection(protectionCfg)
	defer loginProtection.Stop()

	router := handler.NewRouter(handler.Deps{
		Store:      store,
		Repos:      repos,
		Auth:       authService,
		Sessions:   sessionManager,
		Exporter:   exporter,
		Protection: loginProtection,
		CSRFKey:    []byte(cfg.SessionSecret),
		IsDev:      cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// sessionDB returns the database sessions are kept in. Only the SQLite
// store shares its database; other drivers keep sessions in memory.
func sessionDB(store kvstore.Store) *sql.DB {
	if s, ok := store.(*kvstore.SQLStore); ok && s.Dialect() == kvstore.DialectSQLite {
		return s.DB()
	}
	return nil
}

func runImport(ctx context.Context, store kvstore.Store, logger *slog.Logger, opts options) error {
	importer := transfer.NewImporter(store, logger)
	result, err := importer.ImportFromFile(ctx, opts.importPath, transfer.ImportOptions{
		Replace: opts.replace,
		DryRun:  opts.dryRun,
	})
	if err != nil {
		return fmt.Errorf("importing %s: %w", opts.importPath, err)
	}

	for _, key := range transfer.Collections {
		if n, ok := result.Imported[key]; ok {
			_, _ = fmt.Printf("%-12s imported %d, skipped %d\n", key, n, result.Skipped[key])
		}
	}
	for _, key := range result.Ignored {
		_, _ = fmt.Printf("%-12s ignored\n", key)
	}
	for _, e := range result.Errors {
		_, _ = fmt.Printf("%-12s error: %s\n", e.Key, e.Message)
	}
	_, _ = fmt.Printf("%d records imported\n", result.TotalImported())
	if result.DryRun {
		_, _ = fmt.Println("dry run: nothing was written")
	}
	return nil
}

func runExport(ctx context.Context, store kvstore.Store, logger *slog.Logger, path string) error {
	data, err := transfer.NewExporter(store, logger).ExportToFile(ctx, path)
	if err != nil {
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	_, _ = fmt.Printf("exported %d collections to %s\n", len(data.Collections), path)
	return nil
}
