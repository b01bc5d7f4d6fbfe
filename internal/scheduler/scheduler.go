// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic store backup.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/transfer"
	"github.com/olegiv/academy/internal/util"
)

const (
	backupPrefix     = "academy-"
	backupSuffix     = ".json"
	backupTimeLayout = "20060102T150405Z"
	backupTimeout    = 5 * time.Minute
)

// Exporter writes a snapshot of the store to a file.
type Exporter interface {
	ExportToFile(ctx context.Context, path string) (*transfer.ExportData, error)
}

// Config configures the backup job.
type Config struct {
	Dir      string // Directory holding the backups
	Schedule string // Standard cron spec
	Keep     int    // Number of backups retained
}

// Scheduler writes snapshots on a cron schedule and prunes old ones.
type Scheduler struct {
	cron     *cron.Cron
	exporter Exporter
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.Mutex // Serializes backup runs
}

// New creates a new scheduler instance.
func New(exporter Exporter, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Keep < 1 {
		cfg.Keep = 1
	}
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the backup job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		if _, err := s.RunBackup(ctx); err != nil {
			s.logger.Error("scheduled backup failed", "category", model.EventCategoryStore, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling backup %q: %w", s.cfg.Schedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.cfg.Schedule, "dir", s.cfg.Dir, "keep", s.cfg.Keep)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running backup.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// NextRun returns when the backup runs next, or the zero time before Start.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunBackup writes one snapshot now and prunes backups beyond the
// retention count. It returns the path written.
func (s *Scheduler) RunBackup(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := backupPrefix + s.now().UTC().Format(backupTimeLayout) + backupSuffix
	path, err := util.SafeJoinPath(s.cfg.Dir, name)
	if err != nil {
		return "", fmt.Errorf("building backup path: %w", err)
	}

	if _, err := s.exporter.ExportToFile(ctx, path); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	removed, err := s.prune()
	if err != nil {
		// The backup itself is written; only retention failed.
		s.logger.WarnContext(ctx, "pruning old backups failed", "category", model.EventCategoryStore, "error", err)
	}

	s.logger.InfoContext(ctx, "backup written", "category", model.EventCategoryStore, "path", path, "pruned", removed)
	return path, nil
}

// Backups lists the backup files, oldest first.
func (s *Scheduler) Backups() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			names = append(names, name)
		}
	}
	// Timestamps in the names sort chronologically.
	slices.Sort(names)
	return names, nil
}

func (s *Scheduler) prune() (int, error) {
	names, err := s.Backups()
	if err != nil {
		return 0, err
	}

	removed := 0
	for len(names)-removed > s.cfg.Keep {
		path, err := util.SafeJoinPath(s.cfg.Dir, names[removed])
		if err != nil {
			return removed, err
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", names[removed], err)
		}
		removed++
	}
	return removed, nil
}
