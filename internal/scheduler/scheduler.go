// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: the daily analytics
// rollup, raw page-view retention, event log cleanup and the orphan media
// sweep.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/renacermascotas/renacer-go/internal/analytics"
	"github.com/renacermascotas/renacer-go/internal/geoip"
	"github.com/renacermascotas/renacer-go/internal/service"
)

// Retention windows for periodic cleanup.
const (
	// RawViewRetention keeps raw page views for a week; older traffic
	// survives only in the daily rollup.
	RawViewRetention = 7 * 24 * time.Hour
	// EventRetention keeps the event log for 90 days.
	EventRetention = 90 * 24 * time.Hour
	// OrphanGracePeriod protects fresh uploads that have not been
	// attached to a content row yet.
	OrphanGracePeriod = 24 * time.Hour
)

// Scheduler owns the cron runner and its registered jobs.
type Scheduler struct {
	cron      *cron.Cron
	analytics *analytics.Service
	media     *service.MediaService
	events    *service.EventService
	geo       *geoip.Lookup
	logger    *slog.Logger
}

// New creates a scheduler wired to the maintenance services. geo may be nil
// when country lookups are not configured.
func New(a *analytics.Service, media *service.MediaService, events *service.EventService, geo *geoip.Lookup, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		analytics: a,
		media:     media,
		events:    events,
		geo:       geo,
		logger:    logger,
	}
}

// Start registers the maintenance jobs and begins the cron runner.
func (s *Scheduler) Start() error {
	// Daily at 00:15: roll yesterday's raw views into the daily table.
	if _, err := s.cron.AddFunc("15 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := s.analytics.AggregateDay(ctx, time.Now().UTC().AddDate(0, 0, -1)); err != nil {
			s.logger.Error("daily analytics rollup failed", "error", err)
		}
	}); err != nil {
		return err
	}

	// Daily at 00:30: drop raw views past the retention window.
	if _, err := s.cron.AddFunc("30 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		removed, err := s.analytics.CleanupRaw(ctx, RawViewRetention)
		if err != nil {
			s.logger.Error("page view cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			s.logger.Info("page view cleanup complete", "removed", removed)
		}
	}); err != nil {
		return err
	}

	// Daily at 01:00: sweep uploads no content row references.
	if _, err := s.cron.AddFunc("0 1 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		removed, err := s.media.SweepOrphans(ctx, time.Now().Add(-OrphanGracePeriod))
		if err != nil {
			s.logger.Error("orphan media sweep failed", "error", err)
			return
		}
		if removed > 0 {
			s.logger.Info("orphan media sweep complete", "removed", removed)
		}
	}); err != nil {
		return err
	}

	// Weekly on Sunday at 02:00: trim the event log.
	if _, err := s.cron.AddFunc("0 2 * * 0", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		removed, err := s.events.DeleteOldEvents(ctx, EventRetention)
		if err != nil {
			s.logger.Error("event log cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			s.logger.Info("event log cleanup complete", "removed", removed)
		}
	}); err != nil {
		return err
	}

	// Daily at 03:00: pick up a refreshed GeoLite2 database if one was
	// downloaded over the old file.
	if s.geo != nil {
		if _, err := s.cron.AddFunc("0 3 * * *", func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("geoip database reload failed", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
