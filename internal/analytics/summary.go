// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"database/sql"
	"time"

	"github.com/renacermascotas/renacer-go/internal/store"
)

// DefaultSummaryDays is the reporting window for the summary endpoint.
const DefaultSummaryDays = 30

// topLimit caps the ranked lists in the summary.
const topLimit = 10

// Summary is the aggregated traffic report for the admin dashboard.
type Summary struct {
	Days           int                `json:"days"`
	TotalViews     int64              `json:"total_views"`
	UniqueVisitors int64              `json:"unique_visitors"`
	ViewsByDay     []store.DailyViews `json:"views_by_day"`
	TopPages       []store.LabelCount `json:"top_pages"`
	TopCountries   []store.LabelCount `json:"top_countries"`
	Devices        []store.LabelCount `json:"devices"`
}

// Service produces traffic summaries and runs the daily rollup.
type Service struct {
	queries *store.Queries
}

// NewService creates an analytics Service.
func NewService(db *sql.DB) *Service {
	return &Service{queries: store.New(db)}
}

// Summarize builds the traffic report covering the last N days.
func (s *Service) Summarize(ctx context.Context, days int) (Summary, error) {
	if days < 1 {
		days = DefaultSummaryDays
	}
	since := timeNow().UTC().AddDate(0, 0, -days)

	totalViews, err := s.queries.CountPageViewsSince(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	uniqueVisitors, err := s.queries.CountUniqueVisitorsSince(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	viewsByDay, err := s.queries.ListDailyViews(ctx, since.Format("2006-01-02"))
	if err != nil {
		return Summary{}, err
	}
	topPages, err := s.queries.TopPagesSince(ctx, since, topLimit)
	if err != nil {
		return Summary{}, err
	}
	topCountries, err := s.queries.TopCountriesSince(ctx, since, topLimit)
	if err != nil {
		return Summary{}, err
	}
	devices, err := s.queries.DeviceBreakdownSince(ctx, since, topLimit)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Days:           days,
		TotalViews:     totalViews,
		UniqueVisitors: uniqueVisitors,
		ViewsByDay:     viewsByDay,
		TopPages:       topPages,
		TopCountries:   topCountries,
		Devices:        devices,
	}, nil
}

// AggregateDay rolls the raw page views for one calendar day (UTC) up into
// the daily table. Idempotent, so re-running for the same day is safe.
func (s *Service) AggregateDay(ctx context.Context, day time.Time) error {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.queries.AggregateDailyViews(ctx, start.Format("2006-01-02"), start, start.Add(24*time.Hour))
}

// CleanupRaw removes raw page views older than the retention window.
func (s *Service) CleanupRaw(ctx context.Context, retention time.Duration) (int64, error) {
	return s.queries.DeletePageViewsBefore(ctx, timeNow().UTC().Add(-retention))
}
