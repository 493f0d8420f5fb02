// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const insertPageView = `
INSERT INTO page_views (path, visitor_hash, country, device, browser, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

// InsertPageViewParams holds one anonymized page view record.
type InsertPageViewParams struct {
	Path        string
	VisitorHash string
	Country     string
	Device      string
	Browser     string
	CreatedAt   time.Time
}

// InsertPageView records a single page view.
func (q *Queries) InsertPageView(ctx context.Context, arg InsertPageViewParams) error {
	_, err := q.db.ExecContext(ctx, insertPageView,
		arg.Path, arg.VisitorHash, arg.Country, arg.Device, arg.Browser, arg.CreatedAt)
	return err
}

const countPageViewsSince = `SELECT COUNT(*) FROM page_views WHERE created_at >= ?`

// CountPageViewsSince returns the number of raw page views since the cutoff.
func (q *Queries) CountPageViewsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPageViewsSince, since).Scan(&count)
	return count, err
}

const countUniqueVisitorsSince = `
SELECT COUNT(DISTINCT visitor_hash) FROM page_views WHERE created_at >= ?`

// CountUniqueVisitorsSince returns the number of distinct visitor hashes
// seen since the cutoff. Hashes rotate daily, so this is an approximation
// over multi-day windows.
func (q *Queries) CountUniqueVisitorsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUniqueVisitorsSince, since).Scan(&count)
	return count, err
}

// DailyViews is one day's aggregated traffic.
type DailyViews struct {
	Day            string `json:"day"`
	Views          int64  `json:"views"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

const listDailyViews = `
SELECT day, SUM(views), SUM(unique_visitors)
FROM page_view_daily
WHERE day >= ?
GROUP BY day
ORDER BY day
`

// ListDailyViews returns per-day totals from the daily rollup table,
// starting at the given day (YYYY-MM-DD).
func (q *Queries) ListDailyViews(ctx context.Context, sinceDay string) ([]DailyViews, error) {
	rows, err := q.db.QueryContext(ctx, listDailyViews, sinceDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []DailyViews{}
	for rows.Next() {
		var d DailyViews
		if err := rows.Scan(&d.Day, &d.Views, &d.UniqueVisitors); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// LabelCount pairs a grouping label (path, country, device) with a view count.
type LabelCount struct {
	Label string `json:"label"`
	Views int64  `json:"views"`
}

const topPagesSince = `
SELECT path, COUNT(*) AS views FROM page_views
WHERE created_at >= ?
GROUP BY path
ORDER BY views DESC, path
LIMIT ?
`

// TopPagesSince returns the most viewed paths since the cutoff.
func (q *Queries) TopPagesSince(ctx context.Context, since time.Time, limit int64) ([]LabelCount, error) {
	return q.labelCounts(ctx, topPagesSince, since, limit)
}

const topCountriesSince = `
SELECT country, COUNT(*) AS views FROM page_views
WHERE created_at >= ? AND country != ''
GROUP BY country
ORDER BY views DESC, country
LIMIT ?
`

// TopCountriesSince returns the most frequent visitor countries since the cutoff.
func (q *Queries) TopCountriesSince(ctx context.Context, since time.Time, limit int64) ([]LabelCount, error) {
	return q.labelCounts(ctx, topCountriesSince, since, limit)
}

const deviceBreakdownSince = `
SELECT device, COUNT(*) AS views FROM page_views
WHERE created_at >= ? AND device != ''
GROUP BY device
ORDER BY views DESC, device
LIMIT ?
`

// DeviceBreakdownSince returns view counts grouped by device type.
func (q *Queries) DeviceBreakdownSince(ctx context.Context, since time.Time, limit int64) ([]LabelCount, error) {
	return q.labelCounts(ctx, deviceBreakdownSince, since, limit)
}

func (q *Queries) labelCounts(ctx context.Context, query string, since time.Time, limit int64) ([]LabelCount, error) {
	rows, err := q.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []LabelCount{}
	for rows.Next() {
		var c LabelCount
		if err := rows.Scan(&c.Label, &c.Views); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const aggregateDailyViews = `
INSERT OR REPLACE INTO page_view_daily (day, path, views, unique_visitors)
SELECT ?, path, COUNT(*), COUNT(DISTINCT visitor_hash)
FROM page_views
WHERE created_at >= ? AND created_at < ?
GROUP BY path
`

// AggregateDailyViews rolls raw page views for one calendar day up into
// page_view_daily. The day is given as YYYY-MM-DD with its UTC bounds.
func (q *Queries) AggregateDailyViews(ctx context.Context, day string, start, end time.Time) error {
	_, err := q.db.ExecContext(ctx, aggregateDailyViews, day, start, end)
	return err
}

const deletePageViewsBefore = `DELETE FROM page_views WHERE created_at < ?`

// DeletePageViewsBefore removes raw page views older than the cutoff.
// Aggregated daily rows are kept.
func (q *Queries) DeletePageViewsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePageViewsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
