// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves visitor IPs to countries for the analytics rollup,
// backed by a MaxMind GeoLite2-Country database.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Lookup wraps a GeoLite2-Country reader. The zero value is disabled; call
// Init with a database path to enable lookups.
type Lookup struct {
	mu          sync.RWMutex
	db          *maxminddb.Reader
	dbPath      string
	dbModTime   time.Time
	initialized bool
	enabled     bool
}

// geoRecord maps the subset of the GeoLite2-Country schema we read.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

func NewLookup() *Lookup {
	return &Lookup{}
}

// Init loads the database at dbPath. An empty path disables lookups without
// error so analytics keeps working with blank country codes.
func (g *Lookup) Init(dbPath string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.initialized = true
	g.dbPath = dbPath
	if dbPath == "" {
		g.enabled = false
		return nil
	}
	return g.loadLocked()
}

// Reload re-opens the database if the file changed on disk. The scheduler
// calls this so a refreshed GeoLite2 download is picked up without a restart.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}
	return g.loadLocked()
}

// loadLocked opens or refreshes the reader. Caller holds the write lock.
func (g *Lookup) loadLocked() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		g.enabled = false
		if os.IsNotExist(err) {
			return fmt.Errorf("geoip database not found: %s", g.dbPath)
		}
		return fmt.Errorf("geoip database stat: %w", err)
	}

	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}
	if g.db != nil {
		_ = g.db.Close()
		g.db = nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		g.enabled = false
		return fmt.Errorf("opening geoip database: %w", err)
	}

	g.db = db
	g.dbModTime = info.ModTime()
	g.enabled = true
	return nil
}

// LookupCountry returns the two-letter ISO code for ip, "LOCAL" for private
// and loopback addresses, or "" when the IP is invalid or the database is
// unavailable.
func (g *Lookup) LookupCountry(ip string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.initialized {
		return ""
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsLinkLocalUnicast() {
		return "LOCAL"
	}
	if !g.enabled || g.db == nil {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// IsEnabled reports whether country lookups are available.
func (g *Lookup) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	g.enabled = false
	return err
}

// countryNames covers the visitor countries that actually show up in the
// summary dashboard. Unknown codes pass through as-is.
var countryNames = map[string]string{
	"LOCAL": "Local Network",
	"CO":    "Colombia",
	"VE":    "Venezuela",
	"EC":    "Ecuador",
	"PE":    "Peru",
	"PA":    "Panama",
	"CR":    "Costa Rica",
	"MX":    "Mexico",
	"GT":    "Guatemala",
	"HN":    "Honduras",
	"SV":    "El Salvador",
	"NI":    "Nicaragua",
	"DO":    "Dominican Republic",
	"CU":    "Cuba",
	"BR":    "Brazil",
	"AR":    "Argentina",
	"CL":    "Chile",
	"UY":    "Uruguay",
	"PY":    "Paraguay",
	"BO":    "Bolivia",
	"US":    "United States",
	"CA":    "Canada",
	"ES":    "Spain",
	"PT":    "Portugal",
	"GB":    "United Kingdom",
	"FR":    "France",
	"DE":    "Germany",
	"IT":    "Italy",
	"NL":    "Netherlands",
	"AU":    "Australia",
	"JP":    "Japan",
	"CN":    "China",
	"KR":    "South Korea",
	"IN":    "India",
}

// CountryName expands a two-letter code to a display name.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	if code == "" {
		return "Unknown"
	}
	return code
}
