// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import "testing"

func TestLookupCountry_Disabled(t *testing.T) {
	g := NewLookup()
	if err := g.Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() { _ = g.Close() }()

	if g.IsEnabled() {
		t.Error("lookup should be disabled without a database path")
	}

	// Private and loopback addresses resolve without the database.
	tests := []struct {
		ip   string
		want string
	}{
		{"192.168.1.10", "LOCAL"},
		{"10.0.0.1", "LOCAL"},
		{"127.0.0.1", "LOCAL"},
		{"not-an-ip", ""},
		{"8.8.8.8", ""}, // public IP, no database loaded
	}

	for _, tt := range tests {
		if got := g.LookupCountry(tt.ip); got != tt.want {
			t.Errorf("LookupCountry(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

func TestLookupCountry_Uninitialized(t *testing.T) {
	g := NewLookup()
	if got := g.LookupCountry("192.168.1.10"); got != "" {
		t.Errorf("uninitialized lookup should return empty, got %q", got)
	}
}

func TestInit_MissingDatabase(t *testing.T) {
	g := NewLookup()
	if err := g.Init("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Error("Init should report a missing database file")
	}
	if g.IsEnabled() {
		t.Error("lookup should stay disabled after a failed load")
	}
}

func TestCountryName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"CO", "Colombia"},
		{"LOCAL", "Local Network"},
		{"", "Unknown"},
		{"ZZ", "ZZ"},
	}

	for _, tt := range tests {
		if got := CountryName(tt.code); got != tt.want {
			t.Errorf("CountryName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
