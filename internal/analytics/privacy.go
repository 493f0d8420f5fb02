// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics provides privacy-preserving page view tracking and the
// aggregated traffic summary. No raw IP addresses or cookies are stored:
// visitors are identified by a salted hash that rotates daily.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"sync"
	"time"
)

// timeNow is a variable so it can be mocked in tests.
var timeNow = time.Now

// saltSource generates the daily rotating salt.
type saltSource struct {
	mu   sync.Mutex
	salt string
	day  string
}

// current returns the salt for today, rotating it at the day boundary.
// Rotation makes visitor hashes unlinkable across days.
func (s *saltSource) current() string {
	today := timeNow().Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.day != today || s.salt == "" {
		s.salt = generateRandomSalt()
		s.day = today
	}
	return s.salt
}

// generateRandomSalt generates a random salt for hashing.
func generateRandomSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based salt if crypto/rand fails
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}

// anonymizeIP masks the IP address before hashing.
// For IPv4: zeros the last octet (192.168.1.100 -> 192.168.1.0).
// For IPv6: zeros the last 80 bits.
func anonymizeIP(ip string) string {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return ""
	}

	if v4 := parsedIP.To4(); v4 != nil {
		masked := v4.Mask(net.CIDRMask(24, 32))
		return masked.String()
	}

	masked := parsedIP.Mask(net.CIDRMask(48, 128))
	return masked.String()
}

// visitorHash creates the anonymized daily visitor fingerprint from the
// masked IP and user agent.
func visitorHash(salt, ip, userAgent string) string {
	anonIP := anonymizeIP(ip)
	date := timeNow().Format("2006-01-02")

	hasher := sha256.New()
	hasher.Write([]byte(anonIP + userAgent + date + "visitor" + salt))
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
