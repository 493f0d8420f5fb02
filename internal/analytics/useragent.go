// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"github.com/mileusna/useragent"
)

// parsedUA holds the browser and device type extracted from a user agent.
type parsedUA struct {
	Browser    string
	DeviceType string
}

// parseUserAgent extracts browser and device type from a user agent string.
func parseUserAgent(uaString string) parsedUA {
	ua := useragent.Parse(uaString)

	result := parsedUA{Browser: ua.Name}
	if result.Browser == "" {
		result.Browser = "Unknown"
	}

	switch {
	case ua.Mobile:
		result.DeviceType = "mobile"
	case ua.Tablet:
		result.DeviceType = "tablet"
	case ua.Bot:
		result.DeviceType = "bot"
	default:
		result.DeviceType = "desktop"
	}

	return result
}
