// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	// unsafeFilenameChars matches everything outside the storage-safe charset.
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]+`)
	// multipleDashes matches runs of consecutive dashes
	multipleDashes = regexp.MustCompile(`-{2,}`)
)

// CleanFilename reduces an uploaded filename to the safe charset
// [a-zA-Z0-9.-]. Accented characters are transliterated to ASCII first so
// "fotografía año.jpg" becomes "fotografia-ano.jpg" rather than being
// stripped. Returns "file" for names with no usable characters.
func CleanFilename(name string) string {
	// Transliterate to ASCII (ñ -> n, é -> e, ...)
	result := unidecode.Unidecode(name)

	result = unsafeFilenameChars.ReplaceAllString(result, "-")
	result = multipleDashes.ReplaceAllString(result, "-")
	// Drop dashes stranded next to the extension dot
	result = strings.ReplaceAll(result, "-.", ".")
	result = strings.ReplaceAll(result, ".-", ".")
	result = strings.Trim(result, "-.")

	if result == "" {
		return "file"
	}
	return result
}
