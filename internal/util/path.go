// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeFilename strips any directory components from filename, so
// inputs like "../../etc/passwd" reduce to their base name. An input with
// no usable base name is an error.
func SanitizeFilename(filename string) (string, error) {
	base := filepath.Base(filename)
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return base, nil
}

// ValidatePathWithinBase returns an error when targetPath resolves outside
// basePath. The comparison appends a separator so "/uploads-evil" does not
// pass for a base of "/uploads".
func ValidatePathWithinBase(basePath, targetPath string) error {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}
	absTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory %q", basePath)
	}
	return nil
}

// SafeJoinPath joins components onto basePath and rejects results that
// escape it.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	joined := filepath.Join(append([]string{basePath}, components...)...)
	if err := ValidatePathWithinBase(basePath, joined); err != nil {
		return "", err
	}
	return joined, nil
}
