// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries build metadata injected through ldflags.
package version

// Info describes the running binary.
type Info struct {
	Version   string // semantic version from git tags, "dev" for local builds
	GitCommit string // short commit hash
	BuildTime string // RFC3339 build timestamp
}

// String formats the info for the --version flag and startup log line.
func (i Info) String() string {
	return i.Version + " (commit: " + i.GitCommit + ", built: " + i.BuildTime + ")"
}
