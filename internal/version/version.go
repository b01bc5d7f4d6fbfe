// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// These are set via ldflags:
//
//	-X github.com/olegiv/academy/internal/version.Version=v1.2.3
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string `json:"version"`    // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"git_commit"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"build_time"` // Build timestamp in RFC3339 format
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
}

// String formats the info for the -version flag and startup log.
func (i Info) String() string {
	s := i.Version
	if s == "" {
		s = "dev"
	}
	if i.GitCommit != "" {
		s += " (" + i.GitCommit + ")"
	}
	if i.BuildTime != "" {
		s = fmt.Sprintf("%s built %s", s, i.BuildTime)
	}
	return s
}
