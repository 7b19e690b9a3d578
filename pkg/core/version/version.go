// ============================================================================
// LexZig - Zig front end toolkit
// ============================================================================
//
// Package:     version
// Description: Central version management for all components
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version constants for all LexZig components
const (
	// Release version
	Platform = "0.1.0"

	// Component versions
	Engine  = "0.1.0"
	Server  = "0.1.0"
	GRPCAPI = "1.0.0"
	REPL    = "0.1.0"
)

// Set with -ldflags "-X github.com/msto63/lexzig/pkg/core/version.Commit=..."
var (
	Commit    = ""
	BuildDate = ""
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "engine":
		return Engine
	case "server":
		return Server
	case "grpc":
		return GRPCAPI
	case "repl":
		return REPL
	default:
		return Platform
	}
}

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get collects the build information. A missing commit is taken from the
// VCS stamp of the Go build when present.
func Get() Info {
	info := Info{
		Version:   Platform,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if info.Commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					info.Commit = shortCommit(s.Value)
				case "vcs.time":
					if info.BuildDate == "" {
						info.BuildDate = s.Value
					}
				}
			}
		}
	}
	return info
}

// String returns a one-line description
func (i Info) String() string {
	s := fmt.Sprintf("lexzig %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	if i.Commit != "" {
		s += " commit " + i.Commit
	}
	if i.BuildDate != "" {
		s += " built " + i.BuildDate
	}
	return s
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
