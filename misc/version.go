// Package misc keeps build time information about the program.
package misc

import (
	"runtime/debug"
	"strings"
)

const appName = "cssfig"

// set by the linker
var (
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash either injected at build time or recorded by
// the go toolchain in build info.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return strings.TrimSpace(s.Value)
			}
		}
	}
	return "unknown"
}
