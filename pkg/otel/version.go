// SPDX-License-Identifier: Apache-2.0

package otel

import (
	"runtime/debug"
	"sync"
)

// Version is set at build time with -ldflags. It falls back to the vcs
// revision recorded in the build info.
var Version string

var versionOnce = sync.OnceValue(func() string {
	if Version != "" {
		return Version
	}

	const unknown = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unknown
	}
	for _, v := range info.Settings {
		if v.Key == "vcs.revision" {
			return v.Value
		}
	}
	return unknown
})

// ServiceVersion returns the version reported in the telemetry resource and
// by the CLI.
func ServiceVersion() string {
	return versionOnce()
}
