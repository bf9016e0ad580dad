// Package version holds the build version string reported by the API.
package version

// Version is overridden at build time via -ldflags.
var Version = "dev"
