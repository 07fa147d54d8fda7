// Package version carries the build version, overridable via -ldflags.
package version

// Version is set at build time with -ldflags "-X razor/internal/version.Version=...".
var Version = "dev"
