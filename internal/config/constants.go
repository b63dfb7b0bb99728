// Package config holds the barb CLI's build-time constants and the
// on-disk Settings file format it loads before compiling an expression.
package config

// Version is the current barb version.
// Set at build time via -ldflags "-X github.com/barblang/barb/internal/config.Version=...".
var Version = "0.1.0"
