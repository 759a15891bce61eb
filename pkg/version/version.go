// Package version is stamped at build time with -ldflags.
package version

var (
	Version = "dev"
	Commit  = "none"
)
