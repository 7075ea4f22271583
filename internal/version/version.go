// Package version holds the release version stamped into binaries.
package version

// CurrentVersion is the sitemirror release version.
const CurrentVersion = "1.0.0"
