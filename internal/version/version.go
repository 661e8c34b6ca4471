// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Live sky TUI with altitude sparkline, catalog hot reload, HTTP API
// 0.2.0 - Next-occurrence search with day limit, pass plans, hyperbolic orbits
// 0.1.0 - Initial release: elliptic positions, rise/transit/set, CLI
