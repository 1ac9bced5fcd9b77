// Package navi holds application-wide defaults shared across the
// assistant service packages.
package navi

const (
	DefaultAppName    = "navi"
	DefaultConfigPath = "/etc/navi"

	// DefaultDatabasePath is where the embedded conversation store lives
	// unless overridden via configuration.
	DefaultDatabasePath = "./data/navi.db"
)
