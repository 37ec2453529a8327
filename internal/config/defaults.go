// Package config provides configuration loading and defaults for cursorwatch.
package config

// DefaultBaseURL is the production Cursor Admin API endpoint.
const DefaultBaseURL = "https://api.cursor.com"

// DefaultConfigDir is the default location for cursorwatch configuration.
const DefaultConfigDir = "~/.config/cursorwatch"

// DefaultRequestTimeoutSeconds is the per-request timeout for upstream calls.
const DefaultRequestTimeoutSeconds = 30

// DefaultRosterCacheTTLMinutes is how long a fetched team roster stays
// valid in the in-memory cache.
const DefaultRosterCacheTTLMinutes = 15

// DefaultCacheMaxEntries caps the in-memory cache so key cardinality
// from varying date-range parameters cannot grow it without bound.
const DefaultCacheMaxEntries = 256

// DefaultInactiveDays is the trailing window used to classify a license
// holder as inactive when --days is not given.
const DefaultInactiveDays = 30

// DefaultWindowDays is the trailing date range for usage queries when
// no explicit range is given.
const DefaultWindowDays = 30

// DefaultLeaderboardSize is how many users the top/bottom engagement
// slices contain.
const DefaultLeaderboardSize = 25

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 100,
}
