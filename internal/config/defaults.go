// Package config provides configuration loading and defaults for shopwatch.
package config

// DefaultBasePath is the root of the pipeline's data layout.
const DefaultBasePath = "data"

// DefaultRawFile is the raw events CSV, relative to the base path.
const DefaultRawFile = "raw/events.csv"

// DefaultCleanedDir holds the cleaned events table, relative to the base path.
const DefaultCleanedDir = "cleaned"

// DefaultFeaturesDir holds the four feature tables, relative to the base path.
const DefaultFeaturesDir = "features"

// DefaultOutputDir holds the versioned summary files, relative to the base path.
const DefaultOutputDir = "output"

// DefaultDBName is the filename for the run-history SQLite database.
const DefaultDBName = "shopwatch.db"

// DefaultConfigDir is the default location for shopwatch configuration.
const DefaultConfigDir = "~/.config/shopwatch"

// DefaultThresholds holds the stock analysis thresholds.
var DefaultThresholds = Thresholds{
	AlertChangePct:               0.10,
	LowFunnelThreshold:           0.10,
	LoyaltySessionCutoff:         5,
	HighConvertingBrandThreshold: 0.10,
	MaxSessionDurationMinutes:    120,
	FallbackSplitLow:             0.33,
	FallbackSplitHigh:            0.67,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
