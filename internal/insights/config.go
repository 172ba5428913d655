package insights

// Segment, bucket, and label constants shared by the analyzers.
var (
	durationLabels        = []string{"<1min", "1-5min", "5-15min", ">15min"}
	durationEdges         = []float64{-1, 1, 5, 15, 120}
	spendingSegmentLabels = []string{"Low Nonzero", "Mid Nonzero", "High Nonzero", "Top Nonzero"}
	activityLevelLabels   = []string{"One-time", "Casual", "Regular", "Power"}
	activityLevelEdges    = []float64{-1, 1, 5, 10}
	orderValueLabels      = []string{"Small", "Medium", "Large", "Premium"}
	orderValueEdges       = []float64{0, 25, 100, 500}
	revenueQuintileLabels = []string{"Bottom 20%", "Low 20%", "Middle 20%", "High 20%", "Top 20%"}
	timePeriodLabels      = []string{"Night", "Morning", "Afternoon", "Evening"}
)

// Session-quality thresholds.
const (
	minViewsForHighQuality  = 3
	minBrandsForHighQuality = 1
)

// Config carries the tunable analysis thresholds. The fallback split
// percentiles are heuristic, not derived from a business rule, which is
// why they live here rather than as constants.
type Config struct {
	// AlertChangePct is the single relative-change threshold used for all
	// baseline and directional alerts.
	AlertChangePct float64

	// LowFunnelThreshold flags absolute funnel rates below this value.
	LowFunnelThreshold float64

	// LoyaltySessionCutoff is the minimum session count for a loyal user.
	LoyaltySessionCutoff int

	// HighConvertingBrandThreshold counts brands converting above it.
	HighConvertingBrandThreshold float64

	// MaxSessionDurationMinutes clips durations before bucketing.
	MaxSessionDurationMinutes float64

	// FallbackSplitLow/High are the manual percentile split used when the
	// equal-frequency spending cut cannot produce distinct edges.
	FallbackSplitLow  float64
	FallbackSplitHigh float64
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		AlertChangePct:               0.10,
		LowFunnelThreshold:           0.10,
		LoyaltySessionCutoff:         5,
		HighConvertingBrandThreshold: 0.10,
		MaxSessionDurationMinutes:    120,
		FallbackSplitLow:             0.33,
		FallbackSplitHigh:            0.67,
	}
}
