package insights

import (
	"sort"

	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// zeroSpenderSegment is the always-present segment for users with no spend.
const zeroSpenderSegment = "Zero Spender"

// AnalyzeSegmentation partitions users into spending quartiles (non-zero
// spenders only; zero spenders always form their own segment), buckets them
// into activity levels, and computes the loyalty split.
func AnalyzeSegmentation(users *features.UserTable, cfg Config) (Segmentation, error) {
	err := schema.Require("user_features", users.Columns,
		"user_id", "user_total_spending", "user_total_sessions",
		"user_view_to_purchase_rate", "user_purchase_per_session")
	if err != nil {
		return Segmentation{}, err
	}

	segments := assignSpendingSegments(users.Rows, cfg)

	grouped := make(map[string][]features.UserRow)
	for i, u := range users.Rows {
		grouped[segments[i]] = append(grouped[segments[i]], u)
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	seg := Segmentation{}
	for _, name := range names {
		rows := grouped[name]
		seg.SegmentStats = append(seg.SegmentStats, SegmentStat{
			Segment:                name,
			UserCount:              len(rows),
			AvgTotalSpending:       Float(mean(userSpend(rows))),
			AvgTotalSessions:       Float(mean(userSessions(rows))),
			AvgConversionRate:      Float(mean(userConversion(rows))),
			AvgPurchasesPerSession: Float(mean(userPurchaseRate(rows))),
		})
	}

	seg.ActivityLevels = activityLevels(users.Rows)
	seg.Loyalty = analyzeLoyalty(users.Rows, cfg)
	return seg, nil
}

// assignSpendingSegments labels each user row. Non-zero spenders are cut
// into equal-frequency quartiles; duplicate quartile edges collapse the
// segment count gracefully. When no distinct quartile edge survives, the
// manual tercile split from the config is tried before giving every
// non-zero spender the lowest label.
func assignSpendingSegments(rows []features.UserRow, cfg Config) []string {
	segments := make([]string, len(rows))

	var nonZero []float64
	for i, u := range rows {
		segments[i] = zeroSpenderSegment
		if u.TotalSpending > 0 {
			nonZero = append(nonZero, u.TotalSpending)
		}
	}
	if len(nonZero) == 0 {
		return segments
	}

	edges := quantileEdges(nonZero, 4)
	if len(edges) < 2 {
		// Degenerate distribution: quartiles collapsed completely. Fall
		// back to the manual percentile split.
		edges = dedupeEdges([]float64{
			quantile(nonZero, 0),
			quantile(nonZero, cfg.FallbackSplitLow),
			quantile(nonZero, cfg.FallbackSplitHigh),
			quantile(nonZero, 1),
		})
	}

	for i, u := range rows {
		if u.TotalSpending <= 0 {
			continue
		}
		idx := bucketIndex(edges, u.TotalSpending)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(spendingSegmentLabels) {
			idx = len(spendingSegmentLabels) - 1
		}
		segments[i] = spendingSegmentLabels[idx]
	}
	return segments
}

// activityLevels buckets users by session count: ≤1, ≤5, ≤10, >10.
func activityLevels(rows []features.UserRow) []ActivityStat {
	buckets := make([][]features.UserRow, len(activityLevelLabels))
	for _, u := range rows {
		idx := len(activityLevelLabels) - 1
		if i := bucketIndex(activityLevelEdges, float64(u.TotalSessions)); i >= 0 {
			idx = i
		}
		buckets[idx] = append(buckets[idx], u)
	}

	stats := make([]ActivityStat, 0, len(activityLevelLabels))
	for i, label := range activityLevelLabels {
		stats = append(stats, ActivityStat{
			Level:            label,
			UserCount:        len(buckets[i]),
			AvgTotalSpending: Float(mean(userSpend(buckets[i]))),
		})
	}
	return stats
}

// analyzeLoyalty splits users at the loyal-session cutoff. Returns nil when
// either group is empty. This is the one loyalty implementation; the
// advanced group reuses it rather than duplicating the split.
func analyzeLoyalty(rows []features.UserRow, cfg Config) *Loyalty {
	var loyal, casual []features.UserRow
	for _, u := range rows {
		if u.TotalSessions >= cfg.LoyaltySessionCutoff {
			loyal = append(loyal, u)
		} else {
			casual = append(casual, u)
		}
	}
	if len(loyal) == 0 || len(casual) == 0 {
		return nil
	}

	return &Loyalty{
		LoyalUserCount:       len(loyal),
		CasualUserCount:      len(casual),
		LoyalAvgSpend:        Float(mean(userSpend(loyal))),
		CasualAvgSpend:       Float(mean(userSpend(casual))),
		LoyalConversionRate:  Float(mean(userConversion(loyal))),
		CasualConversionRate: Float(mean(userConversion(casual))),
	}
}

func userSpend(rows []features.UserRow) []float64 {
	out := make([]float64, len(rows))
	for i, u := range rows {
		out[i] = u.TotalSpending
	}
	return out
}

func userSessions(rows []features.UserRow) []float64 {
	out := make([]float64, len(rows))
	for i, u := range rows {
		out[i] = float64(u.TotalSessions)
	}
	return out
}

func userConversion(rows []features.UserRow) []float64 {
	out := make([]float64, len(rows))
	for i, u := range rows {
		out[i] = u.ViewToPurchaseRate
	}
	return out
}

func userPurchaseRate(rows []features.UserRow) []float64 {
	out := make([]float64, len(rows))
	for i, u := range rows {
		out[i] = u.PurchasePerSession
	}
	return out
}
