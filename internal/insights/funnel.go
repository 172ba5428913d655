package insights

import (
	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// AnalyzeFunnel computes session totals, the three stage conversion rates,
// and mean conversion bucketed by session-duration category.
func AnalyzeFunnel(sessions *features.SessionTable, cfg Config) (Funnel, error) {
	err := schema.Require("session_features", sessions.Columns,
		"view_count", "cart_count", "purchase_count", "session_duration", "view_to_purchase_rate")
	if err != nil {
		return Funnel{}, err
	}

	f := Funnel{TotalSessions: len(sessions.Rows)}
	for _, s := range sessions.Rows {
		if s.ViewCount > 0 {
			f.SessionsWithViews++
		}
		if s.CartCount > 0 {
			f.SessionsWithCarts++
		}
		if s.PurchaseCount > 0 {
			f.SessionsWithPurchases++
		}
	}

	f.ViewToCart = Float(features.Ratio(float64(f.SessionsWithCarts), float64(f.SessionsWithViews)))
	f.CartToPurchase = Float(features.Ratio(float64(f.SessionsWithPurchases), float64(f.SessionsWithCarts)))
	f.ViewToPurchase = Float(features.Ratio(float64(f.SessionsWithPurchases), float64(f.SessionsWithViews)))

	// Duration bucket conversion: minutes clipped before bucketing; every
	// bucket is present, empty ones resolve to 0.
	buckets := make([][]float64, len(durationLabels))
	for _, s := range sessions.Rows {
		minutes := s.Duration / 60
		if minutes > cfg.MaxSessionDurationMinutes {
			minutes = cfg.MaxSessionDurationMinutes
		}
		if i := bucketIndex(durationEdges, minutes); i >= 0 {
			buckets[i] = append(buckets[i], s.ViewToPurchaseRate)
		}
	}

	f.DurationBucketConversion = make(map[string]Float, len(durationLabels))
	for i, label := range durationLabels {
		f.DurationBucketConversion[label] = Float(meanOrZero(buckets[i]))
	}

	return f, nil
}
