package insights

import (
	"sort"

	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// AnalyzeRevenue computes spend totals, the order-value histogram,
// revenue-concentration shares, the quintile breakdown, and the
// cart-abandonment estimate.
func AnalyzeRevenue(sessions *features.SessionTable, users *features.UserTable) (Revenue, error) {
	err := schema.Require("session_features", sessions.Columns,
		"session_total_spending", "cart_count", "purchase_count")
	if err != nil {
		return Revenue{}, err
	}
	if err := schema.Require("user_features", users.Columns, "user_total_spending"); err != nil {
		return Revenue{}, err
	}

	r := Revenue{}

	var revenueValues []float64
	abandoned := 0
	for _, s := range sessions.Rows {
		r.TotalRevenue += Float(s.TotalSpending)
		if s.TotalSpending > 0 {
			r.RevenueGeneratingSessions++
			revenueValues = append(revenueValues, s.TotalSpending)
		}
		if s.CartCount > 0 && s.PurchaseCount == 0 {
			abandoned++
		}
	}
	avgOrder := meanOrZero(revenueValues)
	r.AvgOrderValue = Float(avgOrder)

	// Order-value histogram over revenue-generating sessions; all four
	// bands always appear.
	r.OrderValueDistribution = make(map[string]int, len(orderValueLabels))
	for _, label := range orderValueLabels {
		r.OrderValueDistribution[label] = 0
	}
	for _, v := range revenueValues {
		idx := len(orderValueLabels) - 1 // open-ended Premium band
		if i := bucketIndex(orderValueEdges, v); i >= 0 {
			idx = i
		}
		r.OrderValueDistribution[orderValueLabels[idx]]++
	}

	// Concentration: top-10 users and top-20%-of-users revenue shares.
	// Ranking ties are broken by table order.
	bySpend := make([]features.UserRow, len(users.Rows))
	copy(bySpend, users.Rows)
	sort.SliceStable(bySpend, func(i, j int) bool {
		return bySpend[i].TotalSpending > bySpend[j].TotalSpending
	})

	var totalUserRevenue float64
	for _, u := range users.Rows {
		totalUserRevenue += u.TotalSpending
	}

	var top10 float64
	for i, u := range bySpend {
		if i >= 10 {
			break
		}
		top10 += u.TotalSpending
	}
	r.Top10UsersRevenue = Float(top10)
	r.Top10Pct = Float(features.Ratio(top10, totalUserRevenue))

	if len(bySpend) > 0 {
		nTop := len(bySpend) / 5
		if nTop < 1 {
			nTop = 1
		}
		var top20 float64
		for _, u := range bySpend[:nTop] {
			top20 += u.TotalSpending
		}
		r.Top20PctOfUserRevenue = Float(features.Ratio(top20, totalUserRevenue))
	}

	r.SegmentRevenue = revenueQuintiles(users.Rows)

	r.CartAbandonmentSessions = abandoned
	r.PotentialRevenueFromAbandonment = Float(float64(abandoned) * avgOrder)

	return r, nil
}

// revenueQuintiles sums user revenue by equal-frequency spend quintile.
// Zero spenders are excluded from the cut, consistent with the zero-spender
// segment elsewhere; collapsed quintile edges merge bands instead of
// erroring.
func revenueQuintiles(rows []features.UserRow) map[string]Float {
	out := make(map[string]Float, len(revenueQuintileLabels))
	for _, label := range revenueQuintileLabels {
		out[label] = 0
	}

	var nonZero []float64
	for _, u := range rows {
		if u.TotalSpending > 0 {
			nonZero = append(nonZero, u.TotalSpending)
		}
	}
	if len(nonZero) == 0 {
		return out
	}

	edges := quantileEdges(nonZero, 5)
	for _, u := range rows {
		if u.TotalSpending <= 0 {
			continue
		}
		idx := bucketIndex(edges, u.TotalSpending)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(revenueQuintileLabels) {
			idx = len(revenueQuintileLabels) - 1
		}
		out[revenueQuintileLabels[idx]] += Float(u.TotalSpending)
	}
	return out
}
