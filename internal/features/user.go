package features

import (
	"math"
	"sort"

	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// userRequiredColumns is what BuildUsers needs from the Session table.
var userRequiredColumns = []string{
	"user_session", "user_id", "view_count", "cart_count", "purchase_count",
	"purchase_unique", "view_unique", "session_duration",
	"session_total_spending",
}

// BuildUsers aggregates the Session table by user id, sorted by user id.
// This is a second pass over sessions, not over raw events. The user-level
// view-to-purchase rate is clipped to 1.0: a product purchased without a
// tracked view can push the nominal ratio above 1 across sessions.
func BuildUsers(sessions *SessionTable) (*UserTable, error) {
	if err := schema.Require("session_features", sessions.Columns, userRequiredColumns...); err != nil {
		return nil, err
	}

	byUser := make(map[string]*UserRow)
	durations := make(map[string][]float64)
	var order []string

	for _, s := range sessions.Rows {
		u, ok := byUser[s.UserID]
		if !ok {
			u = &UserRow{UserID: s.UserID}
			byUser[s.UserID] = u
			order = append(order, s.UserID)
		}
		u.TotalSessions++
		u.TotalViews += s.ViewCount
		u.TotalCarts += s.CartCount
		u.TotalPurchases += s.PurchaseCount
		u.UniquePurchases += s.PurchaseUnique
		u.UniqueViews += s.ViewUnique
		u.TotalSpending += s.TotalSpending
		durations[s.UserID] = append(durations[s.UserID], s.Duration)
	}
	sort.Strings(order)

	rows := make([]UserRow, 0, len(order))
	for _, id := range order {
		u := byUser[id]

		// Sessions with a missing duration stay out of the average; a user
		// with only such sessions keeps a missing average.
		var totalDuration float64
		var timed int
		for _, d := range durations[id] {
			if math.IsNaN(d) {
				continue
			}
			totalDuration += d
			timed++
		}
		if timed == 0 {
			u.AvgSessionDuration = math.NaN()
		} else {
			u.AvgSessionDuration = totalDuration / float64(timed)
		}

		u.ViewToPurchaseRate = Ratio(float64(u.UniquePurchases), float64(u.UniqueViews))
		if u.ViewToPurchaseRate > 1.0 {
			u.ViewToPurchaseRate = 1.0
		}
		u.PurchasePerSession = Ratio(float64(u.TotalPurchases), float64(u.TotalSessions))

		rows = append(rows, *u)
	}
	return &UserTable{Columns: UserColumns, Rows: rows}, nil
}
