// Package features aggregates cleaned events into the four derived tables:
// Session, User, Brand, and Category. Each builder is a pure function of its
// input table and validates the input contract before computing.
package features

import "time"

// Canonical column sets, matching the persisted CSV headers. Tables built
// in memory carry the full set; tables read back from disk carry whatever
// the file header holds, which is what the insight engine validates.
var (
	SessionColumns = []string{
		"user_session", "user_id", "category_code", "brand",
		"view_count", "cart_count", "purchase_count",
		"n_unique_brands", "n_unique_categories",
		"session_started_at", "session_ended_at", "session_total_spending",
		"cart_unique", "purchase_unique", "view_unique",
		"session_duration", "view_to_purchase_rate", "is_weekend",
	}
	UserColumns = []string{
		"user_id", "user_total_sessions",
		"total_view_count", "total_cart_count", "total_purchase_count",
		"total_unique_purchase_count", "total_unique_view_count",
		"user_avg_session_duration", "user_total_spending",
		"user_view_to_purchase_rate", "user_purchase_per_session",
	}
	BrandColumns = []string{
		"brand", "cart", "purchase", "view",
		"brand_view_to_purchase_rate", "purchase_spending",
	}
	CategoryColumns = []string{
		"category_code", "cart", "purchase", "view",
		"category_view_to_purchase_rate", "purchase_spending",
	}
)

// SessionRow is one reconstructed session. The nominal UserID, CategoryCode,
// and Brand come from the session's chronologically first event; a session
// spanning several brands or categories is tracked through UniqueBrands and
// UniqueCategories instead.
type SessionRow struct {
	Session            string
	UserID             string
	CategoryCode       string
	Brand              string
	ViewCount          int
	CartCount          int
	PurchaseCount      int
	UniqueBrands       int
	UniqueCategories   int
	StartedAt          time.Time
	EndedAt            time.Time
	TotalSpending      float64
	CartUnique         int
	PurchaseUnique     int
	ViewUnique         int
	Duration           float64
	ViewToPurchaseRate float64
	IsWeekend          bool
}

// UserRow aggregates a user's sessions.
type UserRow struct {
	UserID             string
	TotalSessions      int
	TotalViews         int
	TotalCarts         int
	TotalPurchases     int
	UniquePurchases    int
	UniqueViews        int
	AvgSessionDuration float64
	TotalSpending      float64
	ViewToPurchaseRate float64
	PurchasePerSession float64
}

// BrandRow aggregates unique product counts per event type for one brand.
type BrandRow struct {
	Brand              string
	CartUnique         int
	PurchaseUnique     int
	ViewUnique         int
	ViewToPurchaseRate float64
	PurchaseSpending   float64
}

// CategoryRow aggregates unique product counts per event type for one
// category code.
type CategoryRow struct {
	CategoryCode       string
	CartUnique         int
	PurchaseUnique     int
	ViewUnique         int
	ViewToPurchaseRate float64
	PurchaseSpending   float64
}

// SessionTable holds session rows plus the column set they were built or
// loaded with.
type SessionTable struct {
	Columns []string
	Rows    []SessionRow
}

// UserTable holds user rows plus their column set.
type UserTable struct {
	Columns []string
	Rows    []UserRow
}

// BrandTable holds brand rows plus their column set.
type BrandTable struct {
	Columns []string
	Rows    []BrandRow
}

// CategoryTable holds category rows plus their column set.
type CategoryTable struct {
	Columns []string
	Rows    []CategoryRow
}

// Ratio divides numerator by denominator, resolving a zero denominator to 0
// instead of NaN or infinity. Every rate in the pipeline goes through this
// one guard so the edge policy is identical everywhere.
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
