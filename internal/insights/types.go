package insights

// Summary is the nested metrics structure persisted for the dashboard.
// Field order fixes the JSON key order per component.
type Summary struct {
	Funnel             Funnel             `json:"funnel"`
	Segmentation       Segmentation       `json:"segmentation"`
	Temporal           Temporal           `json:"temporal"`
	ProductPerformance ProductPerformance `json:"product_performance"`
	Revenue            Revenue            `json:"revenue"`
	Advanced           Advanced           `json:"advanced"`
	Insights           []string           `json:"insights"`
}

// Funnel holds session totals and stage-to-stage conversion rates.
type Funnel struct {
	TotalSessions            int              `json:"total_sessions"`
	SessionsWithViews        int              `json:"sessions_with_views"`
	SessionsWithCarts        int              `json:"sessions_with_carts"`
	SessionsWithPurchases    int              `json:"sessions_with_purchases"`
	ViewToCart               Float            `json:"view_to_cart"`
	CartToPurchase           Float            `json:"cart_to_purchase"`
	ViewToPurchase           Float            `json:"view_to_purchase"`
	DurationBucketConversion map[string]Float `json:"duration_bucket_conversion"`
}

// SegmentStat is one spending segment's aggregate row.
type SegmentStat struct {
	Segment                string `json:"spending_segment"`
	UserCount              int    `json:"user_count"`
	AvgTotalSpending       Float  `json:"avg_total_spending_per_user"`
	AvgTotalSessions       Float  `json:"avg_total_sessions_per_user"`
	AvgConversionRate      Float  `json:"avg_conversion_rate"`
	AvgPurchasesPerSession Float  `json:"avg_purchases_per_session"`
}

// ActivityStat is one activity-level bucket (One-time through Power).
type ActivityStat struct {
	Level            string `json:"activity_level"`
	UserCount        int    `json:"user_count"`
	AvgTotalSpending Float  `json:"avg_total_spending_per_user"`
}

// Loyalty splits users at the loyal-session cutoff. A nil Loyalty means
// one of the two groups was empty and no split is reported.
type Loyalty struct {
	LoyalUserCount       int   `json:"loyal_user_count"`
	CasualUserCount      int   `json:"casual_user_count"`
	LoyalAvgSpend        Float `json:"loyal_user_avg_spend"`
	CasualAvgSpend       Float `json:"casual_user_avg_spend"`
	LoyalConversionRate  Float `json:"loyal_conversion_rate"`
	CasualConversionRate Float `json:"casual_conversion_rate"`
}

// Segmentation holds spending-quartile and activity-level rollups.
type Segmentation struct {
	SegmentStats   []SegmentStat  `json:"segment_stats"`
	ActivityLevels []ActivityStat `json:"activity_levels"`
	Loyalty        *Loyalty       `json:"loyalty"`
}

// MonthlyStat is one calendar-month rollup row. The JSON keys keep the
// names the dashboard consumes.
type MonthlyStat struct {
	Month         int   `json:"month"`
	SessionCount  int   `json:"user_session"`
	TotalSpending Float `json:"session_total_spending"`
	AvgConversion Float `json:"view_to_purchase_rate"`
}

// QuarterlyStat is one calendar-quarter rollup row.
type QuarterlyStat struct {
	Quarter       int   `json:"quarter"`
	SessionCount  int   `json:"user_session"`
	TotalSpending Float `json:"session_total_spending"`
	AvgConversion Float `json:"view_to_purchase_rate"`
}

// TimePeriodStat is one time-of-day bucket rollup row. All four periods are
// always present; empty buckets carry null means.
type TimePeriodStat struct {
	Period        string `json:"time_period"`
	SessionCount  int    `json:"user_session"`
	AvgConversion Float  `json:"view_to_purchase_rate"`
	AvgSpending   Float  `json:"session_total_spending"`
}

// HourlyStat is one hour-of-day rollup row; only observed hours appear.
type HourlyStat struct {
	Hour          int   `json:"hour"`
	SessionCount  int   `json:"user_session"`
	AvgConversion Float `json:"view_to_purchase_rate"`
}

// Temporal holds weekend/weekday, calendar, and hour-of-day rollups plus
// the four peak indicators. The peaks are nil when the underlying rollup
// is empty.
type Temporal struct {
	WeekendConversionRate Float            `json:"weekend_conversion_rate"`
	WeekdayConversionRate Float            `json:"weekday_conversion_rate"`
	Monthly               []MonthlyStat    `json:"monthly"`
	Quarterly             []QuarterlyStat  `json:"quarterly"`
	TimePeriod            []TimePeriodStat `json:"time_period"`
	Hourly                []HourlyStat     `json:"hourly"`
	PeakActivityHour      *int             `json:"peak_activity_hour"`
	BestConversionHour    *int             `json:"best_conversion_hour"`
	PeakRevenueMonth      *int             `json:"peak_revenue_month"`
	PeakConversionMonth   *int             `json:"peak_conversion_month"`
}

// BrandPerf is one top-brand row.
type BrandPerf struct {
	Brand            string `json:"brand"`
	PurchaseSpending Float  `json:"purchase_spending"`
	ConversionRate   Float  `json:"brand_view_to_purchase_rate"`
}

// CategoryPerf is one top-category row.
type CategoryPerf struct {
	CategoryCode     string `json:"category_code"`
	PurchaseSpending Float  `json:"purchase_spending"`
	ConversionRate   Float  `json:"category_view_to_purchase_rate"`
}

// EfficientBrand ranks a brand by conversion × spend. The score is a
// ranking heuristic, not a normalized metric.
type EfficientBrand struct {
	Brand           string `json:"brand"`
	EfficiencyScore Float  `json:"efficiency_score"`
}

// EfficientCategory ranks a category by conversion × spend.
type EfficientCategory struct {
	CategoryCode    string `json:"category_code"`
	EfficiencyScore Float  `json:"efficiency_score"`
}

// ProductPerformance holds brand and category rankings.
type ProductPerformance struct {
	TopBrands                 []BrandPerf         `json:"top_brands"`
	AvgBrandConversion        Float               `json:"avg_brand_conversion"`
	HighConvertingBrandsCount int                 `json:"high_converting_brands_count"`
	TopEfficientBrands        []EfficientBrand    `json:"top_efficient_brands"`
	TopCategories             []CategoryPerf      `json:"top_categories"`
	AvgCategoryConversion     Float               `json:"avg_category_conversion"`
	TopEfficientCategories    []EfficientCategory `json:"top_efficient_categories"`
}

// Revenue holds spend totals, order-value distribution, concentration
// shares, quintile breakdown, and cart-abandonment figures.
type Revenue struct {
	TotalRevenue                    Float            `json:"total_revenue"`
	RevenueGeneratingSessions       int              `json:"revenue_generating_sessions"`
	AvgOrderValue                   Float            `json:"avg_order_value"`
	OrderValueDistribution          map[string]int   `json:"order_value_distribution"`
	Top10UsersRevenue               Float            `json:"top_10_users_revenue"`
	Top10Pct                        Float            `json:"top_10_pct"`
	Top20PctOfUserRevenue           Float            `json:"top_20_pct_of_user_revenue"`
	SegmentRevenue                  map[string]Float `json:"segment_revenue"`
	CartAbandonmentSessions         int              `json:"cart_abandonment_sessions"`
	PotentialRevenueFromAbandonment Float            `json:"potential_revenue_from_abandonment"`
}

// QualityStat is one High/Low session-quality bucket.
type QualityStat struct {
	Quality       string `json:"session_quality"`
	SessionCount  int    `json:"user_session"`
	AvgConversion Float  `json:"view_to_purchase_rate"`
	AvgSpending   Float  `json:"session_total_spending"`
}

// Advanced holds multi-brand/multi-category splits, the session-quality
// split, and the loyalty block (computed with the same logic as the
// segmentation loyalty split).
type Advanced struct {
	MultiBrandConversion    Float         `json:"multi_brand_conversion"`
	SingleBrandConversion   Float         `json:"single_brand_conversion"`
	MultiBrandAOV           Float         `json:"multi_brand_aov"`
	SingleBrandAOV          Float         `json:"single_brand_aov"`
	MultiCategoryConversion Float         `json:"multi_category_conversion"`
	QualityAnalysis         []QualityStat `json:"quality_analysis"`
	Loyalty                 *Loyalty      `json:"loyalty"`
}
