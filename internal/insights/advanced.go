package insights

import (
	"math"

	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// AnalyzeAdvanced compares multi-brand against single-brand sessions,
// multi-category conversion, and the High/Low session-quality split, and
// recomputes the loyalty block with the shared split logic.
func AnalyzeAdvanced(sessions *features.SessionTable, users *features.UserTable, cfg Config) (Advanced, error) {
	err := schema.Require("session_features", sessions.Columns,
		"n_unique_brands", "n_unique_categories", "view_to_purchase_rate",
		"session_total_spending", "session_duration", "view_count", "user_session")
	if err != nil {
		return Advanced{}, err
	}

	var multiBrand, singleBrand []float64
	var multiBrandAOV, singleAOV []float64
	var multiCategory, durations []float64
	for _, s := range sessions.Rows {
		if !math.IsNaN(s.Duration) {
			durations = append(durations, s.Duration)
		}
		if s.UniqueBrands > 1 {
			multiBrand = append(multiBrand, s.ViewToPurchaseRate)
			if s.TotalSpending > 0 {
				multiBrandAOV = append(multiBrandAOV, s.TotalSpending)
			}
		} else if s.UniqueBrands == 1 {
			singleBrand = append(singleBrand, s.ViewToPurchaseRate)
			if s.TotalSpending > 0 {
				singleAOV = append(singleAOV, s.TotalSpending)
			}
		}
		if s.UniqueCategories > 1 {
			multiCategory = append(multiCategory, s.ViewToPurchaseRate)
		}
	}

	a := Advanced{
		MultiBrandConversion:    Float(meanOrZero(multiBrand)),
		SingleBrandConversion:   Float(meanOrZero(singleBrand)),
		MultiBrandAOV:           Float(meanOrZero(multiBrandAOV)),
		SingleBrandAOV:          Float(meanOrZero(singleAOV)),
		MultiCategoryConversion: Float(meanOrZero(multiCategory)),
	}

	a.QualityAnalysis = qualityAnalysis(sessions.Rows, median(durations))
	a.Loyalty = analyzeLoyalty(users.Rows, cfg)
	return a, nil
}

// qualityAnalysis splits sessions into High and Low quality. High requires
// duration strictly above the median AND at least the view and brand
// minimums; everything else is Low. Only observed buckets are reported,
// High before Low.
func qualityAnalysis(rows []features.SessionRow, medianDuration float64) []QualityStat {
	groups := map[string]*struct {
		count    int
		rates    []float64
		spending []float64
	}{}

	for _, s := range rows {
		quality := "Low"
		if s.Duration > medianDuration &&
			s.ViewCount >= minViewsForHighQuality &&
			s.UniqueBrands >= minBrandsForHighQuality {
			quality = "High"
		}
		g, ok := groups[quality]
		if !ok {
			g = &struct {
				count    int
				rates    []float64
				spending []float64
			}{}
			groups[quality] = g
		}
		g.count++
		g.rates = append(g.rates, s.ViewToPurchaseRate)
		g.spending = append(g.spending, s.TotalSpending)
	}

	var stats []QualityStat
	for _, quality := range []string{"High", "Low"} {
		g, ok := groups[quality]
		if !ok {
			continue
		}
		stats = append(stats, QualityStat{
			Quality:       quality,
			SessionCount:  g.count,
			AvgConversion: Float(mean(g.rates)),
			AvgSpending:   Float(mean(g.spending)),
		})
	}
	return stats
}
