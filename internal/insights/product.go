package insights

import (
	"sort"

	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// AnalyzeProductPerformance ranks brands and categories by spend and by
// efficiency score (conversion × spend, a ranking heuristic only).
func AnalyzeProductPerformance(brands *features.BrandTable, categories *features.CategoryTable, cfg Config) (ProductPerformance, error) {
	err := schema.Require("brand_features", brands.Columns,
		"brand", "purchase_spending", "brand_view_to_purchase_rate")
	if err != nil {
		return ProductPerformance{}, err
	}
	err = schema.Require("category_features", categories.Columns,
		"category_code", "purchase_spending", "category_view_to_purchase_rate")
	if err != nil {
		return ProductPerformance{}, err
	}

	p := ProductPerformance{}

	var brandRates []float64
	for _, b := range brands.Rows {
		brandRates = append(brandRates, b.ViewToPurchaseRate)
		if b.ViewToPurchaseRate > cfg.HighConvertingBrandThreshold {
			p.HighConvertingBrandsCount++
		}
	}
	p.AvgBrandConversion = Float(mean(brandRates))

	for _, b := range topN(brands.Rows, 10, func(b features.BrandRow) float64 { return b.PurchaseSpending }) {
		p.TopBrands = append(p.TopBrands, BrandPerf{
			Brand:            b.Brand,
			PurchaseSpending: Float(b.PurchaseSpending),
			ConversionRate:   Float(b.ViewToPurchaseRate),
		})
	}
	for _, b := range topN(brands.Rows, 5, brandEfficiency) {
		p.TopEfficientBrands = append(p.TopEfficientBrands, EfficientBrand{
			Brand:           b.Brand,
			EfficiencyScore: Float(brandEfficiency(b)),
		})
	}

	var categoryRates []float64
	for _, c := range categories.Rows {
		categoryRates = append(categoryRates, c.ViewToPurchaseRate)
	}
	p.AvgCategoryConversion = Float(mean(categoryRates))

	for _, c := range topN(categories.Rows, 5, func(c features.CategoryRow) float64 { return c.PurchaseSpending }) {
		p.TopCategories = append(p.TopCategories, CategoryPerf{
			CategoryCode:     c.CategoryCode,
			PurchaseSpending: Float(c.PurchaseSpending),
			ConversionRate:   Float(c.ViewToPurchaseRate),
		})
	}
	for _, c := range topN(categories.Rows, 3, categoryEfficiency) {
		p.TopEfficientCategories = append(p.TopEfficientCategories, EfficientCategory{
			CategoryCode:    c.CategoryCode,
			EfficiencyScore: Float(categoryEfficiency(c)),
		})
	}

	return p, nil
}

func brandEfficiency(b features.BrandRow) float64 {
	return b.ViewToPurchaseRate * b.PurchaseSpending
}

func categoryEfficiency(c features.CategoryRow) float64 {
	return c.ViewToPurchaseRate * c.PurchaseSpending
}

// topN returns the n rows with the largest key, ties broken by input order.
func topN[T any](rows []T, n int, key func(T) float64) []T {
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) > key(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
