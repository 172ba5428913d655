package insights

import (
	"math"
	"testing"

	"github.com/blackwell-systems/shopwatch/internal/features"
)

func brandTable(rows ...features.BrandRow) *features.BrandTable {
	return &features.BrandTable{Columns: features.BrandColumns, Rows: rows}
}

func categoryTable(rows ...features.CategoryRow) *features.CategoryTable {
	return &features.CategoryTable{Columns: features.CategoryColumns, Rows: rows}
}

func TestAnalyzeProductPerformance_Rankings(t *testing.T) {
	brands := brandTable(
		features.BrandRow{Brand: "acme", PurchaseSpending: 1000, ViewToPurchaseRate: 0.05},
		features.BrandRow{Brand: "bolt", PurchaseSpending: 200, ViewToPurchaseRate: 0.5},
		features.BrandRow{Brand: "core", PurchaseSpending: 500, ViewToPurchaseRate: 0.2},
	)
	categories := categoryTable(
		features.CategoryRow{CategoryCode: "electronics.phone", PurchaseSpending: 900, ViewToPurchaseRate: 0.1},
		features.CategoryRow{CategoryCode: "apparel.shoes", PurchaseSpending: 300, ViewToPurchaseRate: 0.3},
	)

	p, err := AnalyzeProductPerformance(brands, categories, DefaultConfig())
	if err != nil {
		t.Fatalf("AnalyzeProductPerformance: %v", err)
	}

	if len(p.TopBrands) != 3 || p.TopBrands[0].Brand != "acme" {
		t.Errorf("top brands by spend wrong: %+v", p.TopBrands)
	}
	// Efficiency is conversion times spend: acme 50, bolt 100, core 100.
	// Ties keep input order, so core ranks after bolt.
	if len(p.TopEfficientBrands) != 3 || p.TopEfficientBrands[0].Brand != "bolt" || p.TopEfficientBrands[1].Brand != "core" {
		t.Errorf("efficient brands wrong: %+v", p.TopEfficientBrands)
	}
	if p.TopCategories[0].CategoryCode != "electronics.phone" {
		t.Errorf("top categories wrong: %+v", p.TopCategories)
	}
	if p.TopEfficientCategories[0].CategoryCode != "electronics.phone" {
		t.Errorf("efficient categories wrong: %+v", p.TopEfficientCategories)
	}
	// Brands above the 0.10 conversion threshold: bolt and core.
	if p.HighConvertingBrandsCount != 2 {
		t.Errorf("high converting brands: got %d", p.HighConvertingBrandsCount)
	}
	wantAvg := (0.05 + 0.5 + 0.2) / 3
	if got := float64(p.AvgBrandConversion); math.Abs(got-wantAvg) > 1e-12 {
		t.Errorf("avg brand conversion: got %f, want %f", got, wantAvg)
	}
}

func TestAnalyzeProductPerformance_Empty(t *testing.T) {
	p, err := AnalyzeProductPerformance(brandTable(), categoryTable(), DefaultConfig())
	if err != nil {
		t.Fatalf("AnalyzeProductPerformance: %v", err)
	}
	if !math.IsNaN(float64(p.AvgBrandConversion)) || !math.IsNaN(float64(p.AvgCategoryConversion)) {
		t.Errorf("empty tables should yield NaN averages: %+v", p)
	}
	if len(p.TopBrands) != 0 || len(p.TopCategories) != 0 {
		t.Errorf("expected empty rankings: %+v", p)
	}
}

func TestTopN_TruncationAndOrder(t *testing.T) {
	rows := []features.BrandRow{
		{Brand: "a", PurchaseSpending: 1},
		{Brand: "b", PurchaseSpending: 3},
		{Brand: "c", PurchaseSpending: 2},
	}
	top := topN(rows, 2, func(b features.BrandRow) float64 { return b.PurchaseSpending })
	if len(top) != 2 || top[0].Brand != "b" || top[1].Brand != "c" {
		t.Errorf("topN wrong: %+v", top)
	}
}
