package features

import (
	"sort"

	"github.com/blackwell-systems/shopwatch/internal/events"
)

// typeCounts accumulates distinct products per event type plus purchase
// spend for one brand or category key.
type typeCounts struct {
	view     map[string]bool
	cart     map[string]bool
	purchase map[string]bool
	spending float64
}

func newTypeCounts() *typeCounts {
	return &typeCounts{
		view:     make(map[string]bool),
		cart:     make(map[string]bool),
		purchase: make(map[string]bool),
	}
}

func (tc *typeCounts) add(ev events.Event) {
	switch ev.Type {
	case events.TypeView:
		tc.view[ev.ProductID] = true
	case events.TypeCart:
		tc.cart[ev.ProductID] = true
	case events.TypePurchase:
		tc.purchase[ev.ProductID] = true
		tc.spending += ev.PurchaseSpending
	}
}

// groupByKey aggregates events under keyFn, skipping events whose key is
// empty. Keys come back sorted.
func groupByKey(evs []events.Event, keyFn func(events.Event) string) ([]string, map[string]*typeCounts) {
	counts := make(map[string]*typeCounts)
	for _, ev := range evs {
		key := keyFn(ev)
		if key == "" {
			continue
		}
		tc, ok := counts[key]
		if !ok {
			tc = newTypeCounts()
			counts[key] = tc
		}
		tc.add(ev)
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, counts
}

// BuildBrands aggregates cleaned events by brand. A brand with no purchases
// still appears, with zero spend. Brands are never empty after cleaning,
// so every event contributes.
func BuildBrands(evs []events.Event) *BrandTable {
	keys, counts := groupByKey(evs, func(ev events.Event) string { return ev.Brand })

	rows := make([]BrandRow, 0, len(keys))
	for _, k := range keys {
		tc := counts[k]
		rows = append(rows, BrandRow{
			Brand:              k,
			CartUnique:         len(tc.cart),
			PurchaseUnique:     len(tc.purchase),
			ViewUnique:         len(tc.view),
			ViewToPurchaseRate: Ratio(float64(len(tc.purchase)), float64(len(tc.view))),
			PurchaseSpending:   tc.spending,
		})
	}
	return &BrandTable{Columns: BrandColumns, Rows: rows}
}

// BuildCategories aggregates cleaned events by category code. Events with
// no category are excluded, matching the null-key drop of the grouping
// semantics; brand/category aggregation reads raw events directly rather
// than the Session table, so multi-category sessions attribute each event
// to its own category.
func BuildCategories(evs []events.Event) *CategoryTable {
	keys, counts := groupByKey(evs, func(ev events.Event) string { return ev.CategoryCode })

	rows := make([]CategoryRow, 0, len(keys))
	for _, k := range keys {
		tc := counts[k]
		rows = append(rows, CategoryRow{
			CategoryCode:       k,
			CartUnique:         len(tc.cart),
			PurchaseUnique:     len(tc.purchase),
			ViewUnique:         len(tc.view),
			ViewToPurchaseRate: Ratio(float64(len(tc.purchase)), float64(len(tc.view))),
			PurchaseSpending:   tc.spending,
		})
	}
	return &CategoryTable{Columns: CategoryColumns, Rows: rows}
}
