package features

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/shopwatch/internal/events"
)

// BuildSessions groups cleaned events by session id and computes the
// Session feature table, sorted by session id. Events inside a session are
// ordered by timestamp (input order breaks ties, missing timestamps last)
// before the nominal user/category/brand representative is taken.
func BuildSessions(evs []events.Event) *SessionTable {
	groups := make(map[string][]events.Event)
	var order []string
	for _, ev := range evs {
		if _, ok := groups[ev.Session]; !ok {
			order = append(order, ev.Session)
		}
		groups[ev.Session] = append(groups[ev.Session], ev)
	}
	sort.Strings(order)

	rows := make([]SessionRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, buildSessionRow(id, groups[id]))
	}
	return &SessionTable{Columns: SessionColumns, Rows: rows}
}

func buildSessionRow(id string, group []events.Event) SessionRow {
	sorted := make([]events.Event, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Time, sorted[j].Time
		if ti.IsZero() || tj.IsZero() {
			return tj.IsZero() && !ti.IsZero()
		}
		return ti.Before(tj)
	})

	row := SessionRow{
		Session:      id,
		UserID:       sorted[0].UserID,
		CategoryCode: sorted[0].CategoryCode,
		Brand:        sorted[0].Brand,
	}

	brands := make(map[string]bool)
	categories := make(map[string]bool)
	viewProducts := make(map[string]bool)
	cartProducts := make(map[string]bool)
	purchaseProducts := make(map[string]bool)
	var started, ended time.Time

	for _, ev := range sorted {
		switch ev.Type {
		case events.TypeView:
			row.ViewCount++
			viewProducts[ev.ProductID] = true
		case events.TypeCart:
			row.CartCount++
			cartProducts[ev.ProductID] = true
		case events.TypePurchase:
			row.PurchaseCount++
			purchaseProducts[ev.ProductID] = true
		}

		brands[ev.Brand] = true
		if ev.CategoryCode != "" {
			categories[ev.CategoryCode] = true
		}

		row.TotalSpending += ev.PurchaseSpending

		if !ev.Time.IsZero() {
			if started.IsZero() || ev.Time.Before(started) {
				started = ev.Time
			}
			if ended.IsZero() || ev.Time.After(ended) {
				ended = ev.Time
			}
		}
	}

	row.UniqueBrands = len(brands)
	row.UniqueCategories = len(categories)
	row.ViewUnique = len(viewProducts)
	row.CartUnique = len(cartProducts)
	row.PurchaseUnique = len(purchaseProducts)
	row.StartedAt = started
	row.EndedAt = ended
	if started.IsZero() {
		// No parsable timestamp in the session: the duration is missing,
		// not zero, so downstream bucketing excludes the session instead
		// of filing it under the shortest bucket.
		row.Duration = math.NaN()
	} else {
		row.Duration = ended.Sub(started).Seconds()
		wd := events.MondayWeekday(started)
		row.IsWeekend = wd >= 5
	}
	row.ViewToPurchaseRate = Ratio(float64(row.PurchaseUnique), float64(row.ViewUnique))

	return row
}
