package insights

import (
	"sort"

	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// AnalyzeTemporal computes weekend/weekday conversion, monthly, quarterly,
// time-of-day and hourly rollups, and the four peak indicators. Sessions
// without a parsable start timestamp are excluded from the calendar
// rollups but keep their place in the weekend split.
func AnalyzeTemporal(sessions *features.SessionTable) (Temporal, error) {
	err := schema.Require("session_features", sessions.Columns,
		"is_weekend", "session_started_at", "view_to_purchase_rate",
		"user_session", "session_total_spending")
	if err != nil {
		return Temporal{}, err
	}

	var weekend, weekday []float64
	for _, s := range sessions.Rows {
		if s.IsWeekend {
			weekend = append(weekend, s.ViewToPurchaseRate)
		} else {
			weekday = append(weekday, s.ViewToPurchaseRate)
		}
	}

	t := Temporal{
		WeekendConversionRate: Float(meanOrZero(weekend)),
		WeekdayConversionRate: Float(meanOrZero(weekday)),
	}

	type rollup struct {
		count    int
		spending float64
		rates    []float64
	}

	months := make(map[int]*rollup)
	quarters := make(map[int]*rollup)
	hours := make(map[int]*rollup)
	periods := make(map[string]*rollup)
	for _, label := range timePeriodLabels {
		periods[label] = &rollup{}
	}

	add := func(m map[int]*rollup, key int, s features.SessionRow) {
		r, ok := m[key]
		if !ok {
			r = &rollup{}
			m[key] = r
		}
		r.count++
		r.spending += s.TotalSpending
		r.rates = append(r.rates, s.ViewToPurchaseRate)
	}

	for _, s := range sessions.Rows {
		if s.StartedAt.IsZero() {
			continue
		}
		month := int(s.StartedAt.Month())
		hour := s.StartedAt.Hour()
		add(months, month, s)
		add(quarters, (month-1)/3+1, s)
		add(hours, hour, s)

		p := periods[periodLabel(hour)]
		p.count++
		p.spending += s.TotalSpending
		p.rates = append(p.rates, s.ViewToPurchaseRate)
	}

	for _, m := range sortedKeys(months) {
		r := months[m]
		t.Monthly = append(t.Monthly, MonthlyStat{
			Month:         m,
			SessionCount:  r.count,
			TotalSpending: Float(r.spending),
			AvgConversion: Float(mean(r.rates)),
		})
	}
	for _, q := range sortedKeys(quarters) {
		r := quarters[q]
		t.Quarterly = append(t.Quarterly, QuarterlyStat{
			Quarter:       q,
			SessionCount:  r.count,
			TotalSpending: Float(r.spending),
			AvgConversion: Float(mean(r.rates)),
		})
	}
	for _, label := range timePeriodLabels {
		r := periods[label]
		t.TimePeriod = append(t.TimePeriod, TimePeriodStat{
			Period:        label,
			SessionCount:  r.count,
			AvgConversion: Float(mean(r.rates)),
			AvgSpending:   Float(features.Ratio(r.spending, float64(r.count))),
		})
	}
	for _, h := range sortedKeys(hours) {
		r := hours[h]
		t.Hourly = append(t.Hourly, HourlyStat{
			Hour:          h,
			SessionCount:  r.count,
			AvgConversion: Float(mean(r.rates)),
		})
	}

	// Peak indicators: nil when the underlying rollup is empty; ties go to
	// the earliest key.
	if len(t.Hourly) > 0 {
		busiest, best := t.Hourly[0], t.Hourly[0]
		for _, h := range t.Hourly[1:] {
			if h.SessionCount > busiest.SessionCount {
				busiest = h
			}
			if float64(h.AvgConversion) > float64(best.AvgConversion) {
				best = h
			}
		}
		t.PeakActivityHour = intPtr(busiest.Hour)
		t.BestConversionHour = intPtr(best.Hour)
	}
	if len(t.Monthly) > 0 {
		revenue, conversion := t.Monthly[0], t.Monthly[0]
		for _, m := range t.Monthly[1:] {
			if float64(m.TotalSpending) > float64(revenue.TotalSpending) {
				revenue = m
			}
			if float64(m.AvgConversion) > float64(conversion.AvgConversion) {
				conversion = m
			}
		}
		t.PeakRevenueMonth = intPtr(revenue.Month)
		t.PeakConversionMonth = intPtr(conversion.Month)
	}

	return t, nil
}

// periodLabel buckets a start hour into the capitalized reporting labels,
// on the same boundaries as the cleaner's event_period.
func periodLabel(hour int) string {
	switch {
	case hour < 6:
		return "Night"
	case hour < 12:
		return "Morning"
	case hour < 18:
		return "Afternoon"
	default:
		return "Evening"
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func intPtr(v int) *int { return &v }
