package insights

import (
	"math"
	"testing"
	"time"

	"github.com/blackwell-systems/shopwatch/internal/features"
)

func startAt(month time.Month, day, hour int) time.Time {
	return time.Date(2019, month, day, hour, 0, 0, 0, time.UTC)
}

func TestAnalyzeTemporal_WeekendSplit(t *testing.T) {
	sessions := sessionTable(
		features.SessionRow{Session: "s1", IsWeekend: true, ViewToPurchaseRate: 0.4},
		features.SessionRow{Session: "s2", IsWeekend: true, ViewToPurchaseRate: 0.6},
		features.SessionRow{Session: "s3", ViewToPurchaseRate: 0.1},
	)

	tm, err := AnalyzeTemporal(sessions)
	if err != nil {
		t.Fatalf("AnalyzeTemporal: %v", err)
	}
	if float64(tm.WeekendConversionRate) != 0.5 {
		t.Errorf("weekend rate: got %f, want 0.5", float64(tm.WeekendConversionRate))
	}
	if float64(tm.WeekdayConversionRate) != 0.1 {
		t.Errorf("weekday rate: got %f, want 0.1", float64(tm.WeekdayConversionRate))
	}
}

func TestAnalyzeTemporal_RollupsAndPeaks(t *testing.T) {
	sessions := sessionTable(
		features.SessionRow{Session: "s1", StartedAt: startAt(time.October, 5, 9), TotalSpending: 100, ViewToPurchaseRate: 0.2},
		features.SessionRow{Session: "s2", StartedAt: startAt(time.October, 6, 9), TotalSpending: 50, ViewToPurchaseRate: 0.4},
		features.SessionRow{Session: "s3", StartedAt: startAt(time.November, 1, 20), TotalSpending: 300, ViewToPurchaseRate: 0.9},
	)

	tm, err := AnalyzeTemporal(sessions)
	if err != nil {
		t.Fatalf("AnalyzeTemporal: %v", err)
	}

	if len(tm.Monthly) != 2 || tm.Monthly[0].Month != 10 || tm.Monthly[1].Month != 11 {
		t.Fatalf("monthly rollup wrong: %+v", tm.Monthly)
	}
	oct := tm.Monthly[0]
	if oct.SessionCount != 2 || float64(oct.TotalSpending) != 150 {
		t.Errorf("october rollup wrong: %+v", oct)
	}
	if got := float64(oct.AvgConversion); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("october avg conversion: got %f, want 0.3", got)
	}

	if len(tm.Quarterly) != 1 || tm.Quarterly[0].Quarter != 4 {
		t.Errorf("quarterly rollup wrong: %+v", tm.Quarterly)
	}
	if tm.Quarterly[0].SessionCount != 3 {
		t.Errorf("expected all sessions in Q4, got %d", tm.Quarterly[0].SessionCount)
	}

	if tm.PeakActivityHour == nil || *tm.PeakActivityHour != 9 {
		t.Errorf("peak activity hour: %v", tm.PeakActivityHour)
	}
	if tm.BestConversionHour == nil || *tm.BestConversionHour != 20 {
		t.Errorf("best conversion hour: %v", tm.BestConversionHour)
	}
	if tm.PeakRevenueMonth == nil || *tm.PeakRevenueMonth != 11 {
		t.Errorf("peak revenue month: %v", tm.PeakRevenueMonth)
	}
	if tm.PeakConversionMonth == nil || *tm.PeakConversionMonth != 11 {
		t.Errorf("peak conversion month: %v", tm.PeakConversionMonth)
	}
}

func TestAnalyzeTemporal_AllPeriodsPresent(t *testing.T) {
	sessions := sessionTable(
		features.SessionRow{Session: "s1", StartedAt: startAt(time.October, 5, 9), ViewToPurchaseRate: 0.5},
	)

	tm, err := AnalyzeTemporal(sessions)
	if err != nil {
		t.Fatalf("AnalyzeTemporal: %v", err)
	}
	if len(tm.TimePeriod) != 4 {
		t.Fatalf("expected 4 time periods, got %d", len(tm.TimePeriod))
	}
	for _, p := range tm.TimePeriod {
		if p.Period == "Morning" {
			if p.SessionCount != 1 || float64(p.AvgConversion) != 0.5 {
				t.Errorf("morning rollup wrong: %+v", p)
			}
			continue
		}
		if p.SessionCount != 0 {
			t.Errorf("period %q should be empty, got %+v", p.Period, p)
		}
		// An empty period keeps its slot with a NaN mean, which serializes
		// to null rather than a misleading zero.
		if !math.IsNaN(float64(p.AvgConversion)) {
			t.Errorf("period %q: expected NaN conversion, got %f", p.Period, float64(p.AvgConversion))
		}
	}
}

func TestAnalyzeTemporal_MissingStartExcludedFromRollups(t *testing.T) {
	sessions := sessionTable(
		features.SessionRow{Session: "s1", ViewToPurchaseRate: 0.5},
	)

	tm, err := AnalyzeTemporal(sessions)
	if err != nil {
		t.Fatalf("AnalyzeTemporal: %v", err)
	}
	if len(tm.Monthly) != 0 || len(tm.Hourly) != 0 {
		t.Errorf("sessions without timestamps leaked into rollups: %+v", tm)
	}
	if tm.PeakActivityHour != nil || tm.PeakRevenueMonth != nil {
		t.Errorf("expected nil peaks with no calendar data")
	}
}

func TestPeriodLabel(t *testing.T) {
	cases := map[int]string{0: "Night", 5: "Night", 6: "Morning", 11: "Morning", 12: "Afternoon", 17: "Afternoon", 18: "Evening", 23: "Evening"}
	for hour, want := range cases {
		if got := periodLabel(hour); got != want {
			t.Errorf("periodLabel(%d) = %q, want %q", hour, got, want)
		}
	}
}
