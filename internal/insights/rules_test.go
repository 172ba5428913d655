package insights

import (
	"strings"
	"testing"
)

func baselineWithFunnel(rates map[string]any) *Baseline {
	return &Baseline{Tag: "prior", Summary: BaselineSummary{Funnel: rates}}
}

func summaryWithFunnel(viewToCart, cartToPurchase, viewToPurchase float64) *Summary {
	return &Summary{Funnel: Funnel{
		ViewToCart:     Float(viewToCart),
		CartToPurchase: Float(cartToPurchase),
		ViewToPurchase: Float(viewToPurchase),
	}}
}

func TestBaselineFunnelDeltas_DropWarns(t *testing.T) {
	baseline := baselineWithFunnel(map[string]any{"view_to_cart": 0.20})
	s := summaryWithFunnel(0.17, 0, 0) // a 15% relative drop

	insights := BaselineFunnelDeltas(s, baseline, DefaultConfig())
	if len(insights) != 1 {
		t.Fatalf("expected one insight, got %v", insights)
	}
	want := "⚠️ view_to_cart dropped by 15.0% compared to baseline."
	if insights[0] != want {
		t.Errorf("got %q, want %q", insights[0], want)
	}
}

func TestBaselineFunnelDeltas_SmallChangeSilent(t *testing.T) {
	baseline := baselineWithFunnel(map[string]any{"view_to_cart": 0.20})
	s := summaryWithFunnel(0.19, 0, 0) // a 5% relative drop, inside the band

	if insights := BaselineFunnelDeltas(s, baseline, DefaultConfig()); len(insights) != 0 {
		t.Errorf("expected no insight for a 5%% drop, got %v", insights)
	}
}

func TestBaselineFunnelDeltas_GainNotes(t *testing.T) {
	baseline := baselineWithFunnel(map[string]any{"cart_to_purchase": 0.30})
	s := summaryWithFunnel(0, 0.36, 0) // a 20% relative gain

	insights := BaselineFunnelDeltas(s, baseline, DefaultConfig())
	if len(insights) != 1 || !strings.HasPrefix(insights[0], "✅ cart_to_purchase increased by 20.0%") {
		t.Errorf("got %v", insights)
	}
}

func TestBaselineFunnelDeltas_ZeroOrMissingBaseline(t *testing.T) {
	baseline := baselineWithFunnel(map[string]any{"view_to_cart": 0.0, "cart_to_purchase": nil})
	s := summaryWithFunnel(0.5, 0.5, 0)

	if insights := BaselineFunnelDeltas(s, baseline, DefaultConfig()); len(insights) != 0 {
		t.Errorf("zero or null baseline rates must not compare, got %v", insights)
	}
	if insights := BaselineFunnelDeltas(s, nil, DefaultConfig()); insights != nil {
		t.Errorf("nil baseline must be silent, got %v", insights)
	}
}

func TestLowFunnelRates(t *testing.T) {
	s := summaryWithFunnel(0.05, 0.5, 0)
	insights := LowFunnelRates(s, nil, DefaultConfig())
	if len(insights) != 1 || !strings.Contains(insights[0], "View→Cart") {
		t.Errorf("got %v", insights)
	}

	s = summaryWithFunnel(0.5, 0.5, 0)
	if insights := LowFunnelRates(s, nil, DefaultConfig()); len(insights) != 0 {
		t.Errorf("healthy rates flagged: %v", insights)
	}
}

func TestCartAbandonmentRecovery_Formatting(t *testing.T) {
	s := &Summary{Revenue: Revenue{
		CartAbandonmentSessions:         3,
		PotentialRevenueFromAbandonment: Float(1234567.8),
	}}
	insights := CartAbandonmentRecovery(s, nil, DefaultConfig())
	want := "💰 3 cart abandonment sessions represent potential recovery of $1,234,567.80."
	if len(insights) != 1 || insights[0] != want {
		t.Errorf("got %v, want %q", insights, want)
	}

	s.Revenue.CartAbandonmentSessions = 0
	if insights := CartAbandonmentRecovery(s, nil, DefaultConfig()); insights != nil {
		t.Errorf("no abandonment must emit nothing, got %v", insights)
	}
}

func TestWeekendWeekdayDirection(t *testing.T) {
	s := &Summary{Temporal: Temporal{WeekendConversionRate: 0.30, WeekdayConversionRate: 0.20}}
	insights := WeekendWeekdayDirection(s, nil, DefaultConfig())
	if len(insights) != 1 || !strings.Contains(insights[0], "Weekend conversion") {
		t.Errorf("got %v", insights)
	}

	// Within the 10% band neither direction fires.
	s.Temporal = Temporal{WeekendConversionRate: 0.21, WeekdayConversionRate: 0.20}
	if insights := WeekendWeekdayDirection(s, nil, DefaultConfig()); insights != nil {
		t.Errorf("in-band difference fired: %v", insights)
	}
}

func TestDataQualityWarnings_ZeroRevenue(t *testing.T) {
	s := &Summary{}
	insights := DataQualityWarnings(s, nil, DefaultConfig())
	if len(insights) != 1 || !strings.Contains(insights[0], "Total revenue is zero") {
		t.Errorf("got %v", insights)
	}
}

func TestDataQualityWarnings_ZeroSpenderMajority(t *testing.T) {
	s := &Summary{
		Revenue: Revenue{TotalRevenue: 100},
		Segmentation: Segmentation{SegmentStats: []SegmentStat{
			{Segment: zeroSpenderSegment, UserCount: 9},
			{Segment: "Low Nonzero", UserCount: 1},
		}},
	}
	insights := DataQualityWarnings(s, nil, DefaultConfig())
	if len(insights) != 1 || !strings.Contains(insights[0], "zero spenders") {
		t.Errorf("got %v", insights)
	}
}

func TestGenerateInsights_OrderAndEmpty(t *testing.T) {
	// A summary with revenue and no triggers still returns an initialized
	// empty list, never nil, so the JSON field is [] rather than null.
	s := &Summary{
		Funnel:   Funnel{ViewToCart: 0.5, CartToPurchase: 0.5},
		Revenue:  Revenue{TotalRevenue: 100},
		Temporal: Temporal{WeekendConversionRate: 0.2, WeekdayConversionRate: 0.2},
	}
	insights := GenerateInsights(s, nil, DefaultConfig())
	if insights == nil {
		t.Fatal("insight list must not be nil")
	}
	if len(insights) != 0 {
		t.Errorf("expected no insights, got %v", insights)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		999.5:      "999.50",
		1000:       "1,000.00",
		1234567.89: "1,234,567.89",
		-2500.5:    "-2,500.50",
	}
	for v, want := range cases {
		if got := formatAmount(v); got != want {
			t.Errorf("formatAmount(%v) = %q, want %q", v, got, want)
		}
	}
}
