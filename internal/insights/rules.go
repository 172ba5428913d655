package insights

import (
	"fmt"
	"strings"
)

// Rule examines the computed summary (and optional baseline) and produces
// zero or more insight strings. Rules run in registration order and the
// resulting list preserves it; there is no ranking step.
type Rule func(s *Summary, baseline *Baseline, cfg Config) []string

// rules is the ordered built-in rule list.
var rules = []Rule{
	BaselineFunnelDeltas,
	LowFunnelRates,
	RevenueConcentration,
	CartAbandonmentRecovery,
	WeekendWeekdayDirection,
	TemporalPeaks,
	LoyaltyPremium,
	DataQualityWarnings,
}

// GenerateInsights runs every rule in order against the summary.
func GenerateInsights(s *Summary, baseline *Baseline, cfg Config) []string {
	insights := []string{}
	for _, rule := range rules {
		insights = append(insights, rule(s, baseline, cfg)...)
	}
	return insights
}

// funnelRateKeys are the baseline-compared funnel rates, in report order.
var funnelRateKeys = []string{"view_to_cart", "cart_to_purchase", "view_to_purchase"}

// BaselineFunnelDeltas emits a warning for each funnel rate that dropped by
// the alert threshold relative to the baseline, and a positive note for a
// gain of the same size. A zero baseline rate yields no comparison.
func BaselineFunnelDeltas(s *Summary, baseline *Baseline, cfg Config) []string {
	if baseline == nil {
		return nil
	}

	current := map[string]float64{
		"view_to_cart":     float64(s.Funnel.ViewToCart),
		"cart_to_purchase": float64(s.Funnel.CartToPurchase),
		"view_to_purchase": float64(s.Funnel.ViewToPurchase),
	}

	var insights []string
	for _, key := range funnelRateKeys {
		prev, ok := baseline.FunnelRate(key)
		if !ok || prev == 0 {
			continue
		}
		change := (current[key] - prev) / prev
		switch {
		case change <= -cfg.AlertChangePct:
			insights = append(insights,
				fmt.Sprintf("⚠️ %s dropped by %.1f%% compared to baseline.", key, -change*100))
		case change >= cfg.AlertChangePct:
			insights = append(insights,
				fmt.Sprintf("✅ %s increased by %.1f%% compared to baseline.", key, change*100))
		}
	}
	return insights
}

// LowFunnelRates warns on absolutely low view→cart and cart→purchase rates,
// baseline or not.
func LowFunnelRates(s *Summary, _ *Baseline, cfg Config) []string {
	var insights []string
	if float64(s.Funnel.ViewToCart) < cfg.LowFunnelThreshold {
		insights = append(insights,
			fmt.Sprintf("⚠️ View→Cart conversion is low (%.1f%%).", float64(s.Funnel.ViewToCart)*100))
	}
	if float64(s.Funnel.CartToPurchase) < cfg.LowFunnelThreshold {
		insights = append(insights,
			fmt.Sprintf("⚠️ Cart→Purchase conversion is low (%.1f%%).", float64(s.Funnel.CartToPurchase)*100))
	}
	return insights
}

// RevenueConcentration notes when the top 10 users carry more than half of
// user revenue, and always reports the top-20% share when computable.
func RevenueConcentration(s *Summary, _ *Baseline, _ Config) []string {
	var insights []string
	if float64(s.Revenue.Top10Pct) > 0.5 {
		insights = append(insights,
			fmt.Sprintf("💡 Top 10 users contribute %.1f%% of user revenue (high concentration).",
				float64(s.Revenue.Top10Pct)*100))
	}
	if top20 := float64(s.Revenue.Top20PctOfUserRevenue); top20 > 0 {
		insights = append(insights,
			fmt.Sprintf("💡 Top 20%% of users account for %.1f%% of user revenue.", top20*100))
	}
	return insights
}

// CartAbandonmentRecovery reports the recovery heuristic whenever any
// abandoned-cart sessions exist.
func CartAbandonmentRecovery(s *Summary, _ *Baseline, _ Config) []string {
	ca := s.Revenue.CartAbandonmentSessions
	if ca == 0 {
		return nil
	}
	return []string{fmt.Sprintf(
		"💰 %d cart abandonment sessions represent potential recovery of $%s.",
		ca, formatAmount(float64(s.Revenue.PotentialRevenueFromAbandonment)))}
}

// WeekendWeekdayDirection emits whichever of weekend or weekday conversion
// is relatively higher by the alert threshold; nothing within the band.
func WeekendWeekdayDirection(s *Summary, _ *Baseline, cfg Config) []string {
	weekend := float64(s.Temporal.WeekendConversionRate)
	weekday := float64(s.Temporal.WeekdayConversionRate)
	factor := 1 + cfg.AlertChangePct
	switch {
	case weekend > weekday*factor:
		return []string{"📈 Weekend conversion notably higher than weekday; consider shifting spend."}
	case weekday > weekend*factor:
		return []string{"📈 Weekday conversion notably higher than weekend; optimize campaigns accordingly."}
	}
	return nil
}

// TemporalPeaks reports the peak hour and month indicators whenever they
// are defined.
func TemporalPeaks(s *Summary, _ *Baseline, _ Config) []string {
	var insights []string
	if h := s.Temporal.BestConversionHour; h != nil {
		insights = append(insights, fmt.Sprintf("⏰ Best conversion hour: %d:00.", *h))
	}
	if m := s.Temporal.PeakRevenueMonth; m != nil {
		insights = append(insights, fmt.Sprintf("📅 Peak revenue month: %d.", *m))
	}
	if m := s.Temporal.PeakConversionMonth; m != nil {
		insights = append(insights, fmt.Sprintf("📅 Peak conversion month: %d.", *m))
	}
	return insights
}

// LoyaltyPremium reports the spend premium of loyal over casual users when
// the loyalty split exists.
func LoyaltyPremium(s *Summary, _ *Baseline, _ Config) []string {
	loyalty := s.Advanced.Loyalty
	if loyalty == nil {
		return nil
	}
	casual := float64(loyalty.CasualAvgSpend)
	if casual <= 0 {
		return nil
	}
	premium := (float64(loyalty.LoyalAvgSpend)/casual - 1) * 100
	return []string{fmt.Sprintf("⭐ Loyal users have %.1f%% higher average spend than casual users.", premium)}
}

// DataQualityWarnings flags a zero-revenue run and a user base dominated by
// zero spenders.
func DataQualityWarnings(s *Summary, _ *Baseline, _ Config) []string {
	var insights []string
	if float64(s.Revenue.TotalRevenue) == 0 {
		insights = append(insights, "⚠️ Total revenue is zero—check data ingestion or filtering.")
	}

	if len(s.Segmentation.SegmentStats) > 0 {
		total := 0
		zero := 0
		for _, seg := range s.Segmentation.SegmentStats {
			total += seg.UserCount
			if seg.Segment == zeroSpenderSegment {
				zero = seg.UserCount
			}
		}
		if total > 0 && float64(zero)/float64(total) > 0.8 {
			insights = append(insights, "⚠️ Majority of users are zero spenders; consider focusing on activation strategies.")
		}
	}
	return insights
}

// formatAmount renders a dollar amount with thousands separators and two
// decimals, e.g. 1234567.8 → "1,234,567.80".
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var sb strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(ch)
	}

	out := sb.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
