package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/blackwell-systems/shopwatch/internal/insights"
)

// Percent formats a 0-1 rate as a percentage. Undefined rates (serialized
// as null in the summary file) render as "n/a".
func Percent(f insights.Float) string {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// Amount formats a dollar value.
func Amount(f insights.Float) string {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", v)
}

// RateBar renders a visual bar for a 0-1 conversion rate.
// Example: "███░░░░░░░ 30.0%"
func RateBar(rate float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if math.IsNaN(rate) {
		return StyleMuted.Render(strings.Repeat("░", width) + " n/a")
	}

	filled := int(rate * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case rate >= 0.10:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case rate >= 0.05:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.1f%%", rate*100)))
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// metricLine renders one aligned label/value pair.
func metricLine(label, value string) string {
	return fmt.Sprintf("  %s %s", StyleLabel.Render(label), StyleValue.Render(value))
}

// RenderSummary renders the headline report for a computed summary.
func RenderSummary(s *insights.Summary) string {
	var sb strings.Builder

	sb.WriteString(Section("Funnel"))
	sb.WriteString("\n")
	sb.WriteString(metricLine("Total sessions", fmt.Sprintf("%d", s.Funnel.TotalSessions)) + "\n")
	sb.WriteString(metricLine("View → Cart", RateBar(float64(s.Funnel.ViewToCart), 20)) + "\n")
	sb.WriteString(metricLine("Cart → Purchase", RateBar(float64(s.Funnel.CartToPurchase), 20)) + "\n")
	sb.WriteString(metricLine("View → Purchase", RateBar(float64(s.Funnel.ViewToPurchase), 20)) + "\n")

	sb.WriteString(Section("Revenue"))
	sb.WriteString("\n")
	sb.WriteString(metricLine("Total revenue", Amount(s.Revenue.TotalRevenue)) + "\n")
	sb.WriteString(metricLine("Avg order value", Amount(s.Revenue.AvgOrderValue)) + "\n")
	sb.WriteString(metricLine("Revenue sessions", fmt.Sprintf("%d", s.Revenue.RevenueGeneratingSessions)) + "\n")
	sb.WriteString(metricLine("Cart abandonment", fmt.Sprintf("%d sessions", s.Revenue.CartAbandonmentSessions)) + "\n")

	if len(s.ProductPerformance.TopBrands) > 0 {
		sb.WriteString(Section("Top Brands"))
		sb.WriteString("\n")
		tbl := NewTable("Brand", "Spend", "Conversion")
		for _, b := range s.ProductPerformance.TopBrands {
			tbl.AddRow(b.Brand, Amount(b.PurchaseSpending), Percent(b.ConversionRate))
		}
		sb.WriteString(tbl.Render())
	}

	if s.Temporal.BestConversionHour != nil || s.Temporal.PeakRevenueMonth != nil {
		sb.WriteString(Section("Peaks"))
		sb.WriteString("\n")
		if h := s.Temporal.PeakActivityHour; h != nil {
			sb.WriteString(metricLine("Peak activity hour", fmt.Sprintf("%d:00", *h)) + "\n")
		}
		if h := s.Temporal.BestConversionHour; h != nil {
			sb.WriteString(metricLine("Best conversion hour", fmt.Sprintf("%d:00", *h)) + "\n")
		}
		if m := s.Temporal.PeakRevenueMonth; m != nil {
			sb.WriteString(metricLine("Peak revenue month", fmt.Sprintf("%d", *m)) + "\n")
		}
	}

	sb.WriteString(Section("Insights"))
	sb.WriteString("\n")
	if len(s.Insights) == 0 {
		sb.WriteString("  " + StyleMuted.Render("No insights triggered.") + "\n")
	}
	for _, insight := range s.Insights {
		style := StyleBold
		switch {
		case strings.HasPrefix(insight, "⚠️"):
			style = StyleWarning
		case strings.HasPrefix(insight, "✅"):
			style = StyleSuccess
		}
		sb.WriteString("  " + style.Render(insight) + "\n")
	}

	return sb.String()
}
