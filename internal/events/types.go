// Package events reads raw clickstream records and produces the cleaned,
// deduplicated event table the feature builders consume.
package events

import "time"

// Event type values as they appear in the raw feed.
const (
	TypeView     = "view"
	TypeCart     = "cart"
	TypePurchase = "purchase"
)

// Time-of-day period labels, bucketed on hour boundaries [0,6,12,18,24).
const (
	PeriodNight     = "night"
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"
)

// UnknownBrand is the sentinel substituted for a missing brand.
const UnknownBrand = "unknown"

// Event is one cleaned user action with its derived time fields.
// A zero Time means the raw event_time could not be parsed; the derived
// fields are left at their missing values and propagate downstream as such.
type Event struct {
	Time         time.Time
	Type         string
	ProductID    string
	CategoryCode string
	Brand        string
	Price        float64
	UserID       string
	Session      string

	// Derived by Clean. Hour and Weekday are -1 and Month is 0 when Time
	// is missing. Weekday is 0=Monday through 6=Sunday.
	Hour    int
	Weekday int
	Month   int
	Period  string

	// SessionStart is the earliest parsable event time in the session.
	SessionStart   time.Time
	TimeSinceStart float64
	PrevEventGap   float64

	// PurchaseSpending is Price for purchase events and 0 otherwise.
	PurchaseSpending float64
}

// PeriodOf buckets an hour of day into its period label.
func PeriodOf(hour int) string {
	switch {
	case hour < 6:
		return PeriodNight
	case hour < 12:
		return PeriodMorning
	case hour < 18:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}

// MondayWeekday converts Go's Sunday-based weekday to Monday=0.
func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
