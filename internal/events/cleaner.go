package events

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// RawColumns is the minimum contract for the raw event feed.
var RawColumns = []string{
	"event_time", "event_type", "product_id", "category_code",
	"brand", "price", "user_id", "user_session",
}

// Raw is one undecoded record from the raw feed. All fields are kept as
// strings so exact-row deduplication matches the source bytes.
type Raw struct {
	EventTime    string
	EventType    string
	ProductID    string
	CategoryCode string
	Brand        string
	Price        string
	UserID       string
	Session      string
}

func (r Raw) key() string {
	return strings.Join([]string{
		r.EventTime, r.EventType, r.ProductID, r.CategoryCode,
		r.Brand, r.Price, r.UserID, r.Session,
	}, "\x1f")
}

// ParseTimestamp parses an event timestamp, trying the formats seen in
// clickstream exports. Returns the zero time when nothing matches.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	layouts := []string{
		"2006-01-02 15:04:05 MST",
		time.RFC3339,
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Clean normalizes raw records into the cleaned event table:
// exact-duplicate rows are removed, rows without a session are dropped,
// missing brands become the "unknown" sentinel, timestamps are parsed
// (unparsable values stay missing, never an error), and the derived time
// and spending columns are filled in. Input order is preserved.
func Clean(raws []Raw) []Event {
	seen := make(map[string]bool, len(raws))
	evs := make([]Event, 0, len(raws))

	for _, r := range raws {
		k := r.key()
		if seen[k] {
			continue
		}
		seen[k] = true

		if r.Session == "" {
			// A session-less event cannot be attributed to anything.
			continue
		}

		brand := r.Brand
		if brand == "" {
			brand = UnknownBrand
		}

		price, _ := strconv.ParseFloat(r.Price, 64)

		ev := Event{
			Time:         ParseTimestamp(r.EventTime),
			Type:         r.EventType,
			ProductID:    r.ProductID,
			CategoryCode: r.CategoryCode,
			Brand:        brand,
			Price:        price,
			UserID:       r.UserID,
			Session:      r.Session,
		}
		if ev.Type == TypePurchase {
			ev.PurchaseSpending = price
		}
		evs = append(evs, ev)
	}

	deriveTimeFields(evs)
	deriveSessionFields(evs)
	return evs
}

// deriveTimeFields fills hour, weekday, month, and period. Events with a
// missing timestamp keep the missing markers.
func deriveTimeFields(evs []Event) {
	for i := range evs {
		ev := &evs[i]
		if ev.Time.IsZero() {
			ev.Hour = -1
			ev.Weekday = -1
			ev.Month = 0
			ev.Period = ""
			ev.TimeSinceStart = math.NaN()
			continue
		}
		ev.Hour = ev.Time.Hour()
		ev.Weekday = MondayWeekday(ev.Time)
		ev.Month = int(ev.Time.Month())
		ev.Period = PeriodOf(ev.Hour)
	}
}

// deriveSessionFields fills session_start, time_since_start, and
// prev_event_gap. Session start is the earliest parsable timestamp in the
// session; the gap is computed between consecutive rows of the same session
// in input order and is 0 for the first row or when either timestamp is
// missing.
func deriveSessionFields(evs []Event) {
	starts := make(map[string]time.Time)
	for _, ev := range evs {
		if ev.Time.IsZero() {
			continue
		}
		if start, ok := starts[ev.Session]; !ok || ev.Time.Before(start) {
			starts[ev.Session] = ev.Time
		}
	}

	prev := make(map[string]time.Time)
	for i := range evs {
		ev := &evs[i]
		ev.SessionStart = starts[ev.Session]

		if !ev.Time.IsZero() && !ev.SessionStart.IsZero() {
			ev.TimeSinceStart = ev.Time.Sub(ev.SessionStart).Seconds()
		}

		if last, ok := prev[ev.Session]; ok && !last.IsZero() && !ev.Time.IsZero() {
			ev.PrevEventGap = ev.Time.Sub(last).Seconds()
		} else {
			ev.PrevEventGap = 0
		}
		prev[ev.Session] = ev.Time
	}
}

// ValidateRawHeader checks the raw feed header against the input contract.
func ValidateRawHeader(header []string) error {
	return schema.Require("raw_events", header, RawColumns...)
}
