package features

import (
	"math"
	"testing"
	"time"

	"github.com/blackwell-systems/shopwatch/internal/events"
)

func at(hour, minute int) time.Time {
	return time.Date(2019, 11, 4, hour, minute, 0, 0, time.UTC) // a Monday
}

func ev(session, typ, product, brand, category string, t time.Time, price float64) events.Event {
	e := events.Event{
		Time:         t,
		Type:         typ,
		ProductID:    product,
		CategoryCode: category,
		Brand:        brand,
		Price:        price,
		UserID:       "u-" + session,
		Session:      session,
	}
	if typ == events.TypePurchase {
		e.PurchaseSpending = price
	}
	return e
}

func TestBuildSessions_Counts(t *testing.T) {
	evs := []events.Event{
		ev("s1", events.TypeView, "p1", "acme", "electronics.phone", at(10, 0), 100),
		ev("s1", events.TypeView, "p1", "acme", "electronics.phone", at(10, 1), 100),
		ev("s1", events.TypeView, "p2", "globex", "electronics.audio", at(10, 2), 50),
		ev("s1", events.TypeCart, "p1", "acme", "electronics.phone", at(10, 3), 100),
		ev("s1", events.TypePurchase, "p1", "acme", "electronics.phone", at(10, 5), 100),
	}

	table := BuildSessions(evs)
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 session, got %d", len(table.Rows))
	}
	s := table.Rows[0]

	if s.ViewCount != 3 || s.CartCount != 1 || s.PurchaseCount != 1 {
		t.Errorf("wrong event counts: %+v", s)
	}
	if s.ViewUnique != 2 || s.CartUnique != 1 || s.PurchaseUnique != 1 {
		t.Errorf("wrong unique product counts: %+v", s)
	}
	if s.UniqueBrands != 2 || s.UniqueCategories != 2 {
		t.Errorf("wrong unique brand/category counts: %+v", s)
	}
	if s.TotalSpending != 100 {
		t.Errorf("expected spending 100, got %f", s.TotalSpending)
	}
	if s.Duration != 300 {
		t.Errorf("expected duration 300s, got %f", s.Duration)
	}
	if s.ViewToPurchaseRate != 0.5 {
		t.Errorf("expected rate 0.5, got %f", s.ViewToPurchaseRate)
	}
	if s.IsWeekend {
		t.Error("Monday session flagged as weekend")
	}
}

func TestBuildSessions_NominalValuesFromFirstEventByTime(t *testing.T) {
	// Later event listed first; the chronologically first event wins.
	evs := []events.Event{
		ev("s1", events.TypeView, "p2", "globex", "b", at(11, 0), 10),
		ev("s1", events.TypeView, "p1", "acme", "a", at(10, 0), 10),
	}
	s := BuildSessions(evs).Rows[0]
	if s.Brand != "acme" || s.CategoryCode != "a" {
		t.Errorf("expected nominal values from earliest event, got brand=%q category=%q", s.Brand, s.CategoryCode)
	}
}

func TestBuildSessions_ZeroViewsForcesZeroRate(t *testing.T) {
	evs := []events.Event{
		ev("s1", events.TypePurchase, "p1", "acme", "a", at(10, 0), 25),
	}
	s := BuildSessions(evs).Rows[0]
	if s.ViewToPurchaseRate != 0 {
		t.Errorf("expected rate 0 with zero views, got %f", s.ViewToPurchaseRate)
	}
}

func TestBuildSessions_WeekendFlag(t *testing.T) {
	sat := time.Date(2019, 11, 2, 9, 0, 0, 0, time.UTC)
	evs := []events.Event{
		ev("s1", events.TypeView, "p1", "acme", "a", sat, 10),
	}
	s := BuildSessions(evs).Rows[0]
	if !s.IsWeekend {
		t.Error("Saturday session not flagged as weekend")
	}
}

func TestBuildSessions_EndNotBeforeStart(t *testing.T) {
	evs := []events.Event{
		ev("s1", events.TypeView, "p1", "acme", "a", at(12, 0), 10),
		ev("s1", events.TypeView, "p2", "acme", "a", at(10, 0), 10),
		ev("s1", events.TypeView, "p3", "acme", "a", at(11, 0), 10),
	}
	s := BuildSessions(evs).Rows[0]
	if s.EndedAt.Before(s.StartedAt) {
		t.Errorf("session ended before it started: %v < %v", s.EndedAt, s.StartedAt)
	}
	if s.Duration != 7200 {
		t.Errorf("expected duration 7200s, got %f", s.Duration)
	}
}

func TestBuildSessions_MissingTimestampsTolerated(t *testing.T) {
	evs := []events.Event{
		ev("s1", events.TypeView, "p1", "acme", "a", time.Time{}, 10),
	}
	s := BuildSessions(evs).Rows[0]
	if !s.StartedAt.IsZero() || s.IsWeekend {
		t.Errorf("session with no parsable times should have zero timing: %+v", s)
	}
	// Duration is missing, not zero: a zero would file the session under
	// the shortest duration bucket downstream.
	if !math.IsNaN(s.Duration) {
		t.Errorf("expected missing duration, got %f", s.Duration)
	}
}

func TestBuildSessions_SortedBySessionID(t *testing.T) {
	evs := []events.Event{
		ev("s2", events.TypeView, "p1", "acme", "a", at(10, 0), 10),
		ev("s1", events.TypeView, "p1", "acme", "a", at(10, 0), 10),
	}
	table := BuildSessions(evs)
	if table.Rows[0].Session != "s1" || table.Rows[1].Session != "s2" {
		t.Errorf("sessions not sorted: %q, %q", table.Rows[0].Session, table.Rows[1].Session)
	}
}

func TestRatio_ZeroDenominator(t *testing.T) {
	if got := Ratio(5, 0); got != 0 {
		t.Errorf("Ratio(5, 0) = %f, want 0", got)
	}
	if got := Ratio(1, 4); got != 0.25 {
		t.Errorf("Ratio(1, 4) = %f, want 0.25", got)
	}
}
