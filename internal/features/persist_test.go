package features

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/shopwatch/internal/events"
)

func TestWriteReadAllRoundTrip(t *testing.T) {
	dir := t.TempDir()

	evs := []events.Event{
		ev("s1", events.TypeView, "p1", "acme", "electronics.phone", at(10, 0), 100),
		ev("s1", events.TypePurchase, "p1", "acme", "electronics.phone", at(10, 5), 100),
		ev("s2", events.TypeView, "p2", "globex", "home.kitchen", at(14, 0), 30),
	}
	sessions := BuildSessions(evs)
	users, err := BuildUsers(sessions)
	if err != nil {
		t.Fatalf("BuildUsers: %v", err)
	}
	brands := BuildBrands(evs)
	categories := BuildCategories(evs)

	if err := WriteAll(dir, sessions, users, brands, categories); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	gotSessions, gotUsers, gotBrands, gotCategories, err := ReadAll(dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(gotSessions.Rows) != len(sessions.Rows) {
		t.Fatalf("session rows: got %d, want %d", len(gotSessions.Rows), len(sessions.Rows))
	}
	s := gotSessions.Rows[0]
	want := sessions.Rows[0]
	if !s.StartedAt.Equal(want.StartedAt) || !s.EndedAt.Equal(want.EndedAt) {
		t.Errorf("timestamps not re-parsed: got %v-%v, want %v-%v", s.StartedAt, s.EndedAt, want.StartedAt, want.EndedAt)
	}
	if s.ViewToPurchaseRate != want.ViewToPurchaseRate {
		t.Errorf("rate mismatch: got %f, want %f", s.ViewToPurchaseRate, want.ViewToPurchaseRate)
	}

	if len(gotUsers.Rows) != len(users.Rows) || len(gotBrands.Rows) != len(brands.Rows) || len(gotCategories.Rows) != len(categories.Rows) {
		t.Errorf("row count mismatch after round trip")
	}
	if gotBrands.Rows[0].PurchaseSpending != brands.Rows[0].PurchaseSpending {
		t.Errorf("brand spending mismatch: got %f, want %f",
			gotBrands.Rows[0].PurchaseSpending, brands.Rows[0].PurchaseSpending)
	}
}

func TestReadSessions_MissingColumnFailsFast(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SessionFile)
	if err := os.WriteFile(path, []byte("user_session,user_id\ns1,u1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadSessions(path)
	if err == nil {
		t.Fatal("expected schema error, got nil")
	}
	if !strings.Contains(err.Error(), SessionFile) {
		t.Errorf("error should name the table: %v", err)
	}
	if !strings.Contains(err.Error(), "view_count") {
		t.Errorf("error should name missing columns: %v", err)
	}
}

func TestReadAll_MissingFile(t *testing.T) {
	_, _, _, _, err := ReadAll(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing feature files")
	}
}
