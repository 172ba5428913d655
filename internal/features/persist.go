package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/blackwell-systems/shopwatch/internal/events"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

// Fixed filenames the feature tables are persisted under and read back from.
const (
	SessionFile  = "session_features.csv"
	UserFile     = "user_features.csv"
	BrandFile    = "brand_features.csv"
	CategoryFile = "category_features.csv"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// WriteAll persists the four feature tables into dir, creating it if needed.
func WriteAll(dir string, sessions *SessionTable, users *UserTable, brands *BrandTable, categories *CategoryTable) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(dir, SessionFile), sessions.Columns, sessionRecords(sessions)); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(dir, UserFile), users.Columns, userRecords(users)); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(dir, BrandFile), brands.Columns, brandRecords(brands)); err != nil {
		return err
	}
	return writeTable(filepath.Join(dir, CategoryFile), categories.Columns, categoryRecords(categories))
}

// ReadAll loads the four feature tables from dir. Session start/end
// timestamps are re-parsed; every table keeps the header it was read with
// so downstream contract checks see what is actually on disk.
func ReadAll(dir string) (*SessionTable, *UserTable, *BrandTable, *CategoryTable, error) {
	sessions, err := ReadSessions(filepath.Join(dir, SessionFile))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	users, err := ReadUsers(filepath.Join(dir, UserFile))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	brands, err := ReadBrands(filepath.Join(dir, BrandFile))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	categories, err := ReadCategories(filepath.Join(dir, CategoryFile))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return sessions, users, brands, categories, nil
}

func sessionRecords(t *SessionTable) [][]string {
	recs := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		recs = append(recs, []string{
			r.Session, r.UserID, r.CategoryCode, r.Brand,
			itoa(r.ViewCount), itoa(r.CartCount), itoa(r.PurchaseCount),
			itoa(r.UniqueBrands), itoa(r.UniqueCategories),
			ftime(r.StartedAt), ftime(r.EndedAt), ftoa(r.TotalSpending),
			itoa(r.CartUnique), itoa(r.PurchaseUnique), itoa(r.ViewUnique),
			ftoa(r.Duration), ftoa(r.ViewToPurchaseRate), fbool(r.IsWeekend),
		})
	}
	return recs
}

func userRecords(t *UserTable) [][]string {
	recs := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		recs = append(recs, []string{
			r.UserID, itoa(r.TotalSessions),
			itoa(r.TotalViews), itoa(r.TotalCarts), itoa(r.TotalPurchases),
			itoa(r.UniquePurchases), itoa(r.UniqueViews),
			ftoa(r.AvgSessionDuration), ftoa(r.TotalSpending),
			ftoa(r.ViewToPurchaseRate), ftoa(r.PurchasePerSession),
		})
	}
	return recs
}

func brandRecords(t *BrandTable) [][]string {
	recs := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		recs = append(recs, []string{
			r.Brand, itoa(r.CartUnique), itoa(r.PurchaseUnique), itoa(r.ViewUnique),
			ftoa(r.ViewToPurchaseRate), ftoa(r.PurchaseSpending),
		})
	}
	return recs
}

func categoryRecords(t *CategoryTable) [][]string {
	recs := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		recs = append(recs, []string{
			r.CategoryCode, itoa(r.CartUnique), itoa(r.PurchaseUnique), itoa(r.ViewUnique),
			ftoa(r.ViewToPurchaseRate), ftoa(r.PurchaseSpending),
		})
	}
	return recs
}

// ReadSessions loads the session feature table.
func ReadSessions(path string) (*SessionTable, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Require(SessionFile, header, SessionColumns...); err != nil {
		return nil, err
	}

	col := columnIndex(header)
	t := &SessionTable{Columns: header}
	for _, row := range rows {
		t.Rows = append(t.Rows, SessionRow{
			Session:            row[col["user_session"]],
			UserID:             row[col["user_id"]],
			CategoryCode:       row[col["category_code"]],
			Brand:              row[col["brand"]],
			ViewCount:          atoi(row[col["view_count"]]),
			CartCount:          atoi(row[col["cart_count"]]),
			PurchaseCount:      atoi(row[col["purchase_count"]]),
			UniqueBrands:       atoi(row[col["n_unique_brands"]]),
			UniqueCategories:   atoi(row[col["n_unique_categories"]]),
			StartedAt:          ptime(row[col["session_started_at"]]),
			EndedAt:            ptime(row[col["session_ended_at"]]),
			TotalSpending:      atof(row[col["session_total_spending"]]),
			CartUnique:         atoi(row[col["cart_unique"]]),
			PurchaseUnique:     atoi(row[col["purchase_unique"]]),
			ViewUnique:         atoi(row[col["view_unique"]]),
			Duration:           atof(row[col["session_duration"]]),
			ViewToPurchaseRate: atof(row[col["view_to_purchase_rate"]]),
			IsWeekend:          row[col["is_weekend"]] == "true",
		})
	}
	return t, nil
}

// ReadUsers loads the user feature table.
func ReadUsers(path string) (*UserTable, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Require(UserFile, header, UserColumns...); err != nil {
		return nil, err
	}

	col := columnIndex(header)
	t := &UserTable{Columns: header}
	for _, row := range rows {
		t.Rows = append(t.Rows, UserRow{
			UserID:             row[col["user_id"]],
			TotalSessions:      atoi(row[col["user_total_sessions"]]),
			TotalViews:         atoi(row[col["total_view_count"]]),
			TotalCarts:         atoi(row[col["total_cart_count"]]),
			TotalPurchases:     atoi(row[col["total_purchase_count"]]),
			UniquePurchases:    atoi(row[col["total_unique_purchase_count"]]),
			UniqueViews:        atoi(row[col["total_unique_view_count"]]),
			AvgSessionDuration: atof(row[col["user_avg_session_duration"]]),
			TotalSpending:      atof(row[col["user_total_spending"]]),
			ViewToPurchaseRate: atof(row[col["user_view_to_purchase_rate"]]),
			PurchasePerSession: atof(row[col["user_purchase_per_session"]]),
		})
	}
	return t, nil
}

// ReadBrands loads the brand feature table.
func ReadBrands(path string) (*BrandTable, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Require(BrandFile, header, BrandColumns...); err != nil {
		return nil, err
	}

	col := columnIndex(header)
	t := &BrandTable{Columns: header}
	for _, row := range rows {
		t.Rows = append(t.Rows, BrandRow{
			Brand:              row[col["brand"]],
			CartUnique:         atoi(row[col["cart"]]),
			PurchaseUnique:     atoi(row[col["purchase"]]),
			ViewUnique:         atoi(row[col["view"]]),
			ViewToPurchaseRate: atof(row[col["brand_view_to_purchase_rate"]]),
			PurchaseSpending:   atof(row[col["purchase_spending"]]),
		})
	}
	return t, nil
}

// ReadCategories loads the category feature table.
func ReadCategories(path string) (*CategoryTable, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Require(CategoryFile, header, CategoryColumns...); err != nil {
		return nil, err
	}

	col := columnIndex(header)
	t := &CategoryTable{Columns: header}
	for _, row := range rows {
		t.Rows = append(t.Rows, CategoryRow{
			CategoryCode:       row[col["category_code"]],
			CartUnique:         atoi(row[col["cart"]]),
			PurchaseUnique:     atoi(row[col["purchase"]]),
			ViewUnique:         atoi(row[col["view"]]),
			ViewToPurchaseRate: atof(row[col["category_view_to_purchase_rate"]]),
			PurchaseSpending:   atof(row[col["purchase_spending"]]),
		})
	}
	return t, nil
}

func writeTable(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("%s is empty", path)
		}
		return nil, nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s rows: %w", path, err)
	}
	return header, rows, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, c := range header {
		idx[c] = i
	}
	return idx
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func fbool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func ftime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func ptime(s string) time.Time {
	return events.ParseTimestamp(s)
}
