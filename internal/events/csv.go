package events

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// cleanedColumns is the header of the persisted cleaned event table.
var cleanedColumns = []string{
	"event_time", "event_type", "product_id", "category_code", "brand",
	"price", "user_id", "user_session", "hour", "weekday", "month",
	"event_period", "session_start", "time_since_start", "prev_event_gap",
	"purchase_spending",
}

const timestampLayout = "2006-01-02 15:04:05 MST"

// ReadRaw decodes the raw event feed. The header must carry at least the
// columns of the input contract; extra columns are ignored.
func ReadRaw(r io.Reader) ([]Raw, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading raw event header: %w", err)
	}
	if err := ValidateRawHeader(header); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	field := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var raws []Raw
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading raw event row: %w", err)
		}
		raws = append(raws, Raw{
			EventTime:    field(row, "event_time"),
			EventType:    field(row, "event_type"),
			ProductID:    field(row, "product_id"),
			CategoryCode: field(row, "category_code"),
			Brand:        field(row, "brand"),
			Price:        field(row, "price"),
			UserID:       field(row, "user_id"),
			Session:      field(row, "user_session"),
		})
	}
	return raws, nil
}

// WriteCleaned writes the cleaned event table. Missing timestamps and
// derived values are written as empty fields.
func WriteCleaned(w io.Writer, evs []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cleanedColumns); err != nil {
		return err
	}

	for _, ev := range evs {
		row := []string{
			formatTime(ev.Time),
			ev.Type,
			ev.ProductID,
			ev.CategoryCode,
			ev.Brand,
			formatFloat(ev.Price),
			ev.UserID,
			ev.Session,
			formatIntMissing(ev.Hour, -1),
			formatIntMissing(ev.Weekday, -1),
			formatIntMissing(ev.Month, 0),
			ev.Period,
			formatTime(ev.SessionStart),
			formatFloatMissing(ev.TimeSinceStart),
			formatFloat(ev.PrevEventGap),
			formatFloat(ev.PurchaseSpending),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCleaned reads a previously persisted cleaned event table.
func ReadCleaned(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(cleanedColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading cleaned event header: %w", err)
	}
	if err := validateCleanedHeader(header); err != nil {
		return nil, err
	}

	var evs []Event
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading cleaned event row: %w", err)
		}

		ev := Event{
			Time:             ParseTimestamp(row[0]),
			Type:             row[1],
			ProductID:        row[2],
			CategoryCode:     row[3],
			Brand:            row[4],
			Price:            parseFloat(row[5]),
			UserID:           row[6],
			Session:          row[7],
			Hour:             parseIntMissing(row[8], -1),
			Weekday:          parseIntMissing(row[9], -1),
			Month:            parseIntMissing(row[10], 0),
			Period:           row[11],
			SessionStart:     ParseTimestamp(row[12]),
			TimeSinceStart:   parseFloatMissing(row[13]),
			PrevEventGap:     parseFloat(row[14]),
			PurchaseSpending: parseFloat(row[15]),
		}
		evs = append(evs, ev)
	}
	return evs, nil
}

// CleanFile reads the raw feed at rawPath, cleans it, and persists the
// cleaned table to cleanedPath, creating parent directories as needed.
// It returns the number of retained events.
func CleanFile(rawPath, cleanedPath string) (int, error) {
	f, err := os.Open(rawPath)
	if err != nil {
		return 0, fmt.Errorf("opening raw events: %w", err)
	}
	defer func() { _ = f.Close() }()

	raws, err := ReadRaw(f)
	if err != nil {
		return 0, err
	}
	evs := Clean(raws)

	if err := os.MkdirAll(filepath.Dir(cleanedPath), 0o755); err != nil {
		return 0, err
	}
	out, err := os.Create(cleanedPath)
	if err != nil {
		return 0, fmt.Errorf("creating cleaned events file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := WriteCleaned(out, evs); err != nil {
		return 0, fmt.Errorf("writing cleaned events: %w", err)
	}
	return len(evs), nil
}

// ReadCleanedFile reads the cleaned event table from disk.
func ReadCleanedFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cleaned events: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCleaned(f)
}

func validateCleanedHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, c := range header {
		have[c] = true
	}
	for i, c := range cleanedColumns {
		if !have[c] || i >= len(header) || header[i] != c {
			return fmt.Errorf("cleaned events header mismatch: expected column %q at position %d", c, i)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloatMissing(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return formatFloat(f)
}

func formatIntMissing(v, missing int) string {
	if v == missing {
		return ""
	}
	return strconv.Itoa(v)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseFloatMissing(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	return parseFloat(s)
}

func parseIntMissing(s string, missing int) int {
	if s == "" {
		return missing
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return missing
	}
	return v
}
