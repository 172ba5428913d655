package store

import (
	"database/sql"
	"math"
	"time"
)

// RecordRun inserts a run record and returns its ID. An undefined
// view→purchase rate is stored as NULL.
func (db *DB) RecordRun(r *Run) (int64, error) {
	var rate sql.NullFloat64
	if !math.IsNaN(r.ViewToPurchase) {
		rate = sql.NullFloat64{Float64: r.ViewToPurchase, Valid: true}
	}

	result, err := db.conn.Exec(
		`INSERT INTO runs
		(tag, generated_at, output_path, total_sessions, total_revenue, view_to_purchase, insight_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Tag, r.GeneratedAt.UTC().Format(time.RFC3339), r.OutputPath,
		r.TotalSessions, r.TotalRevenue, rate, r.InsightCount,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns everything.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := "SELECT id, tag, generated_at, output_path, total_sessions, total_revenue, view_to_purchase, insight_count FROM runs ORDER BY id DESC"
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.conn.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.conn.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// FindRunByTag returns the most recent run recorded under the tag, or nil
// when the tag has never been recorded.
func (db *DB) FindRunByTag(tag string) (*Run, error) {
	rows, err := db.conn.Query(
		"SELECT id, tag, generated_at, output_path, total_sessions, total_revenue, view_to_purchase, insight_count FROM runs WHERE tag = ? ORDER BY id DESC LIMIT 1",
		tag,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRun(rows)
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var r Run
	var generatedAt string
	var rate sql.NullFloat64
	err := rows.Scan(&r.ID, &r.Tag, &generatedAt, &r.OutputPath,
		&r.TotalSessions, &r.TotalRevenue, &rate, &r.InsightCount)
	if err != nil {
		return nil, err
	}
	r.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
	if rate.Valid {
		r.ViewToPurchase = rate.Float64
	} else {
		r.ViewToPurchase = math.NaN()
	}
	return &r, nil
}
