// Package store provides SQLite access to the shopwatch run history.
package store

import (
	"math"
	"time"
)

// Run is one recorded pipeline run: the tag and output location of a
// persisted summary plus its headline metrics.
type Run struct {
	ID             int64     `json:"id"`
	Tag            string    `json:"tag"`
	GeneratedAt    time.Time `json:"generated_at"`
	OutputPath     string    `json:"output_path"`
	TotalSessions  int       `json:"total_sessions"`
	TotalRevenue   float64   `json:"total_revenue"`
	ViewToPurchase float64   `json:"view_to_purchase"`
	InsightCount   int       `json:"insight_count"`
}

// HasViewToPurchase reports whether the recorded rate was defined; an
// undefined rate (no sessions with views) is stored as NULL and loads
// back as NaN.
func (r *Run) HasViewToPurchase() bool {
	return !math.IsNaN(r.ViewToPurchase)
}
