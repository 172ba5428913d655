package insights

import (
	"encoding/json"
	"fmt"
	"os"
)

// Baseline is a previously persisted summary envelope, used only for
// relative-change insight generation. The funnel is kept as a loose map so
// older summary shapes still deliver their rates.
type Baseline struct {
	GeneratedAt string          `json:"generated_at"`
	Tag         string          `json:"tag"`
	Summary     BaselineSummary `json:"summary"`
}

// BaselineSummary holds the parts of a prior summary the rules read. The
// funnel values stay untyped because a baseline may carry nulls or nested
// buckets alongside the plain rates.
type BaselineSummary struct {
	Funnel map[string]any `json:"funnel"`
}

// FunnelRate returns the named funnel rate from the baseline, reporting
// whether a finite numeric value was present.
func (b *Baseline) FunnelRate(key string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	v, ok := b.Summary.Funnel[key].(float64)
	return v, ok
}

// LoadBaseline reads a baseline summary file. The caller decides what a
// missing file means; loading never mutates the baseline.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline summary %s: %w", path, err)
	}
	return &b, nil
}
