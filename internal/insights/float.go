// Package insights consumes the four feature tables and produces the
// versioned metrics summary plus the ordered list of textual insights.
package insights

import (
	"math"
	"strconv"
)

// Float is a float64 that serializes NaN and ±Inf as JSON null. Every
// ratio and mean in the summary goes through this type, so no
// non-finite value can ever reach the output file regardless of which
// metric produced it.
type Float float64

// MarshalJSON emits null for non-finite values.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts null as NaN, so a re-loaded summary round-trips.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
