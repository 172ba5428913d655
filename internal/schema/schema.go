// Package schema provides the required-column contract check shared by the
// feature builders and the insight engine. Every aggregation validates its
// input table before computing anything; a violation aborts the whole run.
package schema

import (
	"fmt"
	"strings"
)

// Error reports required columns that are absent from an input table.
type Error struct {
	Table   string
	Missing []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("missing required columns in %s: [%s]", e.Table, strings.Join(e.Missing, ", "))
}

// Require checks that every required column is present in have and returns
// an *Error naming the table and all missing columns otherwise.
func Require(table string, have []string, required ...string) error {
	present := make(map[string]bool, len(have))
	for _, c := range have {
		present[c] = true
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return &Error{Table: table, Missing: missing}
	}
	return nil
}
