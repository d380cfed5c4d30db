package csvload

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/brent/internal/domain/model"
)

// Layouts tried for every date cell, unambiguous ones first. The Brent series mixes
// "20-May-87" for older rows and "Apr 22, 2020" for recent ones.
var (
	namedLayouts = []string{
		time.DateOnly,
		"2006/01/02",
		"2-Jan-06",
		"2-Jan-2006",
		"02 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	dayFirstLayouts   = []string{"2/1/2006", "2-1-2006", "2.1.2006", "2/1/06"}
	monthFirstLayouts = []string{"1/2/2006", "1-2-2006", "1.2.2006", "1/2/06"}
)

// parseDate reads a calendar date. dayFirst picks the order for numeric d/m/y forms.
func parseDate(s string, dayFirst bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	numeric := monthFirstLayouts
	if dayFirst {
		numeric = dayFirstLayouts
	}
	for _, group := range [][]string{namedLayouts, numeric} {
		for _, layout := range group {
			if t, err := time.Parse(layout, s); err == nil {
				return model.Day(t), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrParseDate, s)
}
