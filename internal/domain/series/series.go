// Package series derives views from the loaded price and event tables.
package series

import (
	"sort"
	"time"

	"github.com/okian/brent/internal/domain/model"
)

// Range is an inclusive calendar date range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d lies in [Start, End].
func (r Range) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Inverted reports whether Start is after End.
func (r Range) Inverted() bool {
	return r.Start.After(r.End)
}

// Clamp moves both ends into [lo, hi], the way the date pickers bound their input.
// An inverted range stays inverted.
func (r Range) Clamp(lo, hi time.Time) Range {
	clamp := func(d time.Time) time.Time {
		switch {
		case d.Before(lo):
			return lo
		case d.After(hi):
			return hi
		}
		return d
	}
	return Range{Start: clamp(r.Start), End: clamp(r.End)}
}

// Filter returns the price points whose date falls in r, in source order.
// An inverted range yields an empty slice.
func Filter(prices []model.PricePoint, r Range) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(prices))
	if r.Inverted() {
		return out
	}
	for _, p := range prices {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// Bounds returns the earliest and latest dates in prices. ok is false for an empty table.
func Bounds(prices []model.PricePoint) (minDate, maxDate time.Time, ok bool) {
	if len(prices) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minDate, maxDate = prices[0].Date, prices[0].Date
	for _, p := range prices[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}
	return minDate, maxDate, true
}

// ImpactCount is the number of events sharing an impact direction.
type ImpactCount struct {
	Direction string `json:"impact_direction"`
	Count     int    `json:"count"`
}

// ImpactCounts groups events by impact direction, ordered by direction.
func ImpactCounts(events []model.Event) []ImpactCount {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.ImpactDirection]++
	}
	out := make([]ImpactCount, 0, len(counts))
	for dir, n := range counts {
		out = append(out, ImpactCount{Direction: dir, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Direction < out[j].Direction })
	return out
}
