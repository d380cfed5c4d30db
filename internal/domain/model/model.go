// Package model contains the read-only records loaded from the two source files.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical textual form of a calendar date.
const DateLayout = time.DateOnly

// PricePoint is one (date, price) observation in the Brent series.
type PricePoint struct {
	Date  time.Time       // calendar date, UTC midnight
	Price decimal.Decimal // USD per barrel
}

// Event is an annotated date plotted against the price axis.
type Event struct {
	Date            time.Time // event_date
	Name            string    // event_name
	ExpectedImpact  string    // expected_impact
	ImpactDirection string    // impact_direction, e.g. positive/negative/neutral
}

// Dataset is everything a dashboard session works on. It is never mutated after load.
type Dataset struct {
	Prices []PricePoint
	Events []Event
}

// NewDate returns the calendar date y-m-d at UTC midnight.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day drops the clock part of t, keeping its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}
