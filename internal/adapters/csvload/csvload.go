// Package csvload reads the price series and event annotation files into memory.
package csvload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/brent/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Column names of the two source files.
const (
	ColDate            = "Date"
	ColPrice           = "Price"
	ColEventDate       = "event_date"
	ColEventName       = "event_name"
	ColExpectedImpact  = "expected_impact"
	ColImpactDirection = "impact_direction"
)

// Paths locates the two source files.
type Paths struct {
	Prices string
	Events string
}

// Load reads both files. Prices are parsed day-first unless opts say otherwise, events month-first.
func Load(ctx context.Context, paths Paths, opts ...Option) (*model.Dataset, error) {
	const op = "csvload.load"

	prices, err := readFile(ctx, paths.Prices, func(r io.Reader) ([]model.PricePoint, error) {
		return ReadPrices(r, PriceOptions(opts...)...)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	events, err := readFile(ctx, paths.Events, func(r io.Reader) ([]model.Event, error) {
		return ReadEvents(r)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &model.Dataset{Prices: prices, Events: events}, nil
}

func readFile[T any](ctx context.Context, path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadPrices parses a Date,Price table. Extra columns are ignored.
func ReadPrices(r io.Reader, opts ...Option) ([]model.PricePoint, error) {
	o := apply(opts)
	var out []model.PricePoint
	err := eachRow(r, []string{ColDate, ColPrice}, func(line int, get func(string) string) error {
		date, err := parseDate(get(ColDate), o.dayFirst)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(get(ColPrice)))
		if err != nil {
			return fmt.Errorf("line %d: %w: %q", line, ErrParsePrice, get(ColPrice))
		}
		out = append(out, model.PricePoint{Date: date, Price: price})
		return nil
	})
	return out, err
}

// ReadEvents parses the event annotation table. Extra columns are ignored.
func ReadEvents(r io.Reader, opts ...Option) ([]model.Event, error) {
	o := apply(opts)
	var out []model.Event
	required := []string{ColEventDate, ColEventName, ColExpectedImpact, ColImpactDirection}
	err := eachRow(r, required, func(line int, get func(string) string) error {
		date, err := parseDate(get(ColEventDate), o.dayFirst)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, model.Event{
			Date:            date,
			Name:            get(ColEventName),
			ExpectedImpact:  get(ColExpectedImpact),
			ImpactDirection: get(ColImpactDirection),
		})
		return nil
	})
	return out, err
}

// eachRow reads the header, checks required columns and calls fn per data row.
// get returns the cell for a column name; line is 1-based and counts the header.
func eachRow(r io.Reader, required []string, fn func(line int, get func(string) string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		get := func(name string) string { return record[index[name]] }
		if err := fn(line, get); err != nil {
			return err
		}
	}
}
