// Package entity defines the domain models for the ohlcv feature.
package entity

import "time"

// Date layouts used when a table is written back out as CSV.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	// DateTimeFracLayout keeps sub-second precision; trailing zeros are dropped.
	DateTimeFracLayout = "2006-01-02 15:04:05.999999999"
	// DateTimeZoneLayout is used when any timestamp carries a non-UTC offset.
	DateTimeZoneLayout = time.RFC3339Nano
)

// Record is one OHLCV row: a single trading period for a single symbol.
type Record struct {
	Date   time.Time // Period timestamp in the offset it was written with
	Symbol string    // Ticker symbol (e.g. "AAPL")
	Open   float64   // Opening price
	High   float64   // Highest price during the period
	Low    float64   // Lowest price during the period
	Close  float64   // Closing price
	Volume float64   // Traded volume
}

// Day returns the calendar date of the record, as written in its own offset,
// at UTC midnight.
func (r Record) Day() time.Time {
	return CalendarDay(r.Date)
}

// CalendarDay returns midnight UTC of t's calendar date in t's own location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Table is an ordered sequence of records.
// After loading, records are sorted by symbol and then by date.
type Table struct {
	Records []Record
	// DateLayout is the layout used to format dates on export.
	DateLayout string
}

// Len returns the number of records in the table.
func (t Table) Len() int {
	return len(t.Records)
}

// Layout returns the export date layout, falling back to DateLayout.
func (t Table) Layout() string {
	if t.DateLayout == "" {
		return DateLayout
	}
	return t.DateLayout
}

// Symbols returns the distinct symbols in order of first appearance.
func (t Table) Symbols() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.Records {
		if _, ok := seen[r.Symbol]; ok {
			continue
		}
		seen[r.Symbol] = struct{}{}
		out = append(out, r.Symbol)
	}
	return out
}

// DateBounds returns the earliest and latest calendar days of the records.
// ok is false when the table is empty.
func (t Table) DateBounds() (first, last time.Time, ok bool) {
	if len(t.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t.Records[0].Day(), t.Records[0].Day()
	for _, r := range t.Records[1:] {
		d := r.Day()
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return first, last, true
}

// TotalVolume sums the volume column.
func (t Table) TotalVolume() float64 {
	var sum float64
	for _, r := range t.Records {
		sum += r.Volume
	}
	return sum
}
