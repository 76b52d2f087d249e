package usecase

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
)

// Columns is the canonical OHLCV header, in export order.
var Columns = []string{"Date", "Symbol", "Open", "High", "Low", "Close", "Volume"}

// dateLayouts are tried in order for every Date cell.
var dateLayouts = []string{
	entity.DateLayout,
	entity.DateTimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// columnIndex maps each canonical column to its position in the header.
type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required column(s): %s", ErrParse, strings.Join(missing, ", "))
	}
	return idx, nil
}

// DecodeCSV parses an OHLCV CSV document. Column order is free and extra
// columns are ignored. Records are returned in file order.
func DecodeCSV(r io.Reader) (entity.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return entity.Table{}, fmt.Errorf("%w: file is empty", ErrParse)
	}
	if err != nil {
		return entity.Table{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	idx, err := newColumnIndex(header)
	if err != nil {
		return entity.Table{}, err
	}

	records := make([]entity.Record, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entity.Table{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		line, _ := cr.FieldPos(0)
		rec, err := decodeRow(row, idx, line)
		if err != nil {
			return entity.Table{}, err
		}
		records = append(records, rec)
	}

	return entity.Table{Records: records, DateLayout: exportLayout(records)}, nil
}

func decodeRow(row []string, idx columnIndex, line int) (entity.Record, error) {
	date, err := parseDate(row[idx["Date"]])
	if err != nil {
		return entity.Record{}, fmt.Errorf("%w: line %d: %q", ErrInvalidDateFormat, line, row[idx["Date"]])
	}
	rec := entity.Record{
		Date:   date,
		Symbol: strings.TrimSpace(row[idx["Symbol"]]),
	}
	if rec.Symbol == "" {
		return entity.Record{}, fmt.Errorf("%w: line %d: empty Symbol", ErrParse, line)
	}
	if !utf8.ValidString(rec.Symbol) {
		return entity.Record{}, fmt.Errorf("%w: line %d: Symbol is not valid UTF-8", ErrParse, line)
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"Open", &rec.Open},
		{"High", &rec.High},
		{"Low", &rec.Low},
		{"Close", &rec.Close},
		{"Volume", &rec.Volume},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(row[idx[f.name]])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return entity.Record{}, fmt.Errorf("%w: line %d: column %s: %q is not a number", ErrParse, line, f.name, raw)
		}
		*f.dst = v
	}
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// exportLayout picks the narrowest layout that still reproduces every date:
// date only, then time of day, then fractional seconds, then an explicit offset.
func exportLayout(records []entity.Record) string {
	var clock, frac bool
	for _, r := range records {
		if _, offset := r.Date.Zone(); offset != 0 {
			return entity.DateTimeZoneLayout
		}
		h, m, sec := r.Date.Clock()
		clock = clock || h != 0 || m != 0 || sec != 0
		frac = frac || r.Date.Nanosecond() != 0
	}
	switch {
	case frac:
		return entity.DateTimeFracLayout
	case clock:
		return entity.DateTimeLayout
	default:
		return entity.DateLayout
	}
}

// ExportCSV serializes a table with the canonical header and no index column.
// The output is byte-stable for identical input.
func ExportCSV(t entity.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	layout := t.Layout()
	for _, r := range t.Records {
		row := []string{
			r.Date.Format(layout),
			r.Symbol,
			formatFloat(r.Open),
			formatFloat(r.High),
			formatFloat(r.Low),
			formatFloat(r.Close),
			formatFloat(r.Volume),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatFloat uses the shortest representation that parses back to the same value.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
