package usecase

import (
	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
)

// Filter returns the records whose symbol is selected and whose calendar date
// lies within [sel.Start, sel.End]. An invalid selection returns ErrNoSelection;
// a valid selection matching nothing returns an empty table and no error.
func Filter(t entity.Table, sel entity.Selection) (entity.Table, error) {
	if !sel.Valid() {
		return entity.Table{}, ErrNoSelection
	}
	start, end := entity.CalendarDay(sel.Start), entity.CalendarDay(sel.End)

	out := entity.Table{Records: make([]entity.Record, 0), DateLayout: t.DateLayout}
	for _, r := range t.Records {
		if !sel.Contains(r.Symbol) {
			continue
		}
		day := r.Day()
		if day.Before(start) || day.After(end) {
			continue
		}
		out.Records = append(out.Records, r)
	}
	return out, nil
}
