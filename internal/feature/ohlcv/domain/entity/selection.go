package entity

import "time"

// Selection narrows a table to a set of symbols and an inclusive date range.
// It is rebuilt on every request from the query parameters.
type Selection struct {
	Symbols []string
	Start   time.Time // Inclusive, compared as a calendar date
	End     time.Time // Inclusive, compared as a calendar date
}

// Contains reports whether symbol is part of the selection.
func (s Selection) Contains(symbol string) bool {
	for _, sym := range s.Symbols {
		if sym == symbol {
			return true
		}
	}
	return false
}

// Valid reports whether the selection names at least one symbol and an ordered range.
func (s Selection) Valid() bool {
	if len(s.Symbols) == 0 || s.Start.IsZero() || s.End.IsZero() {
		return false
	}
	return !CalendarDay(s.Start).After(CalendarDay(s.End))
}
