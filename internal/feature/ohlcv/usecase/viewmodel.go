package usecase

import "ohlcv_dashboard/internal/feature/ohlcv/domain/entity"

// Status tells the presentation layer which variant of the page to draw.
type Status string

const (
	// StatusOK means the table, chart and summary are populated.
	StatusOK Status = "ok"
	// StatusNoSelection means no symbol is selected or the date range is invalid.
	StatusNoSelection Status = "no_selection"
	// StatusEmpty means the selection is valid but matched no rows.
	StatusEmpty Status = "empty"
	// StatusUnavailable means the dataset could not be loaded this cycle.
	StatusUnavailable Status = "unavailable"
)

// Level is the severity of a user-visible message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a banner shown above the dashboard.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Overview holds the headline metrics of the loaded dataset.
type Overview struct {
	TotalRecords    int     `json:"total_records"`
	UniqueSymbols   int     `json:"unique_symbols"`
	DateRange       string  `json:"date_range"`
	TotalVolume     float64 `json:"total_volume"`
	TotalVolumeText string  `json:"total_volume_text"`
}

// SelectionView echoes the effective selection back to the client.
type SelectionView struct {
	Symbols []string `json:"symbols"`
	Start   string   `json:"start,omitempty"`
	End     string   `json:"end,omitempty"`
}

// RowView is one row of the data table.
type RowView struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Candle is one candlestick of a chart series.
type Candle struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// VolumeBar is one bar of the volume subplot.
type VolumeBar struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

// Series carries the price and volume traces of one symbol.
type Series struct {
	Symbol  string      `json:"symbol"`
	Candles []Candle    `json:"candles"`
	Volume  []VolumeBar `json:"volume"`
}

// Chart describes the candlestick plus volume figure.
type Chart struct {
	Title           string   `json:"title"`
	Height          int      `json:"height"`
	IncreasingColor string   `json:"increasing_color"`
	DecreasingColor string   `json:"decreasing_color"`
	Series          []Series `json:"series"`
}

// ViewModel is everything the presentation layer needs to draw one page.
type ViewModel struct {
	User      string           `json:"user"`
	Source    Source           `json:"source"`
	Messages  []Message        `json:"messages"`
	Overview  *Overview        `json:"overview,omitempty"`
	Symbols   []string         `json:"available_symbols"`
	Selection *SelectionView   `json:"selection,omitempty"`
	Status    Status           `json:"status"`
	Rows      []RowView        `json:"rows"`
	Chart     *Chart           `json:"chart,omitempty"`
	Summary   []entity.Summary `json:"summary"`
}

func newViewModel(user string) *ViewModel {
	return &ViewModel{
		User:     user,
		Messages: []Message{},
		Symbols:  []string{},
		Rows:     []RowView{},
		Summary:  []entity.Summary{},
	}
}

func (vm *ViewModel) addMessage(level Level, text string) {
	vm.Messages = append(vm.Messages, Message{Level: level, Text: text})
}
