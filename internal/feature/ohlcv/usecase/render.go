package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
)

const (
	chartHeight     = 600
	increasingColor = "#00ff00"
	decreasingColor = "#ff0000"

	// defaultSymbolCount is how many symbols are preselected when the client sends none.
	defaultSymbolCount = 2
)

// UploadStore keeps the uploaded CSV of each session.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UploadStore interface {
	// Put stores or replaces the upload of a session.
	Put(ctx context.Context, upload *entity.Upload) error
	// Get returns the upload of a session, or ErrUploadNotFound.
	Get(ctx context.Context, sessionID string) (*entity.Upload, error)
	// Delete removes the upload of a session. Deleting a missing upload is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// Viewer identifies the authenticated user a page is rendered for.
type Viewer struct {
	SessionID   string
	Username    string
	DisplayName string
}

// SelectionInput is the raw filter state sent by the client.
type SelectionInput struct {
	Symbols []string
	// SymbolsSet distinguishes "no symbols chosen" from "nothing sent yet".
	SymbolsSet bool
	Start      string
	End        string
}

// Export is a CSV download of the filtered rows.
type Export struct {
	Filename string
	Data     []byte
	Rows     int
}

// Dashboard runs the load, filter and aggregate pipeline once per request.
type Dashboard struct {
	loader  *Loader
	uploads UploadStore
	now     func() time.Time
}

// NewDashboard creates a Dashboard.
func NewDashboard(loader *Loader, uploads UploadStore) *Dashboard {
	return &Dashboard{loader: loader, uploads: uploads, now: time.Now}
}

// IsDataError reports whether err means the dataset is unavailable for this cycle.
func IsDataError(err error) bool {
	return errors.Is(err, ErrParse) ||
		errors.Is(err, ErrInvalidDateFormat) ||
		errors.Is(err, ErrMissingSampleData) ||
		errors.Is(err, ErrUnreadableSampleData)
}

// StoreUpload makes data the active dataset of the viewer's session.
// The file is stored as-is; it is validated when the next page is rendered.
func (d *Dashboard) StoreUpload(ctx context.Context, viewer Viewer, filename string, data []byte) error {
	return d.uploads.Put(ctx, &entity.Upload{
		SessionID:  viewer.SessionID,
		Filename:   filename,
		Data:       data,
		UploadedAt: d.now(),
	})
}

// ClearUpload reverts the viewer's session to the sample dataset.
func (d *Dashboard) ClearUpload(ctx context.Context, viewer Viewer) error {
	return d.uploads.Delete(ctx, viewer.SessionID)
}

// Render builds the page for one interaction. Dataset problems are reported
// through the view model; only infrastructure failures return an error.
func (d *Dashboard) Render(ctx context.Context, viewer Viewer, in SelectionInput) (*ViewModel, error) {
	vm := newViewModel(viewer.DisplayName)

	upload, err := d.activeUpload(ctx, viewer.SessionID)
	if err != nil {
		return nil, err
	}
	table, source, err := d.loader.Load(ctx, upload)
	vm.Source = source
	if err != nil {
		if !IsDataError(err) {
			return nil, err
		}
		vm.Status = StatusUnavailable
		switch {
		case errors.Is(err, ErrMissingSampleData):
			vm.addMessage(LevelError, "No sample data found. Please upload a CSV file.")
		default:
			vm.addMessage(LevelError, fmt.Sprintf("Error reading file: %v", err))
		}
		vm.addMessage(LevelError, "No data available. Please upload a CSV file or ensure sample data is present.")
		return vm, nil
	}

	if source == SourceUpload {
		vm.addMessage(LevelSuccess, fmt.Sprintf("File uploaded successfully: %s", upload.Filename))
	} else {
		vm.addMessage(LevelInfo, "Using sample data. Upload your own CSV file to analyze your data.")
	}
	vm.Overview = overview(table)
	vm.Symbols = table.Symbols()

	sel, err := resolveSelection(table, in)
	vm.Selection = selectionView(sel)
	if err != nil {
		vm.Status = StatusNoSelection
		vm.addMessage(LevelWarning, "Please select at least one symbol and a valid date range.")
		return vm, nil
	}
	filtered, err := Filter(table, sel)
	if err != nil {
		vm.Status = StatusNoSelection
		vm.addMessage(LevelWarning, "Please select at least one symbol and a valid date range.")
		return vm, nil
	}
	if filtered.Len() == 0 {
		vm.Status = StatusEmpty
		vm.addMessage(LevelWarning, "No data found for the selected filters. Please adjust your selection.")
		return vm, nil
	}

	vm.Status = StatusOK
	vm.Rows = rows(filtered)
	vm.Chart = chart(filtered, sel.Symbols)
	vm.Summary = sortedSummary(Summarize(filtered))
	return vm, nil
}

// Export returns the filtered rows of the viewer's dataset as CSV.
func (d *Dashboard) Export(ctx context.Context, viewer Viewer, in SelectionInput) (*Export, error) {
	upload, err := d.activeUpload(ctx, viewer.SessionID)
	if err != nil {
		return nil, err
	}
	table, _, err := d.loader.Load(ctx, upload)
	if err != nil {
		return nil, err
	}
	sel, err := resolveSelection(table, in)
	if err != nil {
		return nil, err
	}
	filtered, err := Filter(table, sel)
	if err != nil {
		return nil, err
	}
	if filtered.Len() == 0 {
		return nil, ErrEmptyResult
	}
	data, err := ExportCSV(filtered)
	if err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return &Export{Filename: ExportFilename(d.now()), Data: data, Rows: filtered.Len()}, nil
}

// ExportFilename names a download made at t.
func ExportFilename(t time.Time) string {
	return "ohlcv_data_" + t.Format("20060102_150405") + ".csv"
}

func (d *Dashboard) activeUpload(ctx context.Context, sessionID string) (*entity.Upload, error) {
	upload, err := d.uploads.Get(ctx, sessionID)
	if errors.Is(err, ErrUploadNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return upload, nil
}

// resolveSelection applies the widget defaults: the first two symbols when
// none were sent, and the full date range when neither bound was sent.
// The returned selection is meaningful even when err is ErrNoSelection.
func resolveSelection(t entity.Table, in SelectionInput) (entity.Selection, error) {
	available := t.Symbols()
	var sel entity.Selection

	if !in.SymbolsSet {
		n := min(defaultSymbolCount, len(available))
		sel.Symbols = append([]string{}, available[:n]...)
	} else {
		known := make(map[string]bool, len(available))
		for _, s := range available {
			known[s] = true
		}
		sel.Symbols = []string{}
		for _, s := range in.Symbols {
			if known[s] && !sel.Contains(s) {
				sel.Symbols = append(sel.Symbols, s)
			}
		}
	}

	switch {
	case in.Start == "" && in.End == "":
		first, last, ok := t.DateBounds()
		if !ok {
			return sel, ErrNoSelection
		}
		sel.Start, sel.End = entity.CalendarDay(first), entity.CalendarDay(last)
	case in.Start == "" || in.End == "":
		return sel, ErrNoSelection
	default:
		start, errStart := time.Parse(entity.DateLayout, in.Start)
		end, errEnd := time.Parse(entity.DateLayout, in.End)
		if errStart != nil || errEnd != nil {
			return sel, ErrNoSelection
		}
		sel.Start, sel.End = start, end
	}

	if !sel.Valid() {
		return sel, ErrNoSelection
	}
	return sel, nil
}

func selectionView(sel entity.Selection) *SelectionView {
	v := &SelectionView{Symbols: sel.Symbols}
	if v.Symbols == nil {
		v.Symbols = []string{}
	}
	if !sel.Start.IsZero() {
		v.Start = sel.Start.Format(entity.DateLayout)
	}
	if !sel.End.IsZero() {
		v.End = sel.End.Format(entity.DateLayout)
	}
	return v
}

func overview(t entity.Table) *Overview {
	o := &Overview{
		TotalRecords:  t.Len(),
		UniqueSymbols: len(t.Symbols()),
		TotalVolume:   t.TotalVolume(),
	}
	o.TotalVolumeText = humanize.Commaf(math.Round(o.TotalVolume))
	if first, last, ok := t.DateBounds(); ok {
		o.DateRange = first.Format(entity.DateLayout) + " to " + last.Format(entity.DateLayout)
	}
	return o
}

func rows(t entity.Table) []RowView {
	layout := t.Layout()
	out := make([]RowView, 0, t.Len())
	for _, r := range t.Records {
		out = append(out, RowView{
			Date:   r.Date.Format(layout),
			Symbol: r.Symbol,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return out
}

// chart builds one series per selected symbol that has rows, in selection order.
func chart(t entity.Table, symbols []string) *Chart {
	layout := t.Layout()
	bySymbol := make(map[string]*Series, len(symbols))
	for _, r := range t.Records {
		s, ok := bySymbol[r.Symbol]
		if !ok {
			s = &Series{Symbol: r.Symbol}
			bySymbol[r.Symbol] = s
		}
		date := r.Date.Format(layout)
		s.Candles = append(s.Candles, Candle{Date: date, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close})
		s.Volume = append(s.Volume, VolumeBar{Date: date, Volume: r.Volume})
	}

	c := &Chart{
		Title:           "OHLCV Chart for " + strings.Join(symbols, ", "),
		Height:          chartHeight,
		IncreasingColor: increasingColor,
		DecreasingColor: decreasingColor,
		Series:          make([]Series, 0, len(bySymbol)),
	}
	for _, sym := range symbols {
		if s, ok := bySymbol[sym]; ok {
			c.Series = append(c.Series, *s)
		}
	}
	return c
}

func sortedSummary(m map[string]entity.Summary) []entity.Summary {
	out := make([]entity.Summary, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
