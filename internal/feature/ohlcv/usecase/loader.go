package usecase

import (
	"bytes"
	"context"
	"sort"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
)

// Source identifies where the table of a render cycle came from.
type Source string

const (
	SourceUpload Source = "upload"
	SourceSample Source = "sample"
)

// SampleSource provides the bundled sample CSV.
// Implementations return ErrMissingSampleData when the file does not exist.
type SampleSource interface {
	ReadSample(ctx context.Context) ([]byte, error)
}

// Loader obtains the table for a render cycle from an upload or the sample file.
type Loader struct {
	sample SampleSource
}

// NewLoader creates a Loader backed by the given sample source.
func NewLoader(sample SampleSource) *Loader {
	return &Loader{sample: sample}
}

// Load parses upload when it is non-nil and the sample file otherwise.
// A failing upload never falls back to the sample.
func (l *Loader) Load(ctx context.Context, upload *entity.Upload) (entity.Table, Source, error) {
	if upload != nil {
		t, err := decodeAndSort(upload.Data)
		return t, SourceUpload, err
	}
	data, err := l.sample.ReadSample(ctx)
	if err != nil {
		return entity.Table{}, SourceSample, err
	}
	t, err := decodeAndSort(data)
	return t, SourceSample, err
}

func decodeAndSort(data []byte) (entity.Table, error) {
	t, err := DecodeCSV(bytes.NewReader(data))
	if err != nil {
		return entity.Table{}, err
	}
	SortTable(t)
	return t, nil
}

// SortTable stable-sorts records by symbol and then by date, in place.
// Records sharing both keys keep their file order.
func SortTable(t entity.Table) {
	sort.SliceStable(t.Records, func(i, j int) bool {
		a, b := t.Records[i], t.Records[j]
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Date.Before(b.Date)
	})
}
