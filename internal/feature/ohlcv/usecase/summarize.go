package usecase

import (
	"math"

	"github.com/shopspring/decimal"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
)

// Summarize groups records by symbol and computes the summary statistics of
// each group. Standard deviations use the sample (N-1) convention. Symbols
// without rows never appear in the result. Values are rounded half away from
// zero on their shortest decimal form, so 2.675 becomes 2.68.
func Summarize(t entity.Table) map[string]entity.Summary {
	type columns struct {
		open, high, low, close, volume []float64
	}
	groups := make(map[string]*columns)
	for _, r := range t.Records {
		g, ok := groups[r.Symbol]
		if !ok {
			g = &columns{}
			groups[r.Symbol] = g
		}
		g.open = append(g.open, r.Open)
		g.high = append(g.high, r.High)
		g.low = append(g.low, r.Low)
		g.close = append(g.close, r.Close)
		g.volume = append(g.volume, r.Volume)
	}

	out := make(map[string]entity.Summary, len(groups))
	for sym, g := range groups {
		out[sym] = entity.Summary{
			Symbol: sym,
			Count:  len(g.open),
			Open:   priceStats(g.open),
			High:   priceStats(g.high),
			Low:    priceStats(g.low),
			Close:  priceStats(g.close),
			Volume: volumeStats(g.volume),
		}
	}
	return out
}

func priceStats(xs []float64) entity.PriceStats {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return entity.PriceStats{
		Mean: round2(mean(xs)),
		Std:  sampleStd(xs),
		Min:  round2(lo),
		Max:  round2(hi),
	}
}

func volumeStats(xs []float64) entity.VolumeStats {
	return entity.VolumeStats{
		Sum:  round2(sum(xs)),
		Mean: round2(mean(xs)),
		Std:  sampleStd(xs),
	}
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func mean(xs []float64) float64 {
	return sum(xs) / float64(len(xs))
}

// sampleStd returns nil for fewer than two observations.
func sampleStd(xs []float64) *float64 {
	if len(xs) < 2 {
		return nil
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	v := round2(math.Sqrt(ss / float64(len(xs)-1)))
	return &v
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
