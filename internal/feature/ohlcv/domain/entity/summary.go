package entity

// PriceStats aggregates one price column for a symbol.
// Std is nil when it is undefined (fewer than two rows).
type PriceStats struct {
	Mean float64  `json:"mean"`
	Std  *float64 `json:"std"`
	Min  float64  `json:"min"`
	Max  float64  `json:"max"`
}

// VolumeStats aggregates the volume column for a symbol.
type VolumeStats struct {
	Sum  float64  `json:"sum"`
	Mean float64  `json:"mean"`
	Std  *float64 `json:"std"`
}

// Summary holds per-symbol statistics, every value rounded to 2 decimal places.
type Summary struct {
	Symbol string      `json:"symbol"`
	Count  int         `json:"count"`
	Open   PriceStats  `json:"open"`
	High   PriceStats  `json:"high"`
	Low    PriceStats  `json:"low"`
	Close  PriceStats  `json:"close"`
	Volume VolumeStats `json:"volume"`
}
