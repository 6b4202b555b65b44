package entity

import "time"

// HistorySample is an immutable profit observation.
type HistorySample struct {
	ID         string    `json:"id"`
	VariantID  string    `json:"variantId"`
	Timestamp  time.Time `json:"timestamp"`
	LowProfit  float64   `json:"lowProfit"`
	HighProfit float64   `json:"highProfit"`
}

// SnapshotMarker is a named point-in-time annotation on a variant.
type SnapshotMarker struct {
	ID          string    `json:"id"`
	VariantID   string    `json:"variantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type OHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// HistoryPoint is one bucket. For ohlc aggregation Low/High hold the close
// values and LowOHLC/HighOHLC the full candles.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Low       float64   `json:"low"`
	High      float64   `json:"high"`
	LowOHLC   *OHLC     `json:"lowOhlc,omitempty"`
	HighOHLC  *OHLC     `json:"highOhlc,omitempty"`
	Samples   int       `json:"samples"`
}

type HistorySeries struct {
	VariantID   string           `json:"variantId"`
	Range       string           `json:"range"`
	Granularity string           `json:"granularity"`
	Aggregation string           `json:"agg"`
	Timezone    string           `json:"tz"`
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	Points      []HistoryPoint   `json:"points"`
	Snapshots   []SnapshotMarker `json:"snapshots"`
}

// Trend holds percentage changes of the best-case profit; nil means no
// comparable past value.
type Trend struct {
	LastHour  *float64 `json:"lastHour"`
	Last24h   *float64 `json:"last24h"`
	LastWeek  *float64 `json:"lastWeek"`
	LastMonth *float64 `json:"lastMonth"`
}
