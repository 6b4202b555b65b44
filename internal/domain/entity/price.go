package entity

import "encoding/json"

// Price is the current market quote of one item. High is already resolved:
// when the feed carries no high quote it equals Low.
type Price struct {
	ItemID   int     `json:"itemId"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	LowTime  int64   `json:"lowTime,omitempty"`
	HighTime int64   `json:"highTime,omitempty"`
}

// SameQuote reports whether two quotes carry identical values and timestamps.
func (p Price) SameQuote(other Price) bool {
	return p.Low == other.Low &&
		p.High == other.High &&
		p.LowTime == other.LowTime &&
		p.HighTime == other.HighTime
}

type PriceRuleType string

const (
	PriceRuleFixed      PriceRuleType = "FIXED"
	PriceRuleRecipe     PriceRuleType = "RECIPE"
	PriceRuleBestRecipe PriceRuleType = "BEST_RECIPE"
)

// PriceRule derives a price for an item that has no market quote.
type PriceRule struct {
	ItemID  int             `json:"itemId"`
	Type    PriceRuleType   `json:"type"`
	Params  json.RawMessage `json:"params"`
	Notes   string          `json:"notes,omitempty"`
	Enabled bool            `json:"enabled"`
}

// MarketQuote is one raw entry of the upstream feed. Any field may be absent.
type MarketQuote struct {
	Low      *float64 `json:"low"`
	High     *float64 `json:"high"`
	LowTime  *int64   `json:"lowTime"`
	HighTime *int64   `json:"highTime"`
}

// Normalize resolves a quote into a Price. A quote without any side is
// unusable; a quote with only a high side uses it as low as well.
func (q MarketQuote) Normalize(itemID int) (Price, bool) {
	var p Price

	switch {
	case q.Low != nil:
		p.Low = *q.Low
		p.High = *q.Low
		if q.High != nil {
			p.High = *q.High
		}
	case q.High != nil:
		p.Low = *q.High
		p.High = *q.High
	default:
		return Price{}, false
	}

	p.ItemID = itemID
	if q.LowTime != nil {
		p.LowTime = *q.LowTime
	}
	if q.HighTime != nil {
		p.HighTime = *q.HighTime
	}

	return p, true
}
