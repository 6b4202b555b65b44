package entity

// Profit is the worst (Low) and best (High) margin of a variant for one
// price snapshot.
type Profit struct {
	VariantID string  `json:"variantId"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
}

// ProfitSnapshot maps variant id to its profit.
type ProfitSnapshot map[string]Profit
