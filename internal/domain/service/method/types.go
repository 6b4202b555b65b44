package method

import (
	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/value"
)

// ListFilters narrows the ranked list. Nil numeric filters are not applied;
// a numeric filter only drops variants that carry the attribute.
type ListFilters struct {
	Name            string
	Categories      []string
	ClickIntensity  *int
	Afkiness        *int
	RiskLevel       *int
	XpHour          *bool
	Skill           string
	ShowProfitables bool
}

type SortOptions struct {
	Key   value.SortKey
	Order value.SortOrder
}

type ListQuery struct {
	Page         int
	PerPage      int
	Capabilities *entity.Capabilities
	Filters      ListFilters
	Sort         SortOptions
}

type RankedVariant struct {
	ID             string
	Slug           string
	Label          string
	LowProfit      float64
	HighProfit     float64
	XpHour         []entity.XpHourEntry
	ClickIntensity *int
	Afkiness       *int
	RiskLevel      *int
	Requirements   *entity.Requirements
}

// RankedMethod is a method reduced to its most profitable variant.
// VariantCount is the number of variants before any filtering.
type RankedMethod struct {
	ID           string
	Slug         string
	Name         string
	Category     string
	VariantCount int
	Variant      RankedVariant
}

type ListResult struct {
	Data  []RankedMethod
	Total int
}

type DetailVariant struct {
	RankedVariant

	Inputs              []entity.ItemQty
	Outputs             []entity.ItemQty
	Recommendations     *entity.Requirements
	ActionsPerHour      *int
	MissingRequirements *entity.Requirements
	Trend               entity.Trend
}

type MethodDetail struct {
	ID          string
	Slug        string
	Name        string
	Description string
	Category    string
	Variants    []DetailVariant
}
