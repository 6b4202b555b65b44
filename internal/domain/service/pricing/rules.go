package pricing

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type fixedParams struct {
	Low  *float64 `json:"low"`
	High *float64 `json:"high"`
}

type recipeComponent struct {
	ItemID       *int     `json:"itemId"`
	MultipliedBy *float64 `json:"multipliedBy"`
}

type recipeParams struct {
	Components []recipeComponent `json:"components"`
}

type bestRecipeParams struct {
	Recipes []recipeParams `json:"recipes"`
}

// EvaluateRule derives the price of rule.ItemID from known prices. Every
// failure wraps domain.ErrRuleEvaluationSkipped and means the previous
// derived value must be left untouched.
func EvaluateRule(rule entity.PriceRule, prices map[int]entity.Price, nowUnix int64) (entity.Price, error) {
	var (
		low, high float64
		err       error
	)

	switch rule.Type {
	case entity.PriceRuleFixed:
		low, high, err = evaluateFixed(rule.Params)
	case entity.PriceRuleRecipe:
		low, high, err = evaluateRecipe(rule.Params, prices)
	case entity.PriceRuleBestRecipe:
		low, high, err = evaluateBestRecipe(rule.Params, prices)
	default:
		err = fmt.Errorf("unknown rule type %q", rule.Type)
	}

	if err != nil {
		return entity.Price{}, fmt.Errorf("%w: item %d (%s): %w", domain.ErrRuleEvaluationSkipped, rule.ItemID, rule.Type, err)
	}

	return entity.Price{
		ItemID:   rule.ItemID,
		Low:      low,
		High:     high,
		LowTime:  nowUnix,
		HighTime: nowUnix,
	}, nil
}

// ComponentIDs lists every item a rule reads.
func ComponentIDs(rule entity.PriceRule) []int {
	var ids []int

	collect := func(components []recipeComponent) {
		for _, c := range components {
			if c.ItemID != nil {
				ids = append(ids, *c.ItemID)
			}
		}
	}

	switch rule.Type {
	case entity.PriceRuleRecipe:
		var p recipeParams
		if json.Unmarshal(rule.Params, &p) == nil {
			collect(p.Components)
		}
	case entity.PriceRuleBestRecipe:
		var p bestRecipeParams
		if json.Unmarshal(rule.Params, &p) == nil {
			for _, r := range p.Recipes {
				collect(r.Components)
			}
		}
	}

	return ids
}

func evaluateFixed(raw []byte) (low, high float64, err error) {
	var p fixedParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, 0, fmt.Errorf("invalid params: %w", err)
	}

	if p.Low == nil {
		return 0, 0, fmt.Errorf("invalid params: low is required")
	}

	low = *p.Low
	high = low
	if p.High != nil {
		high = *p.High
	}

	return low, high, nil
}

func evaluateRecipe(raw []byte, prices map[int]entity.Price) (low, high float64, err error) {
	var p recipeParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, 0, fmt.Errorf("invalid params: %w", err)
	}

	return recipeTotal(p.Components, prices)
}

// evaluateBestRecipe takes the minimum low and the minimum high across all
// fully priced recipes. The two minima may come from different recipes.
func evaluateBestRecipe(raw []byte, prices map[int]entity.Price) (low, high float64, err error) {
	var p bestRecipeParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, 0, fmt.Errorf("invalid params: %w", err)
	}

	if len(p.Recipes) == 0 {
		return 0, 0, fmt.Errorf("invalid params: no recipes")
	}

	low, high = math.Inf(1), math.Inf(1)
	priced := 0

	for _, r := range p.Recipes {
		l, h, err := recipeTotal(r.Components, prices)
		if err != nil {
			continue
		}

		priced++
		low = math.Min(low, l)
		high = math.Min(high, h)
	}

	if priced == 0 {
		return 0, 0, fmt.Errorf("no recipe could be priced")
	}

	return low, high, nil
}

func recipeTotal(components []recipeComponent, prices map[int]entity.Price) (low, high float64, err error) {
	if len(components) == 0 {
		return 0, 0, fmt.Errorf("invalid params: no components")
	}

	for i, c := range components {
		if c.ItemID == nil || c.MultipliedBy == nil {
			return 0, 0, fmt.Errorf("invalid params: component %d", i)
		}

		price, ok := prices[*c.ItemID]
		if !ok {
			return 0, 0, fmt.Errorf("missing price for item %d", *c.ItemID)
		}

		low += *c.MultipliedBy * price.Low
		high += *c.MultipliedBy * price.High
	}

	return low, high, nil
}
