// Package profit turns variant recipes into worst and best case margins.
package profit

import (
	"slices"

	"github.com/samber/lo"

	"osrs_profit/internal/domain/entity"
)

// Compute returns the profit of a variant for the given prices.
//
//	low  = Σ outputs·low  − Σ inputs·high
//	high = Σ outputs·high − Σ inputs·low
//
// An item without a price contributes zero to every sum.
func Compute(variant entity.Variant, prices map[int]entity.Price) entity.Profit {
	inputsLow, inputsHigh := sum(variant.Inputs, prices)
	outputsLow, outputsHigh := sum(variant.Outputs, prices)

	return entity.Profit{
		VariantID: variant.ID,
		Low:       outputsLow - inputsHigh,
		High:      outputsHigh - inputsLow,
	}
}

// ComputeAll computes the profit of every variant of every method, keyed by
// variant id.
func ComputeAll(methods []entity.Method, prices map[int]entity.Price) entity.ProfitSnapshot {
	snapshot := make(entity.ProfitSnapshot)

	for _, m := range methods {
		for _, v := range m.Variants {
			snapshot[v.ID] = Compute(v, prices)
		}
	}

	return snapshot
}

// ItemIDs collects every item referenced by the methods, sorted and unique.
func ItemIDs(methods []entity.Method) []int {
	var ids []int

	for _, m := range methods {
		ids = append(ids, VariantItemIDs(m.Variants...)...)
	}

	ids = lo.Uniq(ids)
	slices.Sort(ids)

	return ids
}

func VariantItemIDs(variants ...entity.Variant) []int {
	var ids []int

	for _, v := range variants {
		for _, io := range v.Inputs {
			ids = append(ids, io.ID)
		}
		for _, io := range v.Outputs {
			ids = append(ids, io.ID)
		}
	}

	return ids
}

func sum(items []entity.ItemQty, prices map[int]entity.Price) (low, high float64) {
	for _, it := range items {
		p, ok := prices[it.ID]
		if !ok {
			continue
		}

		low += p.Low * it.Quantity
		high += p.High * it.Quantity
	}

	return low, high
}
