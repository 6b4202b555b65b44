// Package method ranks money making methods by the profit of their variants.
package method

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/service/profit"
	"osrs_profit/internal/domain/service/requirement"
	"osrs_profit/internal/domain/value"
	"osrs_profit/pkg/logx"
)

const (
	defaultCatalogTTL = 30 * time.Second
	defaultPerPage    = 10
	catalogCacheKey   = "catalog"
)

type MethodRepository interface {
	ListWithVariants(ctx context.Context) ([]entity.Method, error)
	GetByID(ctx context.Context, id string) (entity.Method, error)
}

type PriceReader interface {
	GetMany(ctx context.Context, ids []int) (map[int]entity.Price, error)
}

type TrendSource interface {
	ComputeTrend(ctx context.Context, variantID string, currentHigh float64) (entity.Trend, error)
}

type Ranker struct {
	methods MethodRepository
	prices  PriceReader
	trends  TrendSource
	catalog *cache.Cache
}

func NewRanker(methods MethodRepository, prices PriceReader, trends TrendSource) *Ranker {
	return &Ranker{
		methods: methods,
		prices:  prices,
		trends:  trends,
		catalog: cache.New(defaultCatalogTTL, 2*defaultCatalogTTL),
	}
}

// WithCatalogTTL sets how long a loaded catalog is reused. Zero disables
// caching.
func (r *Ranker) WithCatalogTTL(ttl time.Duration) *Ranker {
	if ttl <= 0 {
		r.catalog = nil
		return r
	}

	r.catalog = cache.New(ttl, 2*ttl)
	return r
}

// List returns one page of methods, each reduced to its best variant.
func (r *Ranker) List(ctx context.Context, q ListQuery) (ListResult, error) {
	methods, err := r.loadCatalog(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("method.List: %w", err)
	}

	variantCount := make(map[string]int, len(methods))
	for _, m := range methods {
		variantCount[m.ID] = len(m.Variants)
	}

	if q.Capabilities != nil {
		methods = filterByCapabilities(methods, *q.Capabilities)
	}

	prices, err := r.prices.GetMany(ctx, profit.ItemIDs(methods))
	if err != nil {
		return ListResult{}, fmt.Errorf("method.List: prices: %w", err)
	}

	ranked := make([]RankedMethod, 0, len(methods))

	for _, m := range methods {
		if !matchesMethod(m, q.Filters) {
			continue
		}

		variants := make([]RankedVariant, 0, len(m.Variants))
		for _, v := range m.Variants {
			rv := rankVariant(v, prices)
			if matchesVariant(rv, q.Filters) {
				variants = append(variants, rv)
			}
		}

		if len(variants) == 0 {
			continue
		}

		ranked = append(ranked, RankedMethod{
			ID:           m.ID,
			Slug:         m.Slug,
			Name:         m.Name,
			Category:     m.Category,
			VariantCount: variantCount[m.ID],
			Variant:      bestVariant(variants),
		})
	}

	sortMethods(ranked, q.Sort)

	return ListResult{
		Data:  paginate(ranked, q.Page, q.PerPage),
		Total: len(ranked),
	}, nil
}

// Detail returns every variant of a method with its profit, unmet
// requirements and trend. Trend failures are logged and leave the trend
// empty.
func (r *Ranker) Detail(ctx context.Context, id string, caps *entity.Capabilities) (MethodDetail, error) {
	m, err := r.methods.GetByID(ctx, id)
	if err != nil {
		return MethodDetail{}, fmt.Errorf("method.Detail: %w", err)
	}

	prices, err := r.prices.GetMany(ctx, profit.VariantItemIDs(m.Variants...))
	if err != nil {
		return MethodDetail{}, fmt.Errorf("method.Detail: prices: %w", err)
	}

	detail := MethodDetail{
		ID:          m.ID,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Variants:    make([]DetailVariant, 0, len(m.Variants)),
	}

	for _, v := range m.Variants {
		dv := DetailVariant{
			RankedVariant:   rankVariant(v, prices),
			Inputs:          v.Inputs,
			Outputs:         v.Outputs,
			Recommendations: v.Recommendations,
			ActionsPerHour:  v.ActionsPerHour,
		}

		if caps != nil {
			dv.MissingRequirements = requirement.ComputeMissing(v.Requirements, *caps)
		}

		if r.trends != nil {
			trend, err := r.trends.ComputeTrend(ctx, v.ID, dv.HighProfit)
			if err != nil {
				logger(ctx).Warn("variant trend", slog.String(logx.FieldVariantID, v.ID), logx.Error(err))
			} else {
				dv.Trend = trend
			}
		}

		detail.Variants = append(detail.Variants, dv)
	}

	return detail, nil
}

// InvalidateCatalog drops the cached catalog so the next read reloads it.
func (r *Ranker) InvalidateCatalog() {
	if r.catalog != nil {
		r.catalog.Delete(catalogCacheKey)
	}
}

func (r *Ranker) loadCatalog(ctx context.Context) ([]entity.Method, error) {
	if r.catalog != nil {
		if cached, ok := r.catalog.Get(catalogCacheKey); ok {
			return cached.([]entity.Method), nil //nolint:forcetypeassert // only this type is stored
		}
	}

	methods, err := r.methods.ListWithVariants(ctx)
	if err != nil {
		return nil, fmt.Errorf("methods.ListWithVariants: %w", err)
	}

	if r.catalog != nil {
		r.catalog.SetDefault(catalogCacheKey, methods)
	}

	return methods, nil
}

func filterByCapabilities(methods []entity.Method, caps entity.Capabilities) []entity.Method {
	out := make([]entity.Method, 0, len(methods))

	for _, m := range methods {
		variants := lo.Filter(m.Variants, func(v entity.Variant, _ int) bool {
			return requirement.IsSatisfied(v.Requirements, caps)
		})
		if len(variants) == 0 {
			continue
		}

		m.Variants = variants
		out = append(out, m)
	}

	return out
}

func rankVariant(v entity.Variant, prices map[int]entity.Price) RankedVariant {
	p := profit.Compute(v, prices)

	return RankedVariant{
		ID:             v.ID,
		Slug:           v.Slug,
		Label:          v.Label,
		LowProfit:      p.Low,
		HighProfit:     p.High,
		XpHour:         v.XpHour,
		ClickIntensity: v.ClickIntensity,
		Afkiness:       v.Afkiness,
		RiskLevel:      v.RiskLevel,
		Requirements:   v.Requirements,
	}
}

func matchesVariant(v RankedVariant, f ListFilters) bool {
	if exceeds(v.ClickIntensity, f.ClickIntensity) ||
		exceeds(v.Afkiness, f.Afkiness) ||
		exceeds(v.RiskLevel, f.RiskLevel) {
		return false
	}

	hasXp := len(v.XpHour) > 0
	if f.XpHour != nil && *f.XpHour != hasXp {
		return false
	}

	if f.Skill != "" && hasXp && !(entity.Variant{XpHour: v.XpHour}).HasSkill(f.Skill) {
		return false
	}

	if f.ShowProfitables && v.HighProfit <= 0 {
		return false
	}

	return true
}

func exceeds(actual, limit *int) bool {
	return limit != nil && actual != nil && *actual > *limit
}

func matchesMethod(m entity.Method, f ListFilters) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Name)) {
		return false
	}

	if len(f.Categories) > 0 && (m.Category == "" || !slices.Contains(f.Categories, m.Category)) {
		return false
	}

	return true
}

// bestVariant picks the highest best-case profit; ties go to the lowest id.
func bestVariant(variants []RankedVariant) RankedVariant {
	best := variants[0]

	for _, v := range variants[1:] {
		if v.HighProfit > best.HighProfit || v.HighProfit == best.HighProfit && v.ID < best.ID {
			best = v
		}
	}

	return best
}

func sortMethods(methods []RankedMethod, opts SortOptions) {
	key := sortValue(opts.Key)
	desc := opts.Order != value.SortAsc

	slices.SortStableFunc(methods, func(a, b RankedMethod) int {
		c := cmp.Compare(key(a.Variant), key(b.Variant))
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})
}

func sortValue(key value.SortKey) func(RankedVariant) float64 {
	switch key {
	case value.SortByClickIntensity:
		return func(v RankedVariant) float64 { return float64(lo.FromPtr(v.ClickIntensity)) }
	case value.SortByAfkiness:
		return func(v RankedVariant) float64 { return float64(lo.FromPtr(v.Afkiness)) }
	case value.SortByXpHour:
		return func(v RankedVariant) float64 { return entity.Variant{XpHour: v.XpHour}.XpSum() }
	default:
		return func(v RankedVariant) float64 { return v.HighProfit }
	}
}

func paginate(methods []RankedMethod, page, perPage int) []RankedMethod {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	// compared by division so huge page or perPage values cannot overflow
	if len(methods) == 0 || page-1 > (len(methods)-1)/perPage {
		return []RankedMethod{}
	}

	start := (page - 1) * perPage

	return methods[start : start+min(perPage, len(methods)-start)]
}
