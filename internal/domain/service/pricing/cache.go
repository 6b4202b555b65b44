// Package pricing keeps the live item price store fresh and derives prices
// for untradeable items from price rules.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/infrastructure/monitoring"
	"osrs_profit/pkg/logx"
	"osrs_profit/pkg/lox"
)

const (
	defaultRecencyWindow = 2 * time.Minute
	defaultBatchSize     = 500
	defaultLegacyTTL     = time.Minute
	legacyCacheKey       = "legacy"
)

type PriceFeed interface {
	Latest(ctx context.Context) (map[int]entity.MarketQuote, error)
}

type PriceStore interface {
	Upsert(ctx context.Context, prices []entity.Price) error
	GetMany(ctx context.Context, ids []int) (map[int]entity.Price, error)
	GetLegacy(ctx context.Context) (map[int]entity.Price, error)
}

type RuleRepository interface {
	ListEnabled(ctx context.Context) ([]entity.PriceRule, error)
}

type RefreshResult struct {
	Fetched      int
	Written      int
	Derived      int
	RulesSkipped int
}

type Cache struct {
	feed  PriceFeed
	store PriceStore
	rules RuleRepository

	recencyWindow time.Duration
	batchSize     int
	now           func() time.Time
	legacy        *cache.Cache

	// mu serializes refreshes; reads go straight to the store.
	mu          sync.Mutex
	lastFetched map[int]entity.Price
	seeded      bool
}

func NewCache(feed PriceFeed, store PriceStore, rules RuleRepository) *Cache {
	return &Cache{
		feed:          feed,
		store:         store,
		rules:         rules,
		recencyWindow: defaultRecencyWindow,
		batchSize:     defaultBatchSize,
		now:           time.Now,
		lastFetched:   make(map[int]entity.Price),
		legacy:        cache.New(defaultLegacyTTL, 2*defaultLegacyTTL),
	}
}

// WithLegacyTTL sets how long the parsed legacy document is reused by
// GetMany. Zero reads it on every lookup.
func (c *Cache) WithLegacyTTL(ttl time.Duration) *Cache {
	if ttl <= 0 {
		c.legacy = nil
		return c
	}

	c.legacy = cache.New(ttl, 2*ttl)
	return c
}

func (c *Cache) WithRecencyWindow(d time.Duration) *Cache {
	c.recencyWindow = d
	return c
}

func (c *Cache) WithBatchSize(n int) *Cache {
	if n > 0 {
		c.batchSize = n
	}
	return c
}

func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Refresh pulls the full feed and writes what changed. The first refresh of
// the process, or a forced one, writes every entry. Price rules are
// evaluated afterwards so derived items land in the same store.
func (c *Cache) Refresh(ctx context.Context, force bool) (RefreshResult, error) {
	var result RefreshResult

	quotes, err := c.feed.Latest(ctx)
	if err != nil {
		monitoring.PriceRefresh(monitoring.ResultUpstreamError)
		return result, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	writeAll := force || !c.seeded
	fetched := make(map[int]entity.Price, len(quotes))
	changed := make([]entity.Price, 0)

	for id, q := range quotes {
		price, ok := q.Normalize(id)
		if !ok {
			continue
		}

		fetched[id] = price

		prev, seen := c.lastFetched[id]
		if writeAll || !seen || !prev.SameQuote(price) || c.isRecent(price, now) {
			changed = append(changed, price)
		}
	}

	result.Fetched = len(fetched)

	lox.SortBy(changed, priceItemID)

	if err := c.upsert(ctx, changed); err != nil {
		monitoring.PriceRefresh(monitoring.ResultError)
		return result, fmt.Errorf("store.Upsert: %w", err)
	}

	c.lastFetched = fetched
	c.seeded = true
	result.Written = len(changed)
	monitoring.PriceEntriesWritten(monitoring.KindMarket, len(changed))

	derived, skipped := c.applyRules(ctx, now)
	result.Derived = derived
	result.RulesSkipped = skipped

	monitoring.PriceRefresh(monitoring.ResultOK)

	logger(ctx).Info(
		"prices refreshed",
		slog.Int("fetched", result.Fetched),
		slog.Int("written", result.Written),
		slog.Int("derived", result.Derived),
		slog.Int("rules-skipped", result.RulesSkipped),
		slog.Bool("full", writeAll),
	)

	return result, nil
}

// GetMany resolves prices for ids. Ids without a resolvable price are absent
// from the result. Entries missing from the hash fall back to the legacy
// JSON document.
func (c *Cache) GetMany(ctx context.Context, ids []int) (map[int]entity.Price, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return map[int]entity.Price{}, nil
	}

	prices, err := c.store.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("store.GetMany: %w", err)
	}

	if len(prices) == len(ids) {
		return prices, nil
	}

	legacy, err := c.loadLegacy(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := prices[id]; ok {
			continue
		}
		if p, ok := legacy[id]; ok {
			prices[id] = p
		}
	}

	return prices, nil
}

// loadLegacy returns the cached legacy document, reading it on a miss. An
// unreadable document is cached as empty.
func (c *Cache) loadLegacy(ctx context.Context) (map[int]entity.Price, error) {
	if c.legacy != nil {
		if cached, ok := c.legacy.Get(legacyCacheKey); ok {
			return cached.(map[int]entity.Price), nil //nolint:forcetypeassert // only this type is stored
		}
	}

	legacy, err := c.store.GetLegacy(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrMalformedCacheData) {
			return nil, fmt.Errorf("store.GetLegacy: %w", err)
		}

		logger(ctx).Warn("legacy price document unreadable", logx.Error(err))
		legacy = map[int]entity.Price{}
	}

	if legacy == nil {
		legacy = map[int]entity.Price{}
	}

	if c.legacy != nil {
		c.legacy.SetDefault(legacyCacheKey, legacy)
	}

	return legacy, nil
}

// MigrateLegacy copies the legacy JSON document into the price hash. The
// legacy document itself is left untouched.
func (c *Cache) MigrateLegacy(ctx context.Context) (int, error) {
	legacy, err := c.store.GetLegacy(ctx)
	if err != nil {
		return 0, fmt.Errorf("store.GetLegacy: %w", err)
	}

	prices := lo.Values(legacy)
	lox.SortBy(prices, priceItemID)

	if err := c.upsert(ctx, prices); err != nil {
		return 0, fmt.Errorf("store.Upsert: %w", err)
	}

	return len(prices), nil
}

func (c *Cache) isRecent(p entity.Price, now time.Time) bool {
	if c.recencyWindow <= 0 {
		return false
	}

	cutoff := now.Add(-c.recencyWindow).Unix()

	return p.HighTime >= cutoff || p.LowTime >= cutoff
}

func (c *Cache) upsert(ctx context.Context, prices []entity.Price) error {
	for _, batch := range lo.Chunk(prices, c.batchSize) {
		if err := c.store.Upsert(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}

// applyRules evaluates enabled rules in item id order. A rule may read a
// price derived earlier in the same pass.
func (c *Cache) applyRules(ctx context.Context, now time.Time) (derived, skipped int) {
	rules, err := c.rules.ListEnabled(ctx)
	if err != nil {
		logger(ctx).Error("rules.ListEnabled", logx.Error(err))
		return 0, 0
	}

	if len(rules) == 0 {
		return 0, 0
	}

	lox.SortBy(rules, func(r entity.PriceRule) int { return r.ItemID })

	var componentIDs []int
	for _, r := range rules {
		componentIDs = append(componentIDs, ComponentIDs(r)...)
	}

	known, err := c.GetMany(ctx, componentIDs)
	if err != nil {
		logger(ctx).Error("rule component prices", logx.Error(err))
		return 0, 0
	}

	results := make([]entity.Price, 0, len(rules))

	for _, r := range rules {
		price, err := EvaluateRule(r, known, now.Unix())
		if err != nil {
			skipped++
			monitoring.PriceRuleSkipped(string(r.Type))
			logger(ctx).Warn("price rule skipped", slog.Int(logx.FieldItemID, r.ItemID), logx.Error(err))

			continue
		}

		known[r.ItemID] = price
		results = append(results, price)
	}

	if err := c.upsert(ctx, results); err != nil {
		logger(ctx).Error("derived prices upsert", logx.Error(err))
		return 0, skipped
	}

	monitoring.PriceEntriesWritten(monitoring.KindDerived, len(results))

	return len(results), skipped
}

func priceItemID(p entity.Price) int {
	return p.ItemID
}
