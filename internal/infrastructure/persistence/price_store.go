package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/logx"
)

const (
	PriceHashKey      = "items:prices"
	LegacyPriceDocKey = "itemsPrices"
)

// PriceStore keeps one serialized price per item id in a redis hash. The
// legacy RedisJSON document is only ever read.
type PriceStore struct {
	client    redis.UniversalClient
	hashKey   string
	legacyKey string
}

func NewPriceStore(client redis.UniversalClient) *PriceStore {
	return &PriceStore{
		client:    client,
		hashKey:   PriceHashKey,
		legacyKey: LegacyPriceDocKey,
	}
}

// Upsert overwrites the given fields and leaves every other item untouched.
func (s *PriceStore) Upsert(ctx context.Context, prices []entity.Price) error {
	if len(prices) == 0 {
		return nil
	}

	values := make(map[string]any, len(prices))
	for _, p := range prices {
		raw, err := json.Marshal(fromPrice(p))
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		values[strconv.Itoa(p.ItemID)] = raw
	}

	if err := s.client.HSet(ctx, s.hashKey, values).Err(); err != nil {
		return fmt.Errorf("redis.HSet: %w", err)
	}

	return nil
}

// GetMany omits ids without an entry and entries that fail to parse.
func (s *PriceStore) GetMany(ctx context.Context, ids []int) (map[int]entity.Price, error) {
	out := make(map[int]entity.Price, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = strconv.Itoa(id)
	}

	values, err := s.client.HMGet(ctx, s.hashKey, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.HMGet: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		p, err := decodePrice(ids[i], []byte(raw))
		if err != nil {
			logger(ctx).Warn("malformed price entry", slog.Int(logx.FieldItemID, ids[i]), logx.Error(err))
			continue
		}

		out[ids[i]] = p
	}

	return out, nil
}

// GetLegacy reads the whole legacy document. A missing key is an empty map;
// an unparsable one is domain.ErrMalformedCacheData.
func (s *PriceStore) GetLegacy(ctx context.Context) (map[int]entity.Price, error) {
	raw, err := s.client.Do(ctx, "JSON.GET", s.legacyKey, "$").Text()
	if err != nil {
		if errors.Is(err, redis.Nil) || isUnknownCommand(err) {
			return map[int]entity.Price{}, nil
		}
		return nil, fmt.Errorf("redis JSON.GET: %w", err)
	}

	doc, err := parseLegacyDocument([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedCacheData, s.legacyKey, err)
	}

	out := make(map[int]entity.Price, len(doc))
	for key, q := range doc {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}

		if p, ok := q.Normalize(id); ok {
			out[id] = p
		}
	}

	return out, nil
}

// isUnknownCommand reports a server without the RedisJSON module, which
// can only mean there is no legacy document.
func isUnknownCommand(err error) bool {
	return strings.HasPrefix(err.Error(), "ERR unknown command")
}

type priceEntry struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	LowTime  int64   `json:"lowTime,omitempty"`
	HighTime int64   `json:"highTime,omitempty"`
}

func fromPrice(p entity.Price) priceEntry {
	return priceEntry{
		Low:      p.Low,
		High:     p.High,
		LowTime:  p.LowTime,
		HighTime: p.HighTime,
	}
}

func decodePrice(id int, raw []byte) (entity.Price, error) {
	var q entity.MarketQuote
	if err := json.Unmarshal(raw, &q); err != nil {
		return entity.Price{}, err
	}

	p, ok := q.Normalize(id)
	if !ok {
		return entity.Price{}, errors.New("entry without price")
	}

	return p, nil
}

// parseLegacyDocument accepts the bare object and the one-element array
// JSON.GET returns for the root path.
func parseLegacyDocument(raw []byte) (map[string]entity.MarketQuote, error) {
	var wrapped []map[string]entity.MarketQuote
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if len(wrapped) == 0 {
			return map[string]entity.MarketQuote{}, nil
		}
		return wrapped[0], nil
	}

	var doc map[string]entity.MarketQuote
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}
