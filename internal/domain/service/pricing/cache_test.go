package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/service/pricing"
)

type fakeFeed struct {
	quotes map[int]entity.MarketQuote
	err    error
}

func (f *fakeFeed) Latest(context.Context) (map[int]entity.MarketQuote, error) {
	return f.quotes, f.err
}

type fakeStore struct {
	hash      map[int]entity.Price
	legacy    map[int]entity.Price
	legacyErr error
	upsertErr error

	legacyReads int
	batches   [][]entity.Price
}

func newFakeStore() *fakeStore {
	return &fakeStore{hash: map[int]entity.Price{}}
}

func (s *fakeStore) Upsert(_ context.Context, prices []entity.Price) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}

	s.batches = append(s.batches, prices)
	for _, p := range prices {
		s.hash[p.ItemID] = p
	}

	return nil
}

func (s *fakeStore) GetMany(_ context.Context, ids []int) (map[int]entity.Price, error) {
	out := make(map[int]entity.Price)
	for _, id := range ids {
		if p, ok := s.hash[id]; ok {
			out[id] = p
		}
	}

	return out, nil
}

func (s *fakeStore) GetLegacy(context.Context) (map[int]entity.Price, error) {
	s.legacyReads++
	return s.legacy, s.legacyErr
}

func (s *fakeStore) written() int {
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}

	return n
}

type fakeRules struct {
	rules []entity.PriceRule
}

func (r *fakeRules) ListEnabled(context.Context) ([]entity.PriceRule, error) {
	return r.rules, nil
}

func quote(low, high float64, lowTime, highTime int64) entity.MarketQuote {
	return entity.MarketQuote{Low: &low, High: &high, LowTime: &lowTime, HighTime: &highTime}
}

func TestCache_Refresh(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	clock := time.Unix(now, 0)
	old := clock.Add(-time.Hour).Unix()

	feed := &fakeFeed{quotes: map[int]entity.MarketQuote{
		100: quote(10, 12, old, old),
		200: quote(20, 25, old, old),
	}}
	store := newFakeStore()

	cache := pricing.NewCache(feed, store, &fakeRules{}).
		WithRecencyWindow(2 * time.Minute).
		WithClock(func() time.Time { return clock })

	res, err := cache.Refresh(ctx, false)
	rq.NoError(err)
	rq.Equal(2, res.Fetched)
	rq.Equal(2, res.Written)

	// unchanged and old: nothing to write
	res, err = cache.Refresh(ctx, false)
	rq.NoError(err)
	rq.Equal(0, res.Written)

	// forced refresh writes everything again
	res, err = cache.Refresh(ctx, true)
	rq.NoError(err)
	rq.Equal(2, res.Written)

	// one changed value
	feed.quotes[200] = quote(21, 25, old, old)
	res, err = cache.Refresh(ctx, false)
	rq.NoError(err)
	rq.Equal(1, res.Written)
	rq.InDelta(21.0, store.hash[200].Low, 1e-9)

	// unchanged but recently traded
	recent := clock.Add(-30 * time.Second).Unix()
	feed.quotes[100] = quote(10, 12, old, recent)
	_, err = cache.Refresh(ctx, false)
	rq.NoError(err)
	res, err = cache.Refresh(ctx, false)
	rq.NoError(err)
	rq.Equal(1, res.Written)
}

func TestCache_RefreshNormalizesQuotes(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	high := 30.0
	feed := &fakeFeed{quotes: map[int]entity.MarketQuote{
		1: {High: &high},
		2: {},
	}}
	store := newFakeStore()

	res, err := pricing.NewCache(feed, store, &fakeRules{}).Refresh(ctx, false)
	rq.NoError(err)
	rq.Equal(1, res.Fetched)
	rq.Equal(entity.Price{ItemID: 1, Low: 30, High: 30}, store.hash[1])
	rq.NotContains(store.hash, 2)
}

func TestCache_RefreshUpstreamFailure(t *testing.T) {
	rq := require.New(t)

	store := newFakeStore()
	store.hash[1] = entity.Price{ItemID: 1, Low: 5, High: 6}

	_, err := pricing.NewCache(&fakeFeed{err: errors.New("503")}, store, &fakeRules{}).
		Refresh(context.Background(), false)
	rq.ErrorIs(err, domain.ErrUpstreamUnavailable)
	rq.Empty(store.batches)
	rq.Equal(entity.Price{ItemID: 1, Low: 5, High: 6}, store.hash[1])
}

func TestCache_RefreshWriteFailureKeepsDiffBase(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	feed := &fakeFeed{quotes: map[int]entity.MarketQuote{1: quote(1, 2, 0, 0)}}
	store := newFakeStore()
	store.upsertErr = errors.New("redis down")

	cache := pricing.NewCache(feed, store, &fakeRules{})

	_, err := cache.Refresh(ctx, false)
	rq.Error(err)

	store.upsertErr = nil
	res, err := cache.Refresh(ctx, false)
	rq.NoError(err)
	rq.Equal(1, res.Written)
}

func TestCache_RefreshBatches(t *testing.T) {
	rq := require.New(t)

	quotes := make(map[int]entity.MarketQuote)
	for id := 1; id <= 5; id++ {
		quotes[id] = quote(float64(id), float64(id), 0, 0)
	}

	store := newFakeStore()
	res, err := pricing.NewCache(&fakeFeed{quotes: quotes}, store, &fakeRules{}).
		WithBatchSize(2).
		Refresh(context.Background(), false)
	rq.NoError(err)
	rq.Equal(5, res.Written)
	rq.Len(store.batches, 3)
	rq.Equal(1, store.batches[0][0].ItemID)
}

func TestCache_RefreshAppliesRules(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	feed := &fakeFeed{quotes: map[int]entity.MarketQuote{
		1: quote(10, 20, 0, 0),
	}}
	rules := &fakeRules{rules: []entity.PriceRule{
		// chained: 51 reads the value 50 derives in the same pass
		{ItemID: 51, Type: entity.PriceRuleRecipe, Params: []byte(`{"components":[{"itemId":50,"multipliedBy":2}]}`), Enabled: true},
		{ItemID: 50, Type: entity.PriceRuleRecipe, Params: []byte(`{"components":[{"itemId":1,"multipliedBy":3}]}`), Enabled: true},
		{ItemID: 52, Type: entity.PriceRuleRecipe, Params: []byte(`{"components":[{"itemId":404,"multipliedBy":1}]}`), Enabled: true},
		{ItemID: 53, Type: entity.PriceRuleFixed, Params: []byte(`{"low":1000}`), Enabled: true},
	}}

	store := newFakeStore()
	store.hash[52] = entity.Price{ItemID: 52, Low: 7, High: 7}

	clock := time.Unix(now, 0)
	res, err := pricing.NewCache(feed, store, rules).
		WithClock(func() time.Time { return clock }).
		Refresh(ctx, false)
	rq.NoError(err)
	rq.Equal(3, res.Derived)
	rq.Equal(1, res.RulesSkipped)

	rq.Equal(entity.Price{ItemID: 50, Low: 30, High: 60, LowTime: now, HighTime: now}, store.hash[50])
	rq.Equal(entity.Price{ItemID: 51, Low: 60, High: 120, LowTime: now, HighTime: now}, store.hash[51])
	rq.Equal(entity.Price{ItemID: 53, Low: 1000, High: 1000, LowTime: now, HighTime: now}, store.hash[53])
	// skipped rule keeps its previous value
	rq.Equal(entity.Price{ItemID: 52, Low: 7, High: 7}, store.hash[52])
}

func TestCache_GetMany(t *testing.T) {
	store := newFakeStore()
	store.hash[1] = entity.Price{ItemID: 1, Low: 1, High: 2}
	store.legacy = map[int]entity.Price{
		1: {ItemID: 1, Low: 100, High: 100},
		2: {ItemID: 2, Low: 3, High: 4},
	}

	testCases := []struct {
		name      string
		ids       []int
		legacyErr error
		want      map[int]entity.Price
		wantErr   bool
	}{
		{
			name: "empty ids",
			ids:  nil,
			want: map[int]entity.Price{},
		},
		{
			name: "hash wins over legacy",
			ids:  []int{1},
			want: map[int]entity.Price{1: {ItemID: 1, Low: 1, High: 2}},
		},
		{
			name: "legacy fills the gap and unknown ids are omitted",
			ids:  []int{1, 2, 3, 3},
			want: map[int]entity.Price{
				1: {ItemID: 1, Low: 1, High: 2},
				2: {ItemID: 2, Low: 3, High: 4},
			},
		},
		{
			name:      "malformed legacy document is treated as empty",
			ids:       []int{1, 2},
			legacyErr: domain.ErrMalformedCacheData,
			want:      map[int]entity.Price{1: {ItemID: 1, Low: 1, High: 2}},
		},
		{
			name:      "legacy read failure",
			ids:       []int{2},
			legacyErr: errors.New("connection reset"),
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			store.legacyErr = tc.legacyErr
			got, err := pricing.NewCache(&fakeFeed{}, store, &fakeRules{}).GetMany(context.Background(), tc.ids)
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}

func TestCache_GetManyReusesLegacyDocument(t *testing.T) {
	testCases := []struct {
		name      string
		ttl       time.Duration
		legacyErr error
		wantReads int
	}{
		{name: "default ttl", wantReads: 1},
		{name: "malformed document is not reparsed", legacyErr: domain.ErrMalformedCacheData, wantReads: 1},
		{name: "read failure is not cached", legacyErr: errors.New("connection reset"), wantReads: 3},
		{name: "caching disabled", ttl: -1, wantReads: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			store := newFakeStore()
			store.legacy = map[int]entity.Price{2: {ItemID: 2, Low: 3, High: 4}}
			store.legacyErr = tc.legacyErr

			cache := pricing.NewCache(&fakeFeed{}, store, &fakeRules{})
			if tc.ttl != 0 {
				cache = cache.WithLegacyTTL(tc.ttl)
			}

			for range 3 {
				_, _ = cache.GetMany(context.Background(), []int{2, 7})
			}

			rq.Equal(tc.wantReads, store.legacyReads)
		})
	}
}

func TestCache_MigrateLegacyReadsFreshDocument(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := newFakeStore()
	store.legacy = map[int]entity.Price{2: {ItemID: 2, Low: 3, High: 4}}
	cache := pricing.NewCache(&fakeFeed{}, store, &fakeRules{})

	_, err := cache.GetMany(ctx, []int{2})
	rq.NoError(err)

	store.legacy[5] = entity.Price{ItemID: 5, Low: 1, High: 1}

	n, err := cache.MigrateLegacy(ctx)
	rq.NoError(err)
	rq.Equal(2, n)
	rq.Equal(2, store.legacyReads)
}

func TestCache_MigrateLegacy(t *testing.T) {
	rq := require.New(t)

	store := newFakeStore()
	store.legacy = map[int]entity.Price{
		3: {ItemID: 3, Low: 3, High: 3},
		1: {ItemID: 1, Low: 1, High: 1},
		2: {ItemID: 2, Low: 2, High: 2},
	}

	n, err := pricing.NewCache(&fakeFeed{}, store, &fakeRules{}).
		WithBatchSize(2).
		MigrateLegacy(context.Background())
	rq.NoError(err)
	rq.Equal(3, n)
	rq.Len(store.batches, 2)
	rq.Equal(3, store.written())
	rq.Len(store.legacy, 3)
}
