package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
)

const ProfitSnapshotKey = "methods:profits"

// ProfitStore holds the latest profit snapshot as a single JSON value keyed
// by variant id.
type ProfitStore struct {
	client redis.UniversalClient
	key    string
}

func NewProfitStore(client redis.UniversalClient) *ProfitStore {
	return &ProfitStore{client: client, key: ProfitSnapshotKey}
}

// Replace swaps the whole snapshot in one write.
func (s *ProfitStore) Replace(ctx context.Context, snapshot entity.ProfitSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}

// Load returns an empty snapshot when none was stored yet.
func (s *ProfitStore) Load(ctx context.Context) (entity.ProfitSnapshot, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.ProfitSnapshot{}, nil
		}
		return nil, fmt.Errorf("redis.Get: %w", err)
	}

	var snapshot entity.ProfitSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedCacheData, s.key, err)
	}

	return snapshot, nil
}
