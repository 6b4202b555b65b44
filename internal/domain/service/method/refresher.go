package method

import (
	"context"
	"fmt"
	"log/slog"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/service/profit"
	"osrs_profit/internal/infrastructure/monitoring"
)

type ProfitWriter interface {
	Replace(ctx context.Context, snapshot entity.ProfitSnapshot) error
}

// Refresher recomputes the profit of every variant from current prices and
// stores the result for the history recorder.
type Refresher struct {
	methods MethodRepository
	prices  PriceReader
	store   ProfitWriter
}

func NewRefresher(methods MethodRepository, prices PriceReader, store ProfitWriter) *Refresher {
	return &Refresher{
		methods: methods,
		prices:  prices,
		store:   store,
	}
}

func (r *Refresher) Recompute(ctx context.Context) (int, error) {
	methods, err := r.methods.ListWithVariants(ctx)
	if err != nil {
		return 0, fmt.Errorf("method.Recompute: %w", err)
	}

	prices, err := r.prices.GetMany(ctx, profit.ItemIDs(methods))
	if err != nil {
		return 0, fmt.Errorf("method.Recompute: prices: %w", err)
	}

	snapshot := profit.ComputeAll(methods, prices)

	if err := r.store.Replace(ctx, snapshot); err != nil {
		return 0, fmt.Errorf("method.Recompute: store: %w", err)
	}

	monitoring.ProfitSnapshotSize(len(snapshot))
	logger(ctx).Info("profit snapshot stored", slog.Int("variants", len(snapshot)), slog.Int("items", len(prices)))

	return len(snapshot), nil
}
