package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"git.appkode.ru/pub/go/failure"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/service/history"
	"osrs_profit/internal/domain/value"
	"osrs_profit/pkg/errcodes"
	"osrs_profit/pkg/httpx/reply"
)

type historyAggregator interface {
	GetHistory(ctx context.Context, q history.HistoryQuery) (entity.HistorySeries, error)
}

type HistoryServer struct {
	aggregator   historyAggregator
	queryTimeout time.Duration
}

func NewHistoryServer(aggregator historyAggregator, queryTimeout time.Duration) HistoryServer {
	return HistoryServer{
		aggregator:   aggregator,
		queryTimeout: queryTimeout,
	}
}

func (s HistoryServer) getV1VariantHistory(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	rng, err := value.ParseHistoryRange(query.Get("range"))
	if err != nil {
		return invalidHistoryQuery(err)
	}

	granularity, err := value.ParseGranularity(query.Get("granularity"))
	if err != nil {
		return invalidHistoryQuery(err)
	}

	agg, err := value.ParseAggregation(query.Get("agg"))
	if err != nil {
		return invalidHistoryQuery(err)
	}

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	series, err := s.aggregator.GetHistory(ctx, history.HistoryQuery{
		VariantID:   r.PathValue("id"),
		Range:       rng,
		Granularity: granularity,
		Aggregation: agg,
		Timezone:    query.Get("tz"),
	})
	if err != nil {
		return fmt.Errorf("aggregator.GetHistory: %w", err)
	}

	reply.JSON(r.Context(), w, http.StatusOK, newRESTVariantHistory(series))

	return nil
}

func invalidHistoryQuery(err error) error {
	return failure.NewInvalidArgumentErrorFromError(
		err,
		failure.WithCode(errcodes.InvalidHistoryQuery),
		failure.WithDescription(err.Error()),
	)
}
