package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/errcodes"
	"osrs_profit/pkg/httpx/reply"
	"osrs_profit/pkg/httpx/req"
	"osrs_profit/pkg/lox"
	"osrs_profit/pkg/rest"
)

const maxPriceIDs = 1000

type priceReader interface {
	GetMany(ctx context.Context, ids []int) (map[int]entity.Price, error)
}

type PriceServer struct {
	prices priceReader
}

func NewPriceServer(prices priceReader) PriceServer {
	return PriceServer{prices: prices}
}

func (s PriceServer) getV1Prices(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ids, err := lox.MapErr(req.QueryList(r, "ids"), strconv.Atoi)
	if err != nil || len(ids) == 0 || len(ids) > maxPriceIDs {
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid ids %q", r.URL.Query().Get("ids")),
			failure.WithCode(errcodes.InvalidItemIDs),
			failure.WithDescription(fmt.Sprintf("ids must hold 1 to %d numeric item ids", maxPriceIDs)),
		)
	}

	prices, err := s.prices.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("prices.GetMany: %w", err)
	}

	data := lox.Map(lo.Values(prices), newRESTPrice)
	lox.SortBy(data, func(p rest.Price) int { return p.ItemID })

	reply.JSON(ctx, w, http.StatusOK, rest.PriceList{Data: data})

	return nil
}
