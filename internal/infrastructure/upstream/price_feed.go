package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-resty/resty/v2"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/logx"
)

type latestResponse struct {
	Data map[string]entity.MarketQuote `json:"data"`
}

// PriceFeed reads the full latest price map of the market.
type PriceFeed struct {
	client *resty.Client
	url    string
}

func NewPriceFeed(url string, client *resty.Client) *PriceFeed {
	return &PriceFeed{
		client: client,
		url:    url,
	}
}

// Latest returns every quote of the feed keyed by item id. Entries with a
// non numeric id are dropped.
func (f *PriceFeed) Latest(ctx context.Context) (map[int]entity.MarketQuote, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("priceFeed.Latest: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("priceFeed.Latest: %w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode())
	}

	var body latestResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("priceFeed.Latest: %w: json.Unmarshal: %w", domain.ErrUpstreamUnavailable, err)
	}

	quotes := make(map[int]entity.MarketQuote, len(body.Data))

	for key, q := range body.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			logger(ctx).Warn("price feed entry with bad id", slog.String(logx.FieldItemID, key))
			continue
		}

		quotes[id] = q
	}

	return quotes, nil
}
