package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/errcodes"
)

const (
	defaultPlayerRPS      = 2
	defaultCapabilityTTL  = 5 * time.Minute
	playerLimiterBurst    = 1
	playerAccountCategory = "STANDARD"
)

// PlayerClient resolves a username into the player's capabilities.
// Lookups are throttled and cached per username.
type PlayerClient struct {
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
	cache   *cache.Cache
}

func NewPlayerClient(baseURL string, client *resty.Client) *PlayerClient {
	return &PlayerClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(defaultPlayerRPS), playerLimiterBurst),
		cache:   cache.New(defaultCapabilityTTL, 2*defaultCapabilityTTL),
	}
}

func (c *PlayerClient) WithRateLimit(rps float64) *PlayerClient {
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), playerLimiterBurst)
	}
	return c
}

func (c *PlayerClient) WithCacheTTL(ttl time.Duration) *PlayerClient {
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

// Capabilities fetches the levels, quests and diaries of a player. An
// unknown player is a PlayerNotFound error; any other failure wraps
// domain.ErrUpstreamUnavailable.
func (c *PlayerClient) Capabilities(ctx context.Context, username string) (entity.Capabilities, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	if key == "" {
		return entity.Capabilities{}, domain.NewError(errcodes.ValidationError, "username is empty")
	}

	if cached, ok := c.cache.Get(key); ok {
		return cached.(entity.Capabilities), nil //nolint:forcetypeassert // only this type is stored
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return entity.Capabilities{}, fmt.Errorf("playerClient.Capabilities: limiter.Wait: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"username": username,
			"category": playerAccountCategory,
		}).
		Get(c.baseURL + "/{username}/{category}")
	if err != nil {
		return entity.Capabilities{}, fmt.Errorf("playerClient.Capabilities: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return entity.Capabilities{}, domain.NewError(errcodes.PlayerNotFound, fmt.Sprintf("player %q not found", username))
	case resp.IsError():
		return entity.Capabilities{}, fmt.Errorf(
			"playerClient.Capabilities: %w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode(),
		)
	}

	var caps entity.Capabilities
	if err := json.Unmarshal(resp.Body(), &caps); err != nil {
		return entity.Capabilities{}, fmt.Errorf(
			"playerClient.Capabilities: %w: json.Unmarshal: %w", domain.ErrUpstreamUnavailable, err,
		)
	}

	c.cache.SetDefault(key, caps)

	return caps, nil
}
