// Package upstream holds the HTTP clients of the remote services the
// application reads from: the market price feed and the player sync API.
package upstream

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"osrs_profit/internal/infrastructure/monitoring"
	"osrs_profit/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// NewClient returns a resty client whose exchanges are logged and timed
// under the upstream name.
func NewClient(upstream, userAgent string, timeout time.Duration, opts ...httpx.Option) *resty.Client {
	opts = append(opts,
		httpx.WithUpstreamName(upstream),
		httpx.WithObserver(monitoring.UpstreamRequest),
	)

	client := resty.New()
	client.SetTransport(httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...))
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	client.SetJSONMarshaler(json.Marshal)
	client.SetJSONUnmarshaler(json.Unmarshal)

	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return client
}
