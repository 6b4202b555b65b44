package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/infrastructure/upstream"
	"osrs_profit/pkg/errcodes"
)

func TestPriceFeed_Latest(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantIDs []int
		wantErr bool
	}{
		{
			name:    "full and partial quotes",
			status:  http.StatusOK,
			body:    `{"data":{"2":{"high":160,"highTime":1700000000,"low":155,"lowTime":1700000010},"6":{"high":null,"low":90}}}`,
			wantIDs: []int{2, 6},
		},
		{
			name:    "non numeric ids are dropped",
			status:  http.StatusOK,
			body:    `{"data":{"abc":{"low":1},"4":{"low":2}}}`,
			wantIDs: []int{4},
		},
		{
			name:    "server error",
			status:  http.StatusServiceUnavailable,
			body:    `upstream down`,
			wantErr: true,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var userAgent string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userAgent = r.Header.Get("User-Agent")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			feed := upstream.NewPriceFeed(srv.URL, upstream.NewClient("prices", "profit-tracker/test", time.Second))

			quotes, err := feed.Latest(context.Background())
			rq.Equal("profit-tracker/test", userAgent)

			if tc.wantErr {
				rq.ErrorIs(err, domain.ErrUpstreamUnavailable)
				return
			}

			rq.NoError(err)
			rq.Len(quotes, len(tc.wantIDs))
			for _, id := range tc.wantIDs {
				rq.Contains(quotes, id)
			}
		})
	}
}

func TestPriceFeed_LatestValues(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"2":{"high":160,"highTime":1700000000,"low":155}}}`))
	}))
	defer srv.Close()

	quotes, err := upstream.NewPriceFeed(srv.URL, upstream.NewClient("prices", "", time.Second)).
		Latest(context.Background())
	rq.NoError(err)

	q := quotes[2]
	rq.NotNil(q.Low)
	rq.NotNil(q.High)
	rq.NotNil(q.HighTime)
	rq.Nil(q.LowTime)
	rq.InDelta(155.0, *q.Low, 1e-9)
	rq.InDelta(160.0, *q.High, 1e-9)
	rq.Equal(int64(1700000000), *q.HighTime)
}

const playerBody = `{
	"levels": {"Attack": 60, "Strength": 70, "Defence": 50, "Fishing": 80},
	"quests": {"Dragon Slayer I": 2, "Cook's Assistant": 1},
	"achievement_diaries": {"Ardougne": {"Easy": {"complete": true, "tasks": [true, true]}}}
}`

func TestPlayerClient_Capabilities(t *testing.T) {
	rq := require.New(t)

	var (
		calls atomic.Int32
		path  string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		path = r.URL.Path

		if r.URL.Path == "/player/nobody/STANDARD" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Path == "/player/broken/STANDARD" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(playerBody))
	}))
	defer srv.Close()

	client := upstream.NewPlayerClient(srv.URL+"/player/", upstream.NewClient("player", "", time.Second)).
		WithRateLimit(100)

	ctx := context.Background()

	caps, err := client.Capabilities(ctx, "Zezima")
	rq.NoError(err)
	rq.Equal("/player/Zezima/STANDARD", path)
	rq.Equal(70, caps.Levels["Strength"])
	rq.Equal(2, caps.Quests["Dragon Slayer I"])
	rq.True(caps.AchievementDiaries["Ardougne"]["Easy"].Complete)

	// cached, case-insensitively
	_, err = client.Capabilities(ctx, "zezima")
	rq.NoError(err)
	rq.Equal(int32(1), calls.Load())

	_, err = client.Capabilities(ctx, "nobody")
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.PlayerNotFound, code)
	rq.True(domain.IsNotFound(err))

	_, err = client.Capabilities(ctx, "broken")
	rq.ErrorIs(err, domain.ErrUpstreamUnavailable)

	_, err = client.Capabilities(ctx, "  ")
	rq.True(domain.IsInvalidArgument(err))
}
