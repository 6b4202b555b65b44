package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"osrs_profit/internal/domain"
	"osrs_profit/pkg/errcodes"
	"osrs_profit/pkg/httpx/reply"
)

// HealthPath is polled by load balancers and kept out of the body logs.
const HealthPath = "/v1/health"

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", handler(s.getV1Health))

		r.Route("/methods", func(r chi.Router) {
			r.Get("/profit", handler(s.getV1MethodsProfit))
			r.Get("/{id}/profit", handler(s.getV1MethodProfit))
		})

		r.Get("/variants/{id}/history", handler(s.getV1VariantHistory))
		r.Get("/prices", handler(s.getV1Prices))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			writeError(r.Context(), w, err)
		}
	}
}

// writeError maps domain failures to statuses; anything else goes through
// the generic failure mapping of reply.Error.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *domain.AppError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reply.Problem(ctx, w, http.StatusGatewayTimeout, errcodes.TimeoutExceeded, "request timed out", err)
	case errors.As(err, &appErr) && domain.IsNotFound(appErr):
		reply.Problem(ctx, w, http.StatusNotFound, appErr.Code, appErr.Message, err)
	case errors.As(err, &appErr) && domain.IsInvalidArgument(appErr):
		reply.Problem(ctx, w, http.StatusBadRequest, appErr.Code, appErr.Message, err)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		reply.Problem(ctx, w, http.StatusBadGateway, errcodes.UpstreamUnavailable, "upstream service unavailable", err)
	default:
		reply.Error(ctx, w, err)
	}
}
