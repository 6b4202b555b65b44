package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/service/method"
	"osrs_profit/internal/domain/value"
	"osrs_profit/pkg/errcodes"
	"osrs_profit/pkg/httpx/reply"
	"osrs_profit/pkg/httpx/req"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

type methodRanker interface {
	List(ctx context.Context, q method.ListQuery) (method.ListResult, error)
	Detail(ctx context.Context, id string, caps *entity.Capabilities) (method.MethodDetail, error)
}

type capabilityResolver interface {
	Capabilities(ctx context.Context, username string) (entity.Capabilities, error)
}

type MethodServer struct {
	ranker  methodRanker
	players capabilityResolver
}

func NewMethodServer(ranker methodRanker, players capabilityResolver) MethodServer {
	return MethodServer{
		ranker:  ranker,
		players: players,
	}
}

type listParams struct {
	Page           int  `validate:"gte=0"`
	PerPage        int  `validate:"gte=0"`
	ClickIntensity *int `validate:"omitempty,gte=0"`
	Afkiness       *int `validate:"omitempty,gte=0"`
	RiskLevel      *int `validate:"omitempty,gte=0"`
}

func (s MethodServer) getV1MethodsProfit(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	q, err := parseListQuery(r)
	if err != nil {
		return err
	}

	q.Capabilities, err = s.capabilities(ctx, r)
	if err != nil {
		return err
	}

	res, err := s.ranker.List(ctx, q)
	if err != nil {
		return fmt.Errorf("ranker.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMethodProfitList(res, q.Page, q.PerPage))

	return nil
}

func (s MethodServer) getV1MethodProfit(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	caps, err := s.capabilities(ctx, r)
	if err != nil {
		return err
	}

	detail, err := s.ranker.Detail(ctx, r.PathValue("id"), caps)
	if err != nil {
		return fmt.Errorf("ranker.Detail: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMethodDetail(detail))

	return nil
}

func (s MethodServer) capabilities(ctx context.Context, r *http.Request) (*entity.Capabilities, error) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		return nil, nil //nolint:nilnil // anonymous request
	}

	caps, err := s.players.Capabilities(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("players.Capabilities: %w", err)
	}

	return &caps, nil
}

func parseListQuery(r *http.Request) (method.ListQuery, error) {
	var (
		params listParams
		err    error
		page   *int
		per    *int
	)

	if page, err = req.QueryInt(r, "page"); err != nil {
		return method.ListQuery{}, err
	}
	if per, err = req.QueryInt(r, "perPage"); err != nil {
		return method.ListQuery{}, err
	}
	if params.ClickIntensity, err = req.QueryInt(r, "clickIntensity"); err != nil {
		return method.ListQuery{}, err
	}
	if params.Afkiness, err = req.QueryInt(r, "afkiness"); err != nil {
		return method.ListQuery{}, err
	}
	if params.RiskLevel, err = req.QueryInt(r, "riskLevel"); err != nil {
		return method.ListQuery{}, err
	}

	params.Page = defaultPage
	if page != nil {
		params.Page = max(*page, defaultPage)
	}
	params.PerPage = defaultPerPage
	if per != nil {
		params.PerPage = *per
		if params.PerPage < 1 {
			params.PerPage = defaultPerPage
		}
	}

	if params.PerPage > maxPerPage {
		msg := fmt.Sprintf("perPage must not exceed %d", maxPerPage)
		return method.ListQuery{}, failure.NewInvalidArgumentError(
			msg,
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription(msg),
		)
	}

	if err := req.Validate(r.Context(), &params); err != nil {
		return method.ListQuery{}, err
	}

	xpHour, err := req.QueryBool(r, "xpHour")
	if err != nil {
		return method.ListQuery{}, err
	}

	showProfitables, err := req.QueryBool(r, "showProfitables")
	if err != nil {
		return method.ListQuery{}, err
	}

	key, err := value.ParseSortKey(r.URL.Query().Get("orderBy"))
	if err != nil {
		return method.ListQuery{}, invalidListQuery(err)
	}

	order, err := value.ParseSortOrder(r.URL.Query().Get("order"))
	if err != nil {
		return method.ListQuery{}, invalidListQuery(err)
	}

	return method.ListQuery{
		Page:    params.Page,
		PerPage: params.PerPage,
		Filters: method.ListFilters{
			Name:            strings.TrimSpace(r.URL.Query().Get("name")),
			Categories:      req.QueryList(r, "categories"),
			ClickIntensity:  params.ClickIntensity,
			Afkiness:        params.Afkiness,
			RiskLevel:       params.RiskLevel,
			XpHour:          xpHour,
			Skill:           strings.TrimSpace(r.URL.Query().Get("skill")),
			ShowProfitables: showProfitables != nil && *showProfitables,
		},
		Sort: method.SortOptions{Key: key, Order: order},
	}, nil
}

func invalidListQuery(err error) error {
	return failure.NewInvalidArgumentErrorFromError(
		err,
		failure.WithCode(errcodes.InvalidListQuery),
		failure.WithDescription(err.Error()),
	)
}
