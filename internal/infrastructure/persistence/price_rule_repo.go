package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/errcodes"
)

type PriceRuleRepository struct {
	db *sqlx.DB
}

func NewPriceRuleRepository(db *sqlx.DB) *PriceRuleRepository {
	return &PriceRuleRepository{db: db}
}

func (r *PriceRuleRepository) ListEnabled(ctx context.Context) ([]entity.PriceRule, error) {
	var rows []priceRuleSchema

	query := `
		SELECT item_id, rule_type, params, notes, is_enabled
		FROM item_price_rules
		WHERE is_enabled
		ORDER BY item_id`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list price rules")
	}

	rules := make([]entity.PriceRule, 0, len(rows))
	for i := range rows {
		rules = append(rules, rows[i].toDomain())
	}

	return rules, nil
}
