package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/errcodes"
)

const (
	methodColumns  = `id, slug, name, description, category`
	variantColumns = `id, method_id, slug, label, xp_hour, click_intensity, afkiness,
		risk_level, requirements, recommendations, actions_per_hour`
)

type MethodRepository struct {
	db *sqlx.DB
}

func NewMethodRepository(db *sqlx.DB) *MethodRepository {
	return &MethodRepository{db: db}
}

// ListWithVariants loads every enabled method with its variants and their
// input and output items.
func (r *MethodRepository) ListWithVariants(ctx context.Context) ([]entity.Method, error) {
	var methods []methodSchema

	query := `SELECT ` + methodColumns + ` FROM money_making_methods WHERE enabled ORDER BY id`
	if err := r.db.SelectContext(ctx, &methods, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list methods")
	}

	if len(methods) == 0 {
		return []entity.Method{}, nil
	}

	return r.attachVariants(ctx, methods)
}

func (r *MethodRepository) GetByID(ctx context.Context, id string) (entity.Method, error) {
	var schema methodSchema

	query := `SELECT ` + methodColumns + ` FROM money_making_methods WHERE id = $1 AND enabled`
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Method{}, domain.NewError(errcodes.MethodNotFound, "method not found")
		}
		return entity.Method{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get method")
	}

	methods, err := r.attachVariants(ctx, []methodSchema{schema})
	if err != nil {
		return entity.Method{}, err
	}

	return methods[0], nil
}

func (r *MethodRepository) attachVariants(ctx context.Context, schemas []methodSchema) ([]entity.Method, error) {
	methodIDs := lo.Map(schemas, func(m methodSchema, _ int) string { return m.ID })

	query, args, err := sqlx.In(
		`SELECT `+variantColumns+` FROM method_variants WHERE method_id IN (?) ORDER BY created_at, id`,
		methodIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In: %w", err)
	}

	var variants []variantSchema
	if err := r.db.SelectContext(ctx, &variants, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list variants")
	}

	items, err := r.ioItems(ctx, lo.Map(variants, func(v variantSchema, _ int) string { return v.ID }))
	if err != nil {
		return nil, err
	}

	byMethod := make(map[string][]entity.Variant, len(schemas))
	for i := range variants {
		v, err := variants[i].toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "malformed variant "+variants[i].ID)
		}

		for _, it := range items[v.ID] {
			qty := entity.ItemQty{ID: it.ItemID, Quantity: it.Quantity}
			if it.Type == ioTypeInput {
				v.Inputs = append(v.Inputs, qty)
			} else {
				v.Outputs = append(v.Outputs, qty)
			}
		}

		byMethod[variants[i].MethodID] = append(byMethod[variants[i].MethodID], v)
	}

	methods := make([]entity.Method, 0, len(schemas))
	for i := range schemas {
		m := schemas[i].toDomain()
		if vs, ok := byMethod[m.ID]; ok {
			m.Variants = vs
		}
		methods = append(methods, m)
	}

	return methods, nil
}

func (r *MethodRepository) ioItems(ctx context.Context, variantIDs []string) (map[string][]ioItemSchema, error) {
	out := make(map[string][]ioItemSchema)
	if len(variantIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(
		`SELECT variant_id, item_id, type, quantity::float8 AS quantity
		FROM variant_io_items WHERE variant_id IN (?) ORDER BY id`,
		variantIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In: %w", err)
	}

	var rows []ioItemSchema
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list io items")
	}

	for _, row := range rows {
		out[row.VariantID] = append(out[row.VariantID], row)
	}

	return out, nil
}
