package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/errcodes"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) ListBetween(
	ctx context.Context,
	variantID string,
	from, to time.Time,
) ([]entity.SnapshotMarker, error) {
	var rows []snapshotSchema

	query := `
		SELECT id, variant_id, snapshot_name, snapshot_description, snapshot_date
		FROM variant_snapshots
		WHERE variant_id = $1 AND snapshot_date BETWEEN $2 AND $3
		ORDER BY snapshot_date, id`

	if err := r.db.SelectContext(ctx, &rows, query, variantID, from, to); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list snapshots")
	}

	return lo.Map(rows, func(s snapshotSchema, _ int) entity.SnapshotMarker { return s.toDomain() }), nil
}
