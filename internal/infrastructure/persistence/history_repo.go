package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/pkg/errcodes"
)

// appendChunk keeps one multi-row insert below the postgres parameter limit.
const appendChunk = 1000

const sampleColumns = `id, variant_id, timestamp, low_profit::float8 AS low_profit, high_profit::float8 AS high_profit`

type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// AppendBatch inserts all samples in one transaction.
func (r *HistoryRepository) AppendBatch(ctx context.Context, samples []entity.HistorySample) error {
	if len(samples) == 0 {
		return nil
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO variant_history (id, variant_id, timestamp, low_profit, high_profit)
			VALUES (:id, :variant_id, :timestamp, :low_profit, :high_profit)`

		for _, chunk := range lo.Chunk(samples, appendChunk) {
			rows := lo.Map(chunk, func(s entity.HistorySample, _ int) sampleSchema { return fromSample(s) })
			if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to append history")
			}
		}

		return nil
	})
}

func (r *HistoryRepository) ListBetween(
	ctx context.Context,
	variantID string,
	from, to time.Time,
) ([]entity.HistorySample, error) {
	var rows []sampleSchema

	query := `
		SELECT ` + sampleColumns + `
		FROM variant_history
		WHERE variant_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp, id`

	if err := r.db.SelectContext(ctx, &rows, query, variantID, from, to); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list history")
	}

	return lo.Map(rows, func(s sampleSchema, _ int) entity.HistorySample { return s.toDomain() }), nil
}

func (r *HistoryRepository) Earliest(ctx context.Context, variantID string) (time.Time, bool, error) {
	var ts sql.NullTime

	query := `SELECT MIN(timestamp) FROM variant_history WHERE variant_id = $1`
	if err := r.db.GetContext(ctx, &ts, query, variantID); err != nil {
		return time.Time{}, false, domain.WrapError(err, errcodes.InternalServerError, "failed to get earliest sample")
	}

	return ts.Time, ts.Valid, nil
}

func (r *HistoryRepository) LatestAtOrBefore(
	ctx context.Context,
	variantID string,
	at time.Time,
) (entity.HistorySample, bool, error) {
	var row sampleSchema

	query := `
		SELECT ` + sampleColumns + `
		FROM variant_history
		WHERE variant_id = $1 AND timestamp <= $2
		ORDER BY timestamp DESC
		LIMIT 1`

	if err := r.db.GetContext(ctx, &row, query, variantID, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.HistorySample{}, false, nil
		}
		return entity.HistorySample{}, false, domain.WrapError(err, errcodes.InternalServerError, "failed to get past sample")
	}

	return row.toDomain(), true, nil
}
