// Package history records profit samples and serves them back as bucketed
// series and trends.
package history

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/infrastructure/monitoring"
)

type ProfitReader interface {
	Load(ctx context.Context) (entity.ProfitSnapshot, error)
}

type SampleRepository interface {
	AppendBatch(ctx context.Context, samples []entity.HistorySample) error
	// ListBetween returns samples with from <= timestamp <= to, oldest first.
	ListBetween(ctx context.Context, variantID string, from, to time.Time) ([]entity.HistorySample, error)
	Earliest(ctx context.Context, variantID string) (time.Time, bool, error)
	LatestAtOrBefore(ctx context.Context, variantID string, at time.Time) (entity.HistorySample, bool, error)
}

// Recorder appends one sample per variant of the stored profit snapshot.
// Samples are never deduplicated.
type Recorder struct {
	profits ProfitReader
	samples SampleRepository
	now     func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

func NewRecorder(profits ProfitReader, samples SampleRepository) *Recorder {
	return &Recorder{
		profits: profits,
		samples: samples,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0), //nolint:gosec // ids only
	}
}

func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Capture writes the current snapshot. A snapshot that cannot be read skips
// the tick without writing anything.
func (r *Recorder) Capture(ctx context.Context) (int, error) {
	snapshot, err := r.profits.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("history.Capture: profits: %w", err)
	}

	if len(snapshot) == 0 {
		logger(ctx).Warn("no variant profits to record")
		return 0, nil
	}

	now := r.now().UTC()

	variantIDs := make([]string, 0, len(snapshot))
	for id := range snapshot {
		variantIDs = append(variantIDs, id)
	}
	slices.Sort(variantIDs)

	samples := make([]entity.HistorySample, 0, len(variantIDs))
	for _, id := range variantIDs {
		p := snapshot[id]
		samples = append(samples, entity.HistorySample{
			ID:         r.newID(now),
			VariantID:  id,
			Timestamp:  now,
			LowProfit:  p.Low,
			HighProfit: p.High,
		})
	}

	if err := r.samples.AppendBatch(ctx, samples); err != nil {
		return 0, fmt.Errorf("history.Capture: append: %w", err)
	}

	monitoring.HistorySamplesWritten(len(samples))
	logger(ctx).Info("variant profits recorded", slog.Int("samples", len(samples)))

	return len(samples), nil
}

func (r *Recorder) newID(at time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(at), r.entropy).String()
}
