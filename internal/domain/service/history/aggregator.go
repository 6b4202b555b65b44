package history

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/value"
	"osrs_profit/pkg/errcodes"
)

const defaultMaxBuckets = 400

type SnapshotRepository interface {
	ListBetween(ctx context.Context, variantID string, from, to time.Time) ([]entity.SnapshotMarker, error)
}

type HistoryQuery struct {
	VariantID   string
	Range       value.HistoryRange
	Granularity value.Granularity
	Aggregation value.Aggregation
	Timezone    string
}

type trendWindow struct {
	lookback time.Duration
	target   func(*entity.Trend) **float64
}

//nolint:gochecknoglobals
var trendWindows = []trendWindow{
	{lookback: time.Hour, target: func(t *entity.Trend) **float64 { return &t.LastHour }},
	{lookback: 24 * time.Hour, target: func(t *entity.Trend) **float64 { return &t.Last24h }},
	{lookback: 7 * 24 * time.Hour, target: func(t *entity.Trend) **float64 { return &t.LastWeek }},
	{lookback: 30 * 24 * time.Hour, target: func(t *entity.Trend) **float64 { return &t.LastMonth }},
}

type Aggregator struct {
	samples    SampleRepository
	snapshots  SnapshotRepository
	defaultTZ  *time.Location
	maxBuckets int
	now        func() time.Time
}

func NewAggregator(samples SampleRepository, snapshots SnapshotRepository) *Aggregator {
	return &Aggregator{
		samples:    samples,
		snapshots:  snapshots,
		defaultTZ:  time.UTC,
		maxBuckets: defaultMaxBuckets,
		now:        time.Now,
	}
}

func (a *Aggregator) WithDefaultTimezone(loc *time.Location) *Aggregator {
	if loc != nil {
		a.defaultTZ = loc
	}
	return a
}

func (a *Aggregator) WithMaxBuckets(n int) *Aggregator {
	if n > 0 {
		a.maxBuckets = n
	}
	return a
}

func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// GetHistory buckets the samples of one variant over the requested range.
// A range without samples yields an empty series.
func (a *Aggregator) GetHistory(ctx context.Context, q HistoryQuery) (entity.HistorySeries, error) {
	loc, err := a.location(q.Timezone)
	if err != nil {
		return entity.HistorySeries{}, err
	}

	now := a.now().In(loc)

	series := entity.HistorySeries{
		VariantID:   q.VariantID,
		Range:       q.Range.String(),
		Granularity: q.Granularity.String(),
		Aggregation: q.Aggregation.String(),
		Timezone:    loc.String(),
		To:          now,
		Points:      []entity.HistoryPoint{},
		Snapshots:   []entity.SnapshotMarker{},
	}

	from, ok := q.Range.From(now)
	if !ok {
		earliest, found, err := a.samples.Earliest(ctx, q.VariantID)
		if err != nil {
			return entity.HistorySeries{}, fmt.Errorf("history.GetHistory: earliest: %w", err)
		}
		if !found {
			series.From = now
			return series, nil
		}
		from = earliest.In(loc)
	}

	series.From = from

	granularity := q.Granularity
	if granularity == value.GranularityAuto || granularity == "" {
		granularity = SelectGranularity(from, now, a.maxBuckets)
	}
	series.Granularity = granularity.String()

	samples, err := a.samples.ListBetween(ctx, q.VariantID, from, now)
	if err != nil {
		return entity.HistorySeries{}, fmt.Errorf("history.GetHistory: samples: %w", err)
	}

	series.Points = Aggregate(samples, granularity, q.Aggregation, loc)

	if a.snapshots != nil {
		markers, err := a.snapshots.ListBetween(ctx, q.VariantID, from, now)
		if err != nil {
			return entity.HistorySeries{}, fmt.Errorf("history.GetHistory: snapshots: %w", err)
		}

		slices.SortStableFunc(markers, func(x, y entity.SnapshotMarker) int { return x.Date.Compare(y.Date) })
		series.Snapshots = append(series.Snapshots, markers...)
	}

	return series, nil
}

// ComputeTrend compares currentHigh against the newest sample at or before
// each lookback. A window without a sample, or with a zero past value,
// stays nil.
func (a *Aggregator) ComputeTrend(ctx context.Context, variantID string, currentHigh float64) (entity.Trend, error) {
	var trend entity.Trend

	now := a.now()
	g, gctx := errgroup.WithContext(ctx)

	for _, w := range trendWindows {
		g.Go(func() error {
			past, found, err := a.samples.LatestAtOrBefore(gctx, variantID, now.Add(-w.lookback))
			if err != nil {
				return fmt.Errorf("lookback %s: %w", w.lookback, err)
			}
			if found {
				*w.target(&trend) = TrendPercent(currentHigh, past.HighProfit)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return entity.Trend{}, fmt.Errorf("history.ComputeTrend: %w", err)
	}

	return trend, nil
}

func (a *Aggregator) location(tz string) (*time.Location, error) {
	if tz == "" {
		return a.defaultTZ, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidTimezone, fmt.Sprintf("unknown timezone %q", tz))
	}

	return loc, nil
}

// TrendPercent is the change from past to current in percent, nil when past
// is zero.
func TrendPercent(current, past float64) *float64 {
	if past == 0 {
		return nil
	}

	pct := (current - past) / past * 100
	return &pct
}

// SelectGranularity picks the finest granularity that covers [from, to] in
// at most maxBuckets buckets, or the coarsest one when none does.
func SelectGranularity(from, to time.Time, maxBuckets int) value.Granularity {
	span := to.Sub(from)

	for _, g := range value.Granularities {
		buckets := math.Ceil(float64(span) / float64(g.Width()))
		if buckets <= float64(maxBuckets) {
			return g
		}
	}

	return value.Granularities[len(value.Granularities)-1]
}

// BucketStart returns the start of the bucket holding t. Sub-day buckets are
// aligned to the unix epoch; day, week and month buckets start at local
// midnight in loc, weeks on Monday.
func BucketStart(t time.Time, g value.Granularity, loc *time.Location) time.Time {
	if !g.IsCalendar() {
		width := int64(g.Width() / time.Second)
		sec := t.Unix()
		return time.Unix(sec-sec%width, 0).In(loc)
	}

	lt := t.In(loc)
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)

	switch g {
	case value.Granularity1w:
		offset := (int(day.Weekday()) + 6) % 7 //nolint:mnd // monday-based week
		return day.AddDate(0, 0, -offset)
	case value.Granularity1mo:
		return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return day
	}
}

// Aggregate folds samples into one point per non-empty bucket, oldest first.
func Aggregate(
	samples []entity.HistorySample,
	g value.Granularity,
	agg value.Aggregation,
	loc *time.Location,
) []entity.HistoryPoint {
	if len(samples) == 0 {
		return []entity.HistoryPoint{}
	}

	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(x, y entity.HistorySample) int { return x.Timestamp.Compare(y.Timestamp) })

	points := make([]entity.HistoryPoint, 0)

	var (
		bucket []entity.HistorySample
		start  time.Time
	)

	for _, s := range sorted {
		bs := BucketStart(s.Timestamp, g, loc)
		if len(bucket) > 0 && !bs.Equal(start) {
			points = append(points, fold(start, bucket, agg))
			bucket = bucket[:0]
		}

		start = bs
		bucket = append(bucket, s)
	}

	points = append(points, fold(start, bucket, agg))

	return points
}

func fold(start time.Time, bucket []entity.HistorySample, agg value.Aggregation) entity.HistoryPoint {
	point := entity.HistoryPoint{Timestamp: start, Samples: len(bucket)}
	last := bucket[len(bucket)-1]

	switch agg {
	case value.AggregationClose:
		point.Low = last.LowProfit
		point.High = last.HighProfit
	case value.AggregationOHLC:
		point.LowOHLC = candle(bucket, func(s entity.HistorySample) float64 { return s.LowProfit })
		point.HighOHLC = candle(bucket, func(s entity.HistorySample) float64 { return s.HighProfit })
		point.Low = point.LowOHLC.Close
		point.High = point.HighOHLC.Close
	default:
		var low, high float64
		for _, s := range bucket {
			low += s.LowProfit
			high += s.HighProfit
		}
		point.Low = low / float64(len(bucket))
		point.High = high / float64(len(bucket))
	}

	return point
}

func candle(bucket []entity.HistorySample, pick func(entity.HistorySample) float64) *entity.OHLC {
	c := &entity.OHLC{
		Open:  pick(bucket[0]),
		High:  pick(bucket[0]),
		Low:   pick(bucket[0]),
		Close: pick(bucket[len(bucket)-1]),
	}

	for _, s := range bucket[1:] {
		v := pick(s)
		c.High = math.Max(c.High, v)
		c.Low = math.Min(c.Low, v)
	}

	return c
}
