// Package monitoring declares the prometheus collectors of the service.
// They register on the default registry served by pkg/metrics.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "osrs_profit"

const (
	ResultOK            = "ok"
	ResultError         = "error"
	ResultUpstreamError = "upstream_error"
	ResultSkipped       = "skipped"

	KindMarket  = "market"
	KindDerived = "derived"
)

//nolint:gochecknoglobals
var (
	priceRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_refresh_total",
		Help:      "Price refresh ticks by result.",
	}, []string{"result"})

	priceEntriesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_entries_written_total",
		Help:      "Price entries upserted into the price store.",
	}, []string{"kind"})

	priceRuleSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_rule_skipped_total",
		Help:      "Price rules skipped during evaluation.",
	}, []string{"type"})

	profitSnapshotVariants = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "profit_snapshot_variants",
		Help:      "Variants in the last stored profit snapshot.",
	})

	historySamplesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_samples_written_total",
		Help:      "History samples appended.",
	})

	upstreamRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Outbound requests to the price feed and the player API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream", "status"})

	taskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_task_runs_total",
		Help:      "Scheduled task executions by task and result.",
	}, []string{"task", "result"})

	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scheduler_task_duration_seconds",
		Help:      "Scheduled task execution time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})
)

func PriceRefresh(result string) {
	priceRefreshTotal.WithLabelValues(result).Inc()
}

func PriceEntriesWritten(kind string, n int) {
	priceEntriesWritten.WithLabelValues(kind).Add(float64(n))
}

func PriceRuleSkipped(ruleType string) {
	priceRuleSkipped.WithLabelValues(ruleType).Inc()
}

func ProfitSnapshotSize(n int) {
	profitSnapshotVariants.Set(float64(n))
}

func HistorySamplesWritten(n int) {
	historySamplesWritten.Add(float64(n))
}

// UpstreamRequest records one outbound exchange; status 0 means the upstream
// was unreachable.
func UpstreamRequest(upstream string, status int, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(upstream, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func TaskRun(task, result string, elapsed time.Duration) {
	taskRuns.WithLabelValues(task, result).Inc()
	taskDuration.WithLabelValues(task).Observe(elapsed.Seconds())
}
