package config

import (
	"fmt"
	"time"
)

const (
	SchedulerTicker = "ticker"
	SchedulerAsynq  = "asynq"
)

type Scheduler struct {
	Backend                string        `env:"SCHEDULER_BACKEND"        envDefault:"ticker"`
	PriceRefreshInterval   time.Duration `env:"PRICE_REFRESH_INTERVAL"   envDefault:"1m"`
	ProfitRefreshInterval  time.Duration `env:"PROFIT_REFRESH_INTERVAL"  envDefault:"1m"`
	HistoryCaptureInterval time.Duration `env:"HISTORY_CAPTURE_INTERVAL" envDefault:"5m"`
	AsynqConcurrency       int           `env:"ASYNQ_CONCURRENCY"        envDefault:"2"`
}

func (s Scheduler) validate() error {
	switch s.Backend {
	case SchedulerTicker, SchedulerAsynq:
	default:
		return fmt.Errorf("SCHEDULER_BACKEND: unknown backend %q", s.Backend)
	}

	return nil
}

type History struct {
	DefaultTimezone string        `env:"HISTORY_DEFAULT_TZ"    envDefault:"UTC"`
	QueryTimeout    time.Duration `env:"HISTORY_QUERY_TIMEOUT" envDefault:"10s"`
	MaxBuckets      int           `env:"HISTORY_MAX_BUCKETS"   envDefault:"400"`
}
