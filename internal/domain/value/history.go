package value

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange       = errors.New("invalid history range")
	ErrInvalidGranularity = errors.New("invalid granularity")
	ErrInvalidAggregation = errors.New("invalid aggregation")
)

type HistoryRange string

const (
	Range24h HistoryRange = "24h"
	Range1m  HistoryRange = "1m"
	Range1y  HistoryRange = "1y"
	RangeAll HistoryRange = "all"
)

func ParseHistoryRange(s string) (HistoryRange, error) {
	switch r := HistoryRange(s); r {
	case "":
		return Range24h, nil
	case Range24h, Range1m, Range1y, RangeAll:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
}

// From returns the start of the window ending at now. RangeAll has no fixed
// start and reports false.
func (r HistoryRange) From(now time.Time) (time.Time, bool) {
	switch r {
	case Range24h:
		return now.Add(-24 * time.Hour), true
	case Range1m:
		return now.AddDate(0, -1, 0), true
	case Range1y:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func (r HistoryRange) String() string {
	return string(r)
}

type Granularity string

const (
	Granularity10m  Granularity = "10m"
	Granularity30m  Granularity = "30m"
	Granularity2h   Granularity = "2h"
	Granularity1d   Granularity = "1d"
	Granularity1w   Granularity = "1w"
	Granularity1mo  Granularity = "1mo"
	GranularityAuto Granularity = "auto"
)

// Granularities lists the concrete bucket widths from finest to coarsest.
//
//nolint:gochecknoglobals
var Granularities = []Granularity{
	Granularity10m,
	Granularity30m,
	Granularity2h,
	Granularity1d,
	Granularity1w,
	Granularity1mo,
}

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case "":
		return GranularityAuto, nil
	case Granularity10m, Granularity30m, Granularity2h, Granularity1d, Granularity1w, Granularity1mo, GranularityAuto:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
}

// Width is the nominal bucket width. Calendar granularities report their
// approximate length (a month counts as 30 days).
func (g Granularity) Width() time.Duration {
	switch g {
	case Granularity10m:
		return 10 * time.Minute
	case Granularity30m:
		return 30 * time.Minute
	case Granularity2h:
		return 2 * time.Hour
	case Granularity1d:
		return 24 * time.Hour
	case Granularity1w:
		return 7 * 24 * time.Hour
	case Granularity1mo:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// IsCalendar reports whether buckets follow calendar boundaries in a zone.
func (g Granularity) IsCalendar() bool {
	return g == Granularity1d || g == Granularity1w || g == Granularity1mo
}

func (g Granularity) String() string {
	return string(g)
}

type Aggregation string

const (
	AggregationAvg   Aggregation = "avg"
	AggregationClose Aggregation = "close"
	AggregationOHLC  Aggregation = "ohlc"
)

func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(s); a {
	case "":
		return AggregationAvg, nil
	case AggregationAvg, AggregationClose, AggregationOHLC:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAggregation, s)
	}
}

func (a Aggregation) String() string {
	return string(a)
}
