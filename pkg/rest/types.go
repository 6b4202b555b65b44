// Package rest holds the wire models of the public HTTP API.
package rest

import "time"

// Error is the body of every non 2xx response.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`

	// SupportID is the trace id of the failed request.
	SupportID string `json:"supportId"`
}

type ErrorCode string

type ItemQty struct {
	ID       int     `json:"id"`
	Quantity float64 `json:"quantity"`
}

type XpHour struct {
	Skill      string  `json:"skill"`
	Experience float64 `json:"experience"`
}

type ItemRequirement struct {
	ID       int     `json:"id"`
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason,omitempty"`
}

type LevelRequirement struct {
	Skill  string `json:"skill"`
	Level  int    `json:"level"`
	Reason string `json:"reason,omitempty"`
}

type QuestRequirement struct {
	Name   string `json:"name"`
	Stage  int    `json:"stage"`
	Reason string `json:"reason,omitempty"`
}

type DiaryRequirement struct {
	Name   string `json:"name"`
	Tier   string `json:"tier"`
	Reason string `json:"reason,omitempty"`
}

type Requirements struct {
	Items              []ItemRequirement  `json:"items,omitempty"`
	Levels             []LevelRequirement `json:"levels,omitempty"`
	Quests             []QuestRequirement `json:"quests,omitempty"`
	AchievementDiaries []DiaryRequirement `json:"achievement_diaries,omitempty"`
}

type VariantProfit struct {
	ID             string        `json:"id"`
	Slug           string        `json:"slug,omitempty"`
	Label          string        `json:"label"`
	LowProfit      float64       `json:"lowProfit"`
	HighProfit     float64       `json:"highProfit"`
	XpHour         []XpHour      `json:"xpHour,omitempty"`
	ClickIntensity *int          `json:"clickIntensity"`
	Afkiness       *int          `json:"afkiness"`
	RiskLevel      *int          `json:"riskLevel"`
	Requirements   *Requirements `json:"requirements,omitempty"`
}

type MethodProfit struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Name         string        `json:"name"`
	Category     string        `json:"category,omitempty"`
	VariantCount int           `json:"variantCount"`
	Variant      VariantProfit `json:"variant"`
}

type PageMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type MethodProfitList struct {
	Data []MethodProfit `json:"data"`
	Meta PageMeta       `json:"meta"`
}

type Trend struct {
	LastHour  *float64 `json:"lastHour"`
	Last24h   *float64 `json:"last24h"`
	LastWeek  *float64 `json:"lastWeek"`
	LastMonth *float64 `json:"lastMonth"`
}

type VariantDetail struct {
	VariantProfit

	Inputs              []ItemQty     `json:"inputs"`
	Outputs             []ItemQty     `json:"outputs"`
	Recommendations     *Requirements `json:"recommendations,omitempty"`
	ActionsPerHour      *int          `json:"actionsPerHour,omitempty"`
	MissingRequirements *Requirements `json:"missingRequirements"`
	Trends              Trend         `json:"trends"`
}

type MethodDetail struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Variants    []VariantDetail `json:"variants"`
}

type OHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Low       float64   `json:"low"`
	High      float64   `json:"high"`
	LowOHLC   *OHLC     `json:"lowOhlc,omitempty"`
	HighOHLC  *OHLC     `json:"highOhlc,omitempty"`
	Samples   int       `json:"samples"`
}

type VariantSnapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type HistoryMeta struct {
	VariantID   string    `json:"variantId"`
	Range       string    `json:"range"`
	Granularity string    `json:"granularity"`
	Aggregation string    `json:"agg"`
	Timezone    string    `json:"tz"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
}

type VariantHistory struct {
	Data            []HistoryPoint    `json:"data"`
	VariantSnapshot []VariantSnapshot `json:"variant_snapshot"`
	Meta            HistoryMeta       `json:"meta"`
}

type Price struct {
	ItemID   int     `json:"itemId"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	LowTime  int64   `json:"lowTime,omitempty"`
	HighTime int64   `json:"highTime,omitempty"`
}

type PriceList struct {
	Data []Price `json:"data"`
}

type DependencyCheck struct {
	Status    string `json:"status"`
	LatencyMs *int64 `json:"latencyMs,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Health struct {
	Status       string                     `json:"status"`
	Uptime       int64                      `json:"uptime"`
	Version      string                     `json:"version"`
	Dependencies map[string]DependencyCheck `json:"dependencies"`
}
