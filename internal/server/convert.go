package server

import (
	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/service/method"
	"osrs_profit/pkg/lox"
	"osrs_profit/pkg/rest"
)

func newRESTRequirements(r *entity.Requirements) *rest.Requirements {
	if r == nil {
		return nil
	}

	return &rest.Requirements{
		Items: lox.Map(r.Items, func(i entity.ItemRequirement) rest.ItemRequirement {
			return rest.ItemRequirement{ID: i.ID, Quantity: i.Quantity, Reason: i.Reason}
		}),
		Levels: lox.Map(r.Levels, func(l entity.LevelRequirement) rest.LevelRequirement {
			return rest.LevelRequirement{Skill: l.Skill, Level: l.Level, Reason: l.Reason}
		}),
		Quests: lox.Map(r.Quests, func(q entity.QuestRequirement) rest.QuestRequirement {
			return rest.QuestRequirement{Name: q.Name, Stage: q.Stage, Reason: q.Reason}
		}),
		AchievementDiaries: lox.Map(r.AchievementDiaries, func(d entity.DiaryRequirement) rest.DiaryRequirement {
			return rest.DiaryRequirement{Name: d.Name, Tier: d.Tier, Reason: d.Reason}
		}),
	}
}

func newRESTItems(items []entity.ItemQty) []rest.ItemQty {
	return lox.Map(items, func(i entity.ItemQty) rest.ItemQty {
		return rest.ItemQty{ID: i.ID, Quantity: i.Quantity}
	})
}

func newRESTVariantProfit(v method.RankedVariant) rest.VariantProfit {
	return rest.VariantProfit{
		ID:         v.ID,
		Slug:       v.Slug,
		Label:      v.Label,
		LowProfit:  v.LowProfit,
		HighProfit: v.HighProfit,
		XpHour: lox.Map(v.XpHour, func(e entity.XpHourEntry) rest.XpHour {
			return rest.XpHour{Skill: e.Skill, Experience: e.Experience}
		}),
		ClickIntensity: v.ClickIntensity,
		Afkiness:       v.Afkiness,
		RiskLevel:      v.RiskLevel,
		Requirements:   newRESTRequirements(v.Requirements),
	}
}

func newRESTMethodProfitList(res method.ListResult, page, perPage int) rest.MethodProfitList {
	return rest.MethodProfitList{
		Data: lox.Map(res.Data, func(m method.RankedMethod) rest.MethodProfit {
			return rest.MethodProfit{
				ID:           m.ID,
				Slug:         m.Slug,
				Name:         m.Name,
				Category:     m.Category,
				VariantCount: m.VariantCount,
				Variant:      newRESTVariantProfit(m.Variant),
			}
		}),
		Meta: rest.PageMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      res.Total,
			TotalPages: (res.Total + perPage - 1) / perPage,
		},
	}
}

func newRESTMethodDetail(d method.MethodDetail) rest.MethodDetail {
	return rest.MethodDetail{
		ID:          d.ID,
		Slug:        d.Slug,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Variants: lox.Map(d.Variants, func(v method.DetailVariant) rest.VariantDetail {
			return rest.VariantDetail{
				VariantProfit:       newRESTVariantProfit(v.RankedVariant),
				Inputs:              newRESTItems(v.Inputs),
				Outputs:             newRESTItems(v.Outputs),
				Recommendations:     newRESTRequirements(v.Recommendations),
				ActionsPerHour:      v.ActionsPerHour,
				MissingRequirements: newRESTRequirements(v.MissingRequirements),
				Trends: rest.Trend{
					LastHour:  v.Trend.LastHour,
					Last24h:   v.Trend.Last24h,
					LastWeek:  v.Trend.LastWeek,
					LastMonth: v.Trend.LastMonth,
				},
			}
		}),
	}
}

func newRESTOHLC(c *entity.OHLC) *rest.OHLC {
	if c == nil {
		return nil
	}

	return &rest.OHLC{Open: c.Open, High: c.High, Low: c.Low, Close: c.Close}
}

func newRESTVariantHistory(s entity.HistorySeries) rest.VariantHistory {
	return rest.VariantHistory{
		Data: lox.Map(s.Points, func(p entity.HistoryPoint) rest.HistoryPoint {
			return rest.HistoryPoint{
				Timestamp: p.Timestamp,
				Low:       p.Low,
				High:      p.High,
				LowOHLC:   newRESTOHLC(p.LowOHLC),
				HighOHLC:  newRESTOHLC(p.HighOHLC),
				Samples:   p.Samples,
			}
		}),
		VariantSnapshot: lox.Map(s.Snapshots, func(m entity.SnapshotMarker) rest.VariantSnapshot {
			return rest.VariantSnapshot{ID: m.ID, Name: m.Name, Description: m.Description, Date: m.Date}
		}),
		Meta: rest.HistoryMeta{
			VariantID:   s.VariantID,
			Range:       s.Range,
			Granularity: s.Granularity,
			Aggregation: s.Aggregation,
			Timezone:    s.Timezone,
			From:        s.From,
			To:          s.To,
		},
	}
}

func newRESTPrice(p entity.Price) rest.Price {
	return rest.Price{
		ItemID:   p.ItemID,
		Low:      p.Low,
		High:     p.High,
		LowTime:  p.LowTime,
		HighTime: p.HighTime,
	}
}
