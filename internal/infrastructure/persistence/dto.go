package persistence

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	jsoniter "github.com/json-iterator/go"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	ioTypeInput  = "input"
	ioTypeOutput = "output"
)

type methodSchema struct {
	ID          string         `db:"id"`
	Slug        string         `db:"slug"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Category    sql.NullString `db:"category"`
}

func (s *methodSchema) toDomain() entity.Method {
	return entity.Method{
		ID:          s.ID,
		Slug:        s.Slug,
		Name:        s.Name,
		Description: s.Description.String,
		Category:    s.Category.String,
		Variants:    []entity.Variant{},
	}
}

type variantSchema struct {
	ID              string         `db:"id"`
	MethodID        string         `db:"method_id"`
	Slug            sql.NullString `db:"slug"`
	Label           string         `db:"label"`
	XpHour          []byte         `db:"xp_hour"`
	ClickIntensity  sql.NullInt32  `db:"click_intensity"`
	Afkiness        sql.NullInt32  `db:"afkiness"`
	RiskLevel       sql.NullInt32  `db:"risk_level"`
	Requirements    []byte         `db:"requirements"`
	Recommendations []byte         `db:"recommendations"`
	ActionsPerHour  sql.NullInt32  `db:"actions_per_hour"`
}

func (s *variantSchema) toDomain() (entity.Variant, error) {
	xp, err := parseXpHour(s.XpHour)
	if err != nil {
		return entity.Variant{}, err
	}

	req, err := parseRequirements(s.Requirements)
	if err != nil {
		return entity.Variant{}, err
	}

	rec, err := parseRequirements(s.Recommendations)
	if err != nil {
		return entity.Variant{}, err
	}

	return entity.Variant{
		ID:              s.ID,
		Slug:            s.Slug.String,
		Label:           s.Label,
		Inputs:          []entity.ItemQty{},
		Outputs:         []entity.ItemQty{},
		Requirements:    req,
		Recommendations: rec,
		ClickIntensity:  nullInt(s.ClickIntensity),
		Afkiness:        nullInt(s.Afkiness),
		RiskLevel:       nullInt(s.RiskLevel),
		ActionsPerHour:  nullInt(s.ActionsPerHour),
		XpHour:          xp,
	}, nil
}

type ioItemSchema struct {
	VariantID string  `db:"variant_id"`
	ItemID    int     `db:"item_id"`
	Type      string  `db:"type"`
	Quantity  float64 `db:"quantity"`
}

type priceRuleSchema struct {
	ItemID    int            `db:"item_id"`
	RuleType  string         `db:"rule_type"`
	Params    []byte         `db:"params"`
	Notes     sql.NullString `db:"notes"`
	IsEnabled bool           `db:"is_enabled"`
}

func (s *priceRuleSchema) toDomain() entity.PriceRule {
	return entity.PriceRule{
		ItemID:  s.ItemID,
		Type:    entity.PriceRuleType(s.RuleType),
		Params:  s.Params,
		Notes:   s.Notes.String,
		Enabled: s.IsEnabled,
	}
}

type sampleSchema struct {
	ID         string    `db:"id"`
	VariantID  string    `db:"variant_id"`
	Timestamp  time.Time `db:"timestamp"`
	LowProfit  float64   `db:"low_profit"`
	HighProfit float64   `db:"high_profit"`
}

func fromSample(e entity.HistorySample) sampleSchema {
	return sampleSchema{
		ID:         e.ID,
		VariantID:  e.VariantID,
		Timestamp:  e.Timestamp,
		LowProfit:  e.LowProfit,
		HighProfit: e.HighProfit,
	}
}

func (s *sampleSchema) toDomain() entity.HistorySample {
	return entity.HistorySample{
		ID:         s.ID,
		VariantID:  s.VariantID,
		Timestamp:  s.Timestamp,
		LowProfit:  s.LowProfit,
		HighProfit: s.HighProfit,
	}
}

type snapshotSchema struct {
	ID          string         `db:"id"`
	VariantID   string         `db:"variant_id"`
	Name        string         `db:"snapshot_name"`
	Description sql.NullString `db:"snapshot_description"`
	Date        time.Time      `db:"snapshot_date"`
}

func (s *snapshotSchema) toDomain() entity.SnapshotMarker {
	return entity.SnapshotMarker{
		ID:          s.ID,
		VariantID:   s.VariantID,
		Name:        s.Name,
		Description: s.Description.String,
		Date:        s.Date,
	}
}

func nullInt(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}

	i := int(v.Int32)
	return &i
}

// parseXpHour accepts both the list form and the older {skill: xp} object.
func parseXpHour(raw []byte) ([]entity.XpHourEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var entries []entity.XpHourEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var bySkill map[string]float64
	if err := json.Unmarshal(raw, &bySkill); err != nil {
		return nil, err
	}

	skills := make([]string, 0, len(bySkill))
	for skill := range bySkill {
		skills = append(skills, skill)
	}
	slices.Sort(skills)

	entries = make([]entity.XpHourEntry, 0, len(skills))
	for _, skill := range skills {
		entries = append(entries, entity.XpHourEntry{Skill: skill, Experience: bySkill[skill]})
	}

	return entries, nil
}

func parseRequirements(raw []byte) (*entity.Requirements, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil //nolint:nilnil // absent requirements
	}

	var req entity.Requirements
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}

	for i, d := range req.AchievementDiaries {
		tier, err := value.ParseDiaryTier(d.Tier)
		if err != nil {
			return nil, fmt.Errorf("diary %q: %w", d.Name, err)
		}

		req.AchievementDiaries[i].Tier = string(tier)
	}

	return &req, nil
}
