package requirement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"osrs_profit/internal/domain/entity"
	"osrs_profit/internal/domain/service/requirement"
)

func capabilities() entity.Capabilities {
	return entity.Capabilities{
		Levels: map[string]int{
			"Strength": 60,
			"Defence":  49,
			"Attack":   70,
			"Cooking":  80,
		},
		Quests: map[string]int{
			"Dragon Slayer I":  2,
			"Cook's Assistant": 1,
		},
		AchievementDiaries: map[string]map[string]entity.DiaryProgress{
			"Ardougne": {
				"Easy":   {Complete: true},
				"Medium": {Complete: false, Tasks: []bool{true, false}},
			},
		},
	}
}

func TestIsSatisfied(t *testing.T) {
	testCases := []struct {
		name string
		req  *entity.Requirements
		want bool
	}{
		{name: "nil requirements", req: nil, want: true},
		{name: "empty requirements", req: &entity.Requirements{}, want: true},
		{
			name: "plain skill met",
			req:  &entity.Requirements{Levels: []entity.LevelRequirement{{Skill: "Cooking", Level: 80}}},
			want: true,
		},
		{
			name: "skill matched case-insensitively",
			req:  &entity.Requirements{Levels: []entity.LevelRequirement{{Skill: "cooking", Level: 75}}},
			want: true,
		},
		{
			name: "unknown skill counts as zero",
			req:  &entity.Requirements{Levels: []entity.LevelRequirement{{Skill: "Magic", Level: 1}}},
			want: false,
		},
		{
			name: "combat needs every stat",
			req:  &entity.Requirements{Levels: []entity.LevelRequirement{{Skill: "Combat", Level: 50}}},
			want: false,
		},
		{
			name: "combat met by every stat",
			req:  &entity.Requirements{Levels: []entity.LevelRequirement{{Skill: "Combat", Level: 49}}},
			want: true,
		},
		{
			name: "quest compared case-insensitively",
			req:  &entity.Requirements{Quests: []entity.QuestRequirement{{Name: "dragon slayer i", Stage: 2}}},
			want: true,
		},
		{
			name: "quest stage too low",
			req:  &entity.Requirements{Quests: []entity.QuestRequirement{{Name: "Cook's Assistant", Stage: 2}}},
			want: false,
		},
		{
			name: "unseen quest fails closed",
			req:  &entity.Requirements{Quests: []entity.QuestRequirement{{Name: "Monkey Madness I", Stage: 1}}},
			want: false,
		},
		{
			name: "unseen quest with stage zero passes",
			req:  &entity.Requirements{Quests: []entity.QuestRequirement{{Name: "Monkey Madness I", Stage: 0}}},
			want: true,
		},
		{
			name: "diary tier complete",
			req:  &entity.Requirements{AchievementDiaries: []entity.DiaryRequirement{{Name: "Ardougne", Tier: "easy"}}},
			want: true,
		},
		{
			name: "diary tier incomplete",
			req:  &entity.Requirements{AchievementDiaries: []entity.DiaryRequirement{{Name: "Ardougne", Tier: "medium"}}},
			want: false,
		},
		{
			name: "diary absent",
			req:  &entity.Requirements{AchievementDiaries: []entity.DiaryRequirement{{Name: "Varrock", Tier: "easy"}}},
			want: false,
		},
		{
			name: "items never gate",
			req:  &entity.Requirements{Items: []entity.ItemRequirement{{ID: 1, Quantity: 5}}},
			want: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, requirement.IsSatisfied(tc.req, capabilities()))
		})
	}
}

func TestIsSatisfied_CombatBoundary(t *testing.T) {
	rq := require.New(t)

	req := &entity.Requirements{Levels: []entity.LevelRequirement{{Skill: "Combat", Level: 50}}}

	caps := entity.Capabilities{Levels: map[string]int{"Strength": 50, "Defence": 50, "Attack": 50}}
	rq.True(requirement.IsSatisfied(req, caps))

	caps.Levels["Attack"] = 49
	rq.False(requirement.IsSatisfied(req, caps))
}

func TestComputeMissing(t *testing.T) {
	rq := require.New(t)

	req := &entity.Requirements{
		Items:  []entity.ItemRequirement{{ID: 1, Quantity: 1}},
		Levels: []entity.LevelRequirement{{Skill: "Combat", Level: 65, Reason: "to survive"}, {Skill: "Cooking", Level: 70}},
		Quests: []entity.QuestRequirement{{Name: "Dragon Slayer I", Stage: 2}, {Name: "Monkey Madness I", Stage: 1}},
		AchievementDiaries: []entity.DiaryRequirement{
			{Name: "Ardougne", Tier: "easy"},
			{Name: "Ardougne", Tier: "medium"},
		},
	}

	missing := requirement.ComputeMissing(req, capabilities())
	rq.NotNil(missing)
	rq.Empty(missing.Items)
	rq.Equal([]entity.LevelRequirement{
		{Skill: "Strength", Level: 65, Reason: "to survive"},
		{Skill: "Defence", Level: 65, Reason: "to survive"},
	}, missing.Levels)
	rq.Equal([]entity.QuestRequirement{{Name: "Monkey Madness I", Stage: 1}}, missing.Quests)
	rq.Equal([]entity.DiaryRequirement{{Name: "Ardougne", Tier: "medium"}}, missing.AchievementDiaries)

	rq.Nil(requirement.ComputeMissing(nil, capabilities()))
	rq.Nil(requirement.ComputeMissing(&entity.Requirements{
		Levels: []entity.LevelRequirement{{Skill: "Cooking", Level: 1}},
	}, capabilities()))
}
