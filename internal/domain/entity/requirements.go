package entity

import "strings"

// CombatSkill expands into Strength, Defence and Attack, each checked on
// its own.
const CombatSkill = "Combat"

//nolint:gochecknoglobals
var CombatStats = []string{"Strength", "Defence", "Attack"}

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

// Requirements gates a variant. Items are descriptive and never gate.
type Requirements struct {
	Items              []ItemRequirement  `json:"items,omitempty"`
	Levels             []LevelRequirement `json:"levels,omitempty"`
	Quests             []QuestRequirement `json:"quests,omitempty"`
	AchievementDiaries []DiaryRequirement `json:"achievement_diaries,omitempty"`
}

func (r *Requirements) IsEmpty() bool {
	return r == nil ||
		len(r.Items) == 0 && len(r.Levels) == 0 && len(r.Quests) == 0 && len(r.AchievementDiaries) == 0
}

type DiaryProgress struct {
	Complete bool   `json:"complete"`
	Tasks    []bool `json:"tasks,omitempty"`
}

// Capabilities is a read-only snapshot of what a player has unlocked.
type Capabilities struct {
	Levels             map[string]int                      `json:"levels"`
	Quests             map[string]int                      `json:"quests"`
	AchievementDiaries map[string]map[string]DiaryProgress `json:"achievement_diaries"`
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
