// Package requirement checks variant gating against a player's unlocks.
package requirement

import (
	"strings"

	"osrs_profit/internal/domain/entity"
)

// IsSatisfied reports whether every level, quest and diary clause of req is
// met by caps. A nil requirement set or an absent category always passes.
// Quests and diaries the player has never seen fail closed.
func IsSatisfied(req *entity.Requirements, caps entity.Capabilities) bool {
	if req == nil {
		return true
	}

	for _, lvl := range req.Levels {
		for _, skill := range expandSkill(lvl.Skill) {
			if levelOf(caps, skill) < lvl.Level {
				return false
			}
		}
	}

	quests := questStages(caps)
	for _, q := range req.Quests {
		if quests[strings.ToLower(q.Name)] < q.Stage {
			return false
		}
	}

	for _, d := range req.AchievementDiaries {
		if !diaryComplete(caps, d) {
			return false
		}
	}

	return true
}

// ComputeMissing runs the same checks as IsSatisfied but collects every unmet
// clause. It returns nil when nothing is missing.
func ComputeMissing(req *entity.Requirements, caps entity.Capabilities) *entity.Requirements {
	if req == nil {
		return nil
	}

	missing := &entity.Requirements{}

	for _, lvl := range req.Levels {
		if !strings.EqualFold(lvl.Skill, entity.CombatSkill) {
			if levelOf(caps, lvl.Skill) < lvl.Level {
				missing.Levels = append(missing.Levels, lvl)
			}
			continue
		}

		for _, stat := range entity.CombatStats {
			if levelOf(caps, stat) < lvl.Level {
				missing.Levels = append(missing.Levels, entity.LevelRequirement{
					Skill:  stat,
					Level:  lvl.Level,
					Reason: lvl.Reason,
				})
			}
		}
	}

	quests := questStages(caps)
	for _, q := range req.Quests {
		if quests[strings.ToLower(q.Name)] < q.Stage {
			missing.Quests = append(missing.Quests, q)
		}
	}

	for _, d := range req.AchievementDiaries {
		if !diaryComplete(caps, d) {
			missing.AchievementDiaries = append(missing.AchievementDiaries, d)
		}
	}

	if missing.IsEmpty() {
		return nil
	}

	return missing
}

func expandSkill(skill string) []string {
	if strings.EqualFold(skill, entity.CombatSkill) {
		return entity.CombatStats
	}

	return []string{skill}
}

func levelOf(caps entity.Capabilities, skill string) int {
	if lvl, ok := caps.Levels[skill]; ok {
		return lvl
	}

	for name, lvl := range caps.Levels {
		if strings.EqualFold(name, skill) {
			return lvl
		}
	}

	return 0
}

func questStages(caps entity.Capabilities) map[string]int {
	stages := make(map[string]int, len(caps.Quests))
	for name, stage := range caps.Quests {
		stages[strings.ToLower(name)] = stage
	}

	return stages
}

func diaryComplete(caps entity.Capabilities, d entity.DiaryRequirement) bool {
	tiers, ok := caps.AchievementDiaries[d.Name]
	if !ok {
		return false
	}

	for tier, progress := range tiers {
		if strings.EqualFold(tier, d.Tier) {
			return progress.Complete
		}
	}

	return false
}
