package progress

import (
	"fmt"

	"github.com/prompty-labs/prompty-backend/internal/catalog"
	"github.com/prompty-labs/prompty-backend/internal/metrics"
	"github.com/prompty-labs/prompty-backend/internal/models"
)

// userStats aggregates everything achievement criteria can reference.
type userStats struct {
	completedSkills int
	distinctDays    int
	pathsCompleted  int
	totalXP         int
	level           int
}

// evaluateAchievements checks every catalog achievement against the user's
// current progress and XP, unlocking the ones that newly qualify. Returns the
// newly unlocked definitions in catalog declaration order.
func (s *Service) evaluateAchievements(userID uint, xp int) ([]catalog.Achievement, error) {
	progressList, err := s.progressRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	unlocked, err := s.achievementRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	alreadyEarned := make(map[string]bool, len(unlocked))
	for _, ua := range unlocked {
		alreadyEarned[ua.AchievementID] = true
	}

	stats := s.computeStats(progressList, xp)

	var newlyUnlocked []catalog.Achievement
	for _, def := range s.catalog.Achievements() {
		if alreadyEarned[def.ID] {
			continue
		}

		qualifies, err := evaluateCriteria(def.Criteria, stats)
		if err != nil {
			s.log.Error().
				Err(err).
				Str("achievement", def.ID).
				Msg("Failed to evaluate achievement")
			continue
		}
		if !qualifies {
			continue
		}

		if _, err := s.achievementRepo.Add(userID, def.ID); err != nil {
			s.log.Error().
				Err(err).
				Uint("user_id", userID).
				Str("achievement", def.ID).
				Msg("Failed to unlock achievement")
			continue
		}

		metrics.RecordAchievementUnlocked(def.ID)
		s.log.Info().
			Uint("user_id", userID).
			Str("achievement", def.ID).
			Msg("Achievement unlocked")
		newlyUnlocked = append(newlyUnlocked, def)
	}

	return newlyUnlocked, nil
}

// computeStats derives criteria metrics from the user's progress and XP.
func (s *Service) computeStats(progressList []models.SkillProgress, xp int) userStats {
	stats := userStats{
		totalXP: xp,
		level:   Level(xp),
	}

	days := make(map[string]bool)
	completedByPath := make(map[string]int)

	for _, p := range progressList {
		if !p.Completed {
			continue
		}
		stats.completedSkills++
		completedByPath[p.SkillPath]++
		if p.CompletedAt != nil {
			days[p.CompletedAt.Format("2006-01-02")] = true
		}
	}
	stats.distinctDays = len(days)

	for pathID, completed := range completedByPath {
		total := s.catalog.SkillCount(pathID)
		if total > 0 && completed >= total {
			stats.pathsCompleted++
		}
	}

	return stats
}

// evaluateCriteria compares one achievement's criteria against the stats.
func evaluateCriteria(c catalog.Criteria, stats userStats) (bool, error) {
	var actual int
	switch c.Metric {
	case "completed_skills":
		actual = stats.completedSkills
	case "total_xp":
		actual = stats.totalXP
	case "level":
		actual = stats.level
	case "distinct_days":
		actual = stats.distinctDays
	case "paths_completed":
		actual = stats.pathsCompleted
	default:
		return false, fmt.Errorf("unknown metric: %s", c.Metric)
	}

	switch c.Operator {
	case "<":
		return actual < c.Value, nil
	case "<=":
		return actual <= c.Value, nil
	case ">":
		return actual > c.Value, nil
	case ">=":
		return actual >= c.Value, nil
	case "==":
		return actual == c.Value, nil
	default:
		return false, fmt.Errorf("unsupported operator: %s", c.Operator)
	}
}
