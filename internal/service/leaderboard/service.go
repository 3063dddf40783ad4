// Package leaderboard provides learner ranking services.
package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/prompty-labs/prompty-backend/internal/models"
	"github.com/prompty-labs/prompty-backend/internal/repository"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// UserRepository interface for user operations.
type UserRepository interface {
	ListByXP(limit int) ([]models.User, error)
}

// ProgressRepository interface for progress operations.
type ProgressRepository interface {
	CountCompleted(userID uint) (int64, error)
}

// AchievementRepository interface for achievement operations.
type AchievementRepository interface {
	CountByUser(userID uint) (int64, error)
}

// Entry represents a single entry in the leaderboard.
type Entry struct {
	Rank            int    `json:"rank"`
	UserID          uint   `json:"user_id"`
	Name            string `json:"name"`
	Level           int    `json:"level"`
	XP              int    `json:"xp"`
	CompletedSkills int    `json:"completed_skills"`
	Achievements    int    `json:"achievements"`
}

// Service handles leaderboard generation.
type Service struct {
	userRepo        UserRepository
	progressRepo    ProgressRepository
	achievementRepo AchievementRepository
	log             *logger.Logger
}

// NewService creates a new leaderboard service.
func NewService(
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	achievementRepo *repository.AchievementRepository,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(userRepo, progressRepo, achievementRepo, log)
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	userRepo UserRepository,
	progressRepo ProgressRepository,
	achievementRepo AchievementRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:        userRepo,
		progressRepo:    progressRepo,
		achievementRepo: achievementRepo,
		log:             log,
	}
}

// GetLeaderboard returns learners ranked by the given metric. Supported
// metrics are xp (the default), completed_skills and achievements; ties
// break on XP then user ID so ordering is stable.
//
//nolint:revive // ctx reserved for future context-aware storage
func (s *Service) GetLeaderboard(ctx context.Context, metric string, limit int) ([]Entry, error) {
	if err := validateMetric(metric); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByXP(0)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	entries := make([]Entry, 0, len(users))
	for _, user := range users {
		entry := Entry{
			UserID: user.ID,
			Name:   user.Name,
			Level:  user.Level,
			XP:     user.XP,
		}

		completed, err := s.progressRepo.CountCompleted(user.ID)
		if err != nil {
			s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to count completed skills")
		}
		entry.CompletedSkills = int(completed)

		unlocked, err := s.achievementRepo.CountByUser(user.ID)
		if err != nil {
			s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to count achievements")
		}
		entry.Achievements = int(unlocked)

		entries = append(entries, entry)
	}

	sortLeaderboard(entries, metric)

	for i := range entries {
		entries[i].Rank = i + 1
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// GetUserRank returns a user's position in the XP leaderboard.
func (s *Service) GetUserRank(ctx context.Context, userID uint) (int, error) {
	entries, err := s.GetLeaderboard(ctx, "xp", 0)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if entry.UserID == userID {
			return entry.Rank, nil
		}
	}
	return 0, fmt.Errorf("user %d not found in leaderboard", userID)
}

// sortLeaderboard sorts leaderboard entries by the specified metric.
func sortLeaderboard(entries []Entry, metric string) {
	less := func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	}

	switch metric {
	case "completed_skills":
		less = func(i, j int) bool {
			if entries[i].CompletedSkills != entries[j].CompletedSkills {
				return entries[i].CompletedSkills > entries[j].CompletedSkills
			}
			if entries[i].XP != entries[j].XP {
				return entries[i].XP > entries[j].XP
			}
			return entries[i].UserID < entries[j].UserID
		}
	case "achievements":
		less = func(i, j int) bool {
			if entries[i].Achievements != entries[j].Achievements {
				return entries[i].Achievements > entries[j].Achievements
			}
			if entries[i].XP != entries[j].XP {
				return entries[i].XP > entries[j].XP
			}
			return entries[i].UserID < entries[j].UserID
		}
	}

	sort.Slice(entries, less)
}

// validateMetric rejects metrics the leaderboard cannot rank by.
func validateMetric(metric string) error {
	switch metric {
	case "", "xp", "completed_skills", "achievements":
		return nil
	default:
		return fmt.Errorf("invalid metric: %s (valid: xp, completed_skills, achievements)", metric)
	}
}
