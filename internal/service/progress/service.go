// Package progress implements the skill completion engine: progress upserts,
// XP and level accounting, and achievement unlocking.
package progress

import (
	"context"
	"errors"
	"sync"

	"github.com/prompty-labs/prompty-backend/internal/catalog"
	"github.com/prompty-labs/prompty-backend/internal/metrics"
	"github.com/prompty-labs/prompty-backend/internal/models"
	"github.com/prompty-labs/prompty-backend/internal/repository"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// ErrInvalidInput is returned for empty skill path or node. Nothing is written
// when it is returned.
var ErrInvalidInput = errors.New("skill path and skill node are required")

// ProgressRepository interface for progress operations.
type ProgressRepository interface {
	GetByUser(userID uint) ([]models.SkillProgress, error)
	Upsert(userID uint, skillPath, skillNode string, completed bool) (*models.SkillProgress, error)
}

// AchievementRepository interface for achievement operations.
type AchievementRepository interface {
	GetByUser(userID uint) ([]models.UserAchievement, error)
	Add(userID uint, achievementID string) (*models.UserAchievement, error)
}

// UserRepository interface for user operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	UpdateXPAndLevel(id uint, xp, level int) error
}

// Service orchestrates skill completion events.
type Service struct {
	progressRepo    ProgressRepository
	achievementRepo AchievementRepository
	userRepo        UserRepository
	catalog         *catalog.Catalog
	log             *logger.Logger

	// userLocks serializes XP read-modify-write per user so two concurrent
	// completions cannot both read the pre-update XP. Different users never
	// contend.
	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

// Result is the outcome of one completion event. User, EarnedXP and
// NewAchievements are only populated when XP was granted.
type Result struct {
	Progress        *models.SkillProgress
	User            *models.User
	EarnedXP        int
	NewAchievements []catalog.Achievement
}

// UnlockedAchievement is a stored unlock enriched with its catalog definition.
type UnlockedAchievement struct {
	models.UserAchievement
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewService creates a new progress service.
func NewService(
	progressRepo *repository.ProgressRepository,
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	cat *catalog.Catalog,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(progressRepo, achievementRepo, userRepo, cat, log)
}

// NewServiceWithInterfaces creates a new progress service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	progressRepo ProgressRepository,
	achievementRepo AchievementRepository,
	userRepo UserRepository,
	cat *catalog.Catalog,
	log *logger.Logger,
) *Service {
	return &Service{
		progressRepo:    progressRepo,
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		catalog:         cat,
		log:             log,
		userLocks:       make(map[uint]*sync.Mutex),
	}
}

// RecordCompletion handles one skill completion event end to end: upsert the
// progress record, grant XP when the catalog knows the skill, and evaluate
// achievements against the updated totals.
//
// Skills unknown to the catalog are still recorded but award no XP. XP is
// granted on every completed report with a nonzero reward, including repeat
// reports for an already-completed skill.
// TODO: decide whether re-completing a skill should award XP again.
//
//nolint:revive // ctx reserved for future context-aware storage
func (s *Service) RecordCompletion(ctx context.Context, userID uint, skillPath, skillNode string, completed bool) (*Result, error) {
	if skillPath == "" || skillNode == "" {
		return nil, ErrInvalidInput
	}

	record, err := s.progressRepo.Upsert(userID, skillPath, skillNode, completed)
	if err != nil {
		return nil, err
	}
	result := &Result{Progress: record}

	reward := s.catalog.XPForSkill(skillPath, skillNode)
	if !completed || reward == 0 {
		return result, nil
	}
	metrics.RecordSkillCompletion(skillPath)

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	newXP := user.XP + reward
	newLevel := Level(newXP)
	if err := s.userRepo.UpdateXPAndLevel(userID, newXP, newLevel); err != nil {
		return nil, err
	}
	if newLevel > user.Level {
		metrics.RecordLevelUp()
	}
	metrics.RecordXPAwarded(skillPath, reward)

	user.XP = newXP
	user.Level = newLevel
	result.User = user
	result.EarnedXP = reward

	s.log.Info().
		Uint("user_id", userID).
		Str("skill_path", skillPath).
		Str("skill_node", skillNode).
		Int("earned_xp", reward).
		Int("level", newLevel).
		Msg("Skill completed")

	// Achievement evaluation is best-effort: the XP grant already committed,
	// so a failure here is logged and the successful result still returned.
	newlyUnlocked, err := s.evaluateAchievements(userID, newXP)
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", userID).Msg("Achievement evaluation failed")
		return result, nil
	}
	result.NewAchievements = newlyUnlocked

	return result, nil
}

// Progress returns all skill progress records for a user.
//
//nolint:revive // ctx reserved for future context-aware storage
func (s *Service) Progress(ctx context.Context, userID uint) ([]models.SkillProgress, error) {
	return s.progressRepo.GetByUser(userID)
}

// Achievements returns a user's unlocked achievements enriched with title and
// description from the catalog.
//
//nolint:revive // ctx reserved for future context-aware storage
func (s *Service) Achievements(ctx context.Context, userID uint) ([]UnlockedAchievement, error) {
	unlocked, err := s.achievementRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	enriched := make([]UnlockedAchievement, 0, len(unlocked))
	for _, ua := range unlocked {
		entry := UnlockedAchievement{UserAchievement: ua}
		if def, ok := s.catalog.Achievement(ua.AchievementID); ok {
			entry.Title = def.Title
			entry.Description = def.Description
		}
		enriched = append(enriched, entry)
	}
	return enriched, nil
}

// userLock returns the mutex guarding one user's XP updates.
func (s *Service) userLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}
