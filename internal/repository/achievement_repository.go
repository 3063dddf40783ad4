package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/prompty-labs/prompty-backend/internal/models"
)

// AchievementRepository handles unlocked-achievement database operations.
type AchievementRepository struct {
	db *DB
}

// NewAchievementRepository creates a new achievement repository.
func NewAchievementRepository(db *DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// GetByUser retrieves all achievements unlocked by a user, oldest first.
func (r *AchievementRepository) GetByUser(userID uint) ([]models.UserAchievement, error) {
	var unlocked []models.UserAchievement
	err := r.db.
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&unlocked).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements for user %d: %w", userID, err)
	}
	return unlocked, nil
}

// Add unlocks an achievement for a user. Idempotent: if the achievement is
// already unlocked the existing record is returned unchanged, EarnedAt
// included.
func (r *AchievementRepository) Add(userID uint, achievementID string) (*models.UserAchievement, error) {
	var existing models.UserAchievement
	err := r.db.
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up achievement: %w", err)
	}

	record := models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	if err := r.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return &record, nil
}

// CountByUser returns how many achievements a user has unlocked.
func (r *AchievementRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count achievements for user %d: %w", userID, err)
	}
	return count, nil
}

// HasEarned checks if a user has unlocked a specific achievement.
func (r *AchievementRepository) HasEarned(userID uint, achievementID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
