package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/prompty-labs/prompty-backend/internal/models"
)

// ProgressRepository handles skill progress database operations.
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByUser retrieves all skill progress records for a user.
func (r *ProgressRepository) GetByUser(userID uint) ([]models.SkillProgress, error) {
	var progress []models.SkillProgress
	if err := r.db.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, fmt.Errorf("failed to get progress for user %d: %w", userID, err)
	}
	return progress, nil
}

// CountCompleted returns the number of completed skill nodes for a user.
func (r *ProgressRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SkillProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed skills for user %d: %w", userID, err)
	}
	return count, nil
}

// Upsert creates or updates the progress record for one skill node. An
// existing record keeps its ID. CompletedAt is stamped when Completed
// transitions to true and cleared when the skill is reported incomplete; a
// repeated completion keeps the original timestamp.
func (r *ProgressRepository) Upsert(userID uint, skillPath, skillNode string, completed bool) (*models.SkillProgress, error) {
	var existing models.SkillProgress
	err := r.db.
		Where("user_id = ? AND skill_path = ? AND skill_node = ?", userID, skillPath, skillNode).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := models.SkillProgress{
			UserID:    userID,
			SkillPath: skillPath,
			SkillNode: skillNode,
			Completed: completed,
		}
		if completed {
			now := time.Now()
			record.CompletedAt = &now
		}
		if err := r.db.Create(&record).Error; err != nil {
			return nil, fmt.Errorf("failed to create progress: %w", err)
		}
		return &record, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up progress: %w", err)
	}

	switch {
	case completed && !existing.Completed:
		now := time.Now()
		existing.CompletedAt = &now
	case !completed:
		existing.CompletedAt = nil
	}
	existing.Completed = completed

	if err := r.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return &existing, nil
}
