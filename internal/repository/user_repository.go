package repository

import (
	"fmt"

	"github.com/prompty-labs/prompty-backend/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by id %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// ListByXP retrieves users ordered by XP descending. A limit of 0 returns all.
func (r *UserRepository) ListByXP(limit int) ([]models.User, error) {
	var users []models.User
	query := r.db.Order("xp DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by xp: %w", err)
	}
	return users, nil
}

// UpdateXPAndLevel persists a user's XP and level in a single statement so the
// two columns can never diverge.
func (r *UserRepository) UpdateXPAndLevel(id uint, xp, level int) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"xp": xp, "level": level}).Error
	if err != nil {
		return fmt.Errorf("failed to update xp for user %d: %w", id, err)
	}
	return nil
}
