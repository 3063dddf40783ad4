package models

import (
	"time"
)

// SkillProgress records a user's state for one skill node.
//
// At most one row exists per (user_id, skill_path, skill_node); writes go
// through the repository upsert so the row keeps its ID across updates.
// CompletedAt is set when Completed transitions to true and cleared when a
// later report sets Completed back to false.
type SkillProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_skill" json:"user_id"`
	SkillPath   string     `gorm:"not null;size:100;uniqueIndex:idx_user_skill" json:"skill_path"`
	SkillNode   string     `gorm:"not null;size:100;uniqueIndex:idx_user_skill" json:"skill_node"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name for SkillProgress model.
func (SkillProgress) TableName() string {
	return "skill_progress"
}
