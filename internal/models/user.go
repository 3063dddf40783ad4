// Package models defines domain models for the Prompty backend.
package models

import (
	"time"
)

// User represents a registered learner.
//
// Level is always derived from XP (level = xp/500 + 1) and the two columns are
// only ever written together by the progress engine.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Level        int       `gorm:"not null;default:1" json:"level"`
	XP           int       `gorm:"column:xp;not null;default:0" json:"xp"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}
