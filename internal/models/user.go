package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

// UserProfile holds the body metrics, goal and activity level the daily
// targets are derived from. Exactly one per user.
type UserProfile struct {
	ID            uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	WeightKg      float64        `gorm:"not null" json:"weight_kg"`
	HeightCm      float64        `gorm:"not null" json:"height_cm"`
	Age           int            `gorm:"not null" json:"age"`
	Sex           string         `gorm:"size:10;not null" json:"sex"`
	ActivityLevel string         `gorm:"size:20;not null" json:"activity_level"`
	Goal          string         `gorm:"size:20;not null" json:"goal"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
