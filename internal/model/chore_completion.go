package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChoreCompletion is an immutable record of one completion event.
type ChoreCompletion struct {
	ID           string    `gorm:"primaryKey;size:36"`
	ChoreID      string    `gorm:"size:36;not null;index"`
	UserID       string    `gorm:"size:36;not null;index"`
	User         *User     `gorm:"foreignKey:UserID"`
	HouseholdID  string    `gorm:"size:36;not null;index"`
	PointsEarned int       `gorm:"not null"`
	StreakCount  int       `gorm:"not null"`
	Note         string    `gorm:"type:text"`
	PhotoURL     string    `gorm:"size:512"`
	CompletedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (ChoreCompletion) TableName() string {
	return "chore_completions"
}

func (c *ChoreCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
