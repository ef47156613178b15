package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chore struct {
	ID               string          `gorm:"primaryKey;size:36"`
	Title            string          `gorm:"size:120;not null"`
	Description      string          `gorm:"type:text;not null"`
	HouseholdID      string          `gorm:"size:36;not null;index"`
	RankID           string          `gorm:"size:36;not null;index"`
	Rank             *ChoreRank      `gorm:"foreignKey:RankID"`
	FrequencyID      string          `gorm:"size:36;not null;index"`
	Frequency        *ChoreFrequency `gorm:"foreignKey:FrequencyID"`
	AssignedToID     *string         `gorm:"size:36;index"`
	AssignedTo       *User           `gorm:"foreignKey:AssignedToID"`
	CreatedByID      string          `gorm:"size:36;not null"`
	CreatedBy        *User           `gorm:"foreignKey:CreatedByID"`
	IsComplete       bool            `gorm:"not null;default:false"`
	CurrentStreak    int             `gorm:"not null;default:0"`
	LongestStreak    int             `gorm:"not null;default:0"`
	TotalCompletions int             `gorm:"not null;default:0"`
	LastReset        time.Time       `gorm:"not null"`
	NextReset        time.Time       `gorm:"not null;index"`
	LastCompletedBy  *string         `gorm:"size:36"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

func (Chore) TableName() string {
	return "chores"
}

func (c *Chore) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the chore's reset window has elapsed.
func (c *Chore) Expired(now time.Time) bool {
	return !now.Before(c.NextReset)
}
