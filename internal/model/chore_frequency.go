package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChoreFrequency is a named recurrence interval in whole days.
type ChoreFrequency struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Name         string    `gorm:"size:50;not null;index:idx_freq_household_name"`
	DisplayName  string    `gorm:"size:50;not null"`
	DaysInterval int       `gorm:"not null"`
	IsSystem     bool      `gorm:"not null;default:false"`
	HouseholdID  string    `gorm:"size:36;not null;index:idx_freq_household_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ChoreFrequency) TableName() string {
	return "chore_frequencies"
}

func (f *ChoreFrequency) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
