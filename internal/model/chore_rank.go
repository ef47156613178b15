package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChoreRank is a named point tier. Names are unique per household,
// case-insensitively; system ranks are seeded at household creation and
// cannot be renamed or deleted.
type ChoreRank struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:50;not null;index:idx_rank_household_name"`
	DisplayName string    `gorm:"size:50;not null"`
	PointValue  int       `gorm:"not null"`
	IsSystem    bool      `gorm:"not null;default:false"`
	HouseholdID string    `gorm:"size:36;not null;index:idx_rank_household_name"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ChoreRank) TableName() string {
	return "chore_ranks"
}

func (r *ChoreRank) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
