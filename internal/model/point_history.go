package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PointType string

const (
	PointTypeChoreComplete PointType = "CHORE_COMPLETE"
	PointTypeRewardClaimed PointType = "REWARD_CLAIMED"
	PointTypeBonus         PointType = "BONUS"
)

// PointHistory is the append-only ledger of point deltas. The sum of a
// user's entries reconciles with User.TotalPoints.
type PointHistory struct {
	ID            string       `gorm:"primaryKey;size:36"`
	Points        int          `gorm:"not null"`
	Type          PointType    `gorm:"size:32;not null"`
	Reason        string       `gorm:"size:255;not null"`
	UserID        string       `gorm:"size:36;not null;index"`
	HouseholdID   string       `gorm:"size:36;not null;index"`
	ChoreID       *string      `gorm:"size:36"`
	Chore         *Chore       `gorm:"foreignKey:ChoreID"`
	RewardClaimID *string      `gorm:"size:36"`
	RewardClaim   *RewardClaim `gorm:"foreignKey:RewardClaimID"`
	CreatedAt     time.Time    `gorm:"autoCreateTime;index"`
}

func (PointHistory) TableName() string {
	return "point_histories"
}

func (p *PointHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
