package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "PENDING"
	ClaimStatusCompleted ClaimStatus = "COMPLETED"
	ClaimStatusCancelled ClaimStatus = "CANCELLED"
)

// RewardClaim is created PENDING with the reward's cost snapshotted, then
// transitions once to COMPLETED or CANCELLED. Cancellation refunds the
// snapshotted cost.
type RewardClaim struct {
	ID          string      `gorm:"primaryKey;size:36"`
	UserID      string      `gorm:"size:36;not null;index"`
	User        *User       `gorm:"foreignKey:UserID"`
	RewardID    string      `gorm:"size:36;not null;index"`
	Reward      *Reward     `gorm:"foreignKey:RewardID"`
	PointsCost  int         `gorm:"not null"`
	Status      ClaimStatus `gorm:"size:16;not null;default:PENDING"`
	Notes       string      `gorm:"size:500"`
	ClaimedAt   time.Time   `gorm:"autoCreateTime;index"`
	CompletedAt *time.Time  ``
	CancelledAt *time.Time  ``
}

func (RewardClaim) TableName() string {
	return "reward_claims"
}

func (c *RewardClaim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
