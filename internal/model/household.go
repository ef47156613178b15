package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Household struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Name       string    `gorm:"size:120;not null"`
	InviteCode string    `gorm:"size:16;uniqueIndex;not null"`
	OwnerID    string    `gorm:"size:36;not null"`
	Owner      *User     `gorm:"foreignKey:OwnerID"`
	Members    []User    `gorm:"foreignKey:HouseholdID"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Household) TableName() string {
	return "households"
}

func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
