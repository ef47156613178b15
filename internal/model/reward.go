package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reward struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Title        string     `gorm:"size:100;not null"`
	Description  string     `gorm:"size:500"`
	PointsCost   int        `gorm:"not null"`
	// No default tag: gorm would skip a zero-valued field carrying one on
	// INSERT, turning IsRepeatable=false into true.
	IsRepeatable bool       `gorm:"not null"`
	MaxClaims    *int       ``
	IsDeleted    bool       `gorm:"not null;default:false"`
	DeletedAt    *time.Time ``
	HouseholdID  string     `gorm:"size:36;not null;index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (Reward) TableName() string {
	return "rewards"
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
