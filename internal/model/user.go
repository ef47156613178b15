package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Email       string     `gorm:"size:255;uniqueIndex;not null"`
	Name        string     `gorm:"size:120;not null"`
	Password    string     `gorm:"size:255;not null"`
	TotalPoints int        `gorm:"not null;default:0"`
	HouseholdID *string    `gorm:"size:36;index"`
	Household   *Household `gorm:"foreignKey:HouseholdID"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
