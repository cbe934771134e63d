package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:user"` // user, admin
	Language     string `gorm:"default:en"`

	// Progression state. The completion ledger is the source of truth
	// for the streak; these columns hold the last settled snapshot.
	CurrentStreak int    `gorm:"default:0"`
	BestStreak    int    `gorm:"default:0"`
	League        string `gorm:"default:Normal"`

	PointsIntelligence  float64 `gorm:"default:0"`
	PointsPhysical      float64 `gorm:"default:0"`
	PointsSocial        float64 `gorm:"default:0"`
	PointsDiscipline    float64 `gorm:"default:0"`
	PointsDetermination float64 `gorm:"default:0"`

	LastCompletionAt *time.Time
	LastPenaltyAt    *time.Time

	Badges []UserBadge
}

// UserBadge is one earned badge. Rows are only ever inserted by normal
// evaluation; removal requires an explicit admin reset.
type UserBadge struct {
	gorm.Model
	UserID uint   `gorm:"index:idx_user_badge,unique"`
	Name   string `gorm:"index:idx_user_badge,unique"`
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
