package models

import "gorm.io/gorm"

type QuoteFavorite struct {
	gorm.Model
	UserID uint   `gorm:"index;not null"`
	Quote  string `gorm:"size:1000;not null"`
	Author string `gorm:"size:200"`
}
