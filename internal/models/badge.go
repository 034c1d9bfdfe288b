package models

import (
	"time"
)

type BadgeTier int

const (
	BadgeBronze BadgeTier = iota
	BadgeSilver
	BadgeGold
)

func (t BadgeTier) String() string {
	switch t {
	case BadgeSilver:
		return "silver"
	case BadgeGold:
		return "gold"
	default:
		return "bronze"
	}
}

type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:200" json:"description"`
	Type        BadgeTier `gorm:"not null" json:"type"`
	Unique      bool      `gorm:"default:false" json:"unique"` // unique badges may be earned only once
	Secret      bool      `gorm:"default:false" json:"secret"` // secret badges are not listed
	Count       int       `gorm:"default:0" json:"count"`      // total number of times awarded
}

// Award is a badge being given to a user. It is not a plain many-to-many
// association because non-unique badges may be earned multiple times.
type Award struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	BadgeID uint      `gorm:"not null;index" json:"badge_id"`
	Badge   Badge     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"badge"`
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	User    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Date    time.Time `json:"date"`
}
