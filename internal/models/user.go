package models

import (
	"time"
)

type UserType int

const (
	UserNew UserType = iota
	UserModerator
	UserAdmin
)

type UserStatus int

const (
	UserActive UserStatus = iota
	UserSuspended
)

func (s UserStatus) String() string {
	if s == UserSuspended {
		return "suspended"
	}
	return "active"
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:100;not null;index" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Created automatically when the user is created, destroyed with it.
	Profile Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile"`
}

// Profile stores user options and the denormalized reputation fields.
type Profile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName string     `gorm:"size:250;not null;index" json:"display_name"`
	Type        UserType   `gorm:"default:0" json:"type"`
	Status      UserStatus `gorm:"default:0" json:"status"`

	// Globally unique opaque id, used to identify the user in private feeds.
	UUID string `gorm:"uniqueIndex;size:64;not null" json:"uuid"`

	// Reputation.
	Score int `gorm:"default:0" json:"score"`

	// Denormalized badge tallies to make rendering cheap.
	BronzeBadges int `gorm:"default:0" json:"bronze_badges"`
	SilverBadges int `gorm:"default:0" json:"silver_badges"`
	GoldBadges   int `gorm:"default:0" json:"gold_badges"`

	// Number of unread notes, kept in sync by the note dispatcher.
	NewMessages int `gorm:"default:0" json:"new_messages"`

	LastVisited time.Time `json:"last_visited"`
	AboutMe     string    `gorm:"type:text" json:"about_me"`
	AboutMeHTML string    `gorm:"type:text" json:"about_me_html"`
	Location    string    `gorm:"size:250" json:"location"`
	Website     string    `gorm:"size:250" json:"website"`
	MyTags      string    `gorm:"size:250" json:"my_tags"`
}

func (p *Profile) IsModerator() bool {
	return p.Type == UserModerator
}

func (p *Profile) IsAdmin() bool {
	return p.Type == UserAdmin
}

func (p *Profile) CanModerate() bool {
	return p.IsModerator() || p.IsAdmin()
}

func (p *Profile) Suspended() bool {
	return p.Status == UserSuspended
}
