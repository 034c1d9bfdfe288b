package models

import (
	"time"
)

type NoteType int

const (
	NoteUser NoteType = iota
	NoteModerator
	NoteAdmin
)

func (t NoteType) String() string {
	switch t {
	case NoteModerator:
		return "moderator"
	case NoteAdmin:
		return "admin"
	default:
		return "user"
	}
}

// NoteURLMax is the longest URL persisted on a note; longer values are
// truncated by the dispatcher.
const NoteURLMax = 200

// Note is a simple notification that stays active until the target reads or
// deletes it. While unread it contributes to the target's NewMessages
// counter.
type Note struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	SenderID uint `gorm:"not null;index" json:"sender_id"`
	Sender   User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
	TargetID uint `gorm:"not null;index" json:"target_id"`
	Target   User `gorm:"foreignKey:TargetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"target"`

	Content string `gorm:"size:5000" json:"content"` // raw message
	HTML    string `gorm:"size:5000" json:"html"`    // sanitized content

	Type NoteType `gorm:"default:0" json:"type"`

	// No column default: the dispatcher always sets the read state
	// explicitly, and a default would overwrite a false on insert.
	Unread bool      `gorm:"index" json:"unread"`
	Date   time.Time `gorm:"not null;index" json:"date"`
	URL    string    `gorm:"size:200" json:"url"`
}

func (n *Note) StatusLabel() string {
	if n.Unread {
		return "unread"
	}
	return "old"
}
