package models

import (
	"time"
)

// PostRevision stores one entry of a post's edit history: a unified diff
// against the previous revision plus a full snapshot of the combined form.
// Rows are append-only; no-op saves never produce one.
type PostRevision struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"not null;index" json:"post_id"`
	Post     Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Diff     string    `gorm:"type:text" json:"diff"`
	Content  string    `gorm:"type:text" json:"content"`
	Date     time.Time `gorm:"not null;index" json:"date"`
}
