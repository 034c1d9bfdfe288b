package models

import (
	"time"
)

type VoteType int

const (
	VoteUp VoteType = iota
	VoteDown
	VoteAccept
	VoteBookmark
)

func (t VoteType) String() string {
	switch t {
	case VoteUp:
		return "up vote"
	case VoteDown:
		return "down vote"
	case VoteAccept:
		return "accept vote"
	case VoteBookmark:
		return "bookmark"
	default:
		return "vote"
	}
}

// OpposingVotes maps a vote type to the type it displaces: casting one side
// removes any existing vote of the other side by the same user.
var OpposingVotes = map[VoteType]VoteType{
	VoteUp:   VoteDown,
	VoteDown: VoteUp,
}

// Vote records a single user action on a post. The composite unique index
// makes concurrent duplicate submissions (button spamming) fail structurally
// instead of relying on the defensive read in InsertVote alone.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_votes_author_post_type" json:"author_id"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_votes_author_post_type" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	Type      VoteType  `gorm:"not null;index;uniqueIndex:idx_votes_author_post_type" json:"type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
