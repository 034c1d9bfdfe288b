package models

import (
	"fmt"
	"strings"
	"time"
)

type PostType int

const (
	PostQuestion PostType = iota
	PostAnswer
	PostComment
	PostBlog
	PostPage
)

func (t PostType) String() string {
	switch t {
	case PostQuestion:
		return "question"
	case PostAnswer:
		return "answer"
	case PostComment:
		return "comment"
	case PostBlog:
		return "blog"
	case PostPage:
		return "page"
	default:
		return "post"
	}
}

// Valid reports whether t is a member of the closed post type set.
func (t PostType) Valid() bool {
	return t >= PostQuestion && t <= PostPage
}

// TopLevel post types are their own root and parent.
func (t PostType) TopLevel() bool {
	return t == PostQuestion || t == PostBlog || t == PostPage
}

// ContentOnly post types carry no title or tags of their own.
func (t PostType) ContentOnly() bool {
	return t == PostAnswer || t == PostComment
}

type PostStatus int

const (
	PostOpen PostStatus = iota
	PostClosed
	PostDeleted
)

func (s PostStatus) String() string {
	switch s {
	case PostClosed:
		return "closed"
	case PostDeleted:
		return "deleted"
	default:
		return "open"
	}
}

// Post is a unit of content generated by a user.
//
// The score, rank, full_score and the *Count fields are materialized views:
// they change only through the propagation layer in internal/services, never
// through direct writes.
type Post struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	AuthorID uint `gorm:"not null;index" json:"author_id"`
	Author   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`

	// The user that last edited the post. Defaults to the author.
	EditorID uint `gorm:"index" json:"editor_id"`
	Editor   User `gorm:"foreignKey:EditorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"editor"`

	Content string `gorm:"type:text;not null" json:"content"` // underlying markdown
	HTML    string `gorm:"type:text" json:"html"`             // sanitized HTML for display
	Title   string `gorm:"size:200" json:"title"`
	Slug    string `gorm:"size:200;index" json:"slug"`

	// TagVal is the canonical form of the post's tags; the post_tags join
	// rows are derived from it and used only for filtering.
	TagVal string `gorm:"size:200" json:"tag_val"`

	Type   PostType   `gorm:"not null;index" json:"type"`
	Status PostStatus `gorm:"default:0;index" json:"status"`

	Score     int     `gorm:"default:0;index" json:"score"`
	FullScore int     `gorm:"default:0;index" json:"full_score"` // root-aggregated score
	Rank      float64 `gorm:"default:0;index" json:"rank"`       // time and vote weighted ordering
	Views     int     `gorm:"default:0;index" json:"views"`

	CommentCount  int  `gorm:"default:0" json:"comment_count"`
	AnswerCount   int  `gorm:"default:0" json:"answer_count"`
	RevisionCount int  `gorm:"default:0" json:"revision_count"`
	Accepted      bool `gorm:"default:false" json:"accepted"`

	// External link, used only by blog posts.
	URL string `gorm:"size:500" json:"url"`

	// RootID points at the top-level ancestor, ParentID at the immediate
	// parent. Top-level posts reference themselves; root chains always
	// collapse to one hop.
	RootID   uint `gorm:"index" json:"root_id"`
	ParentID uint `gorm:"index" json:"parent_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) TopLevel() bool {
	return p.Type.TopLevel()
}

// IsRoot reports whether the post is its own root.
func (p *Post) IsRoot() bool {
	return p.ID != 0 && p.ID == p.RootID
}

func (p *Post) Open() bool    { return p.Status == PostOpen }
func (p *Post) Closed() bool  { return p.Status == PostClosed }
func (p *Post) Deleted() bool { return p.Status == PostDeleted }

// DisplayTitle returns the title with a status qualifier.
func (p *Post) DisplayTitle() string {
	switch {
	case p.Deleted():
		return fmt.Sprintf("%s [deleted]", p.Title)
	case p.Closed():
		return fmt.Sprintf("%s [closed]", p.Title)
	default:
		return p.Title
	}
}

// Label returns the secondary status of an open post.
func (p *Post) Label() string {
	switch {
	case p.Accepted:
		return "accepted"
	case p.AnswerCount > 0:
		return "answered"
	default:
		return "unanswered"
	}
}

// TagNames splits the canonical tag string into individual tag names.
func (p *Post) TagNames() []string {
	return strings.Fields(p.TagVal)
}

// Combine returns the compact view of the post used as the diff basis for
// revisions. Content-only types reduce to their content alone.
func (p *Post) Combine() string {
	if p.Type.ContentOnly() {
		return p.Content
	}
	return fmt.Sprintf("TITLE:%s\n%s\nTAGS:%s", p.Title, p.Content, p.TagVal)
}
