package models

// Tag usage counts are derived from the post_tags association rows and are
// maintained exclusively by the tag propagation in internal/services.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Count int    `gorm:"default:0" json:"count"`
}

// PostTag is the explicit post-to-tag association. Keeping the join rows as
// a first-class model lets tag count propagation observe every add, remove
// and clear.
type PostTag struct {
	PostID uint `gorm:"primaryKey" json:"post_id"`
	TagID  uint `gorm:"primaryKey" json:"tag_id"`
}
