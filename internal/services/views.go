package services

import (
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
	"github.com/alahijani/biostar-central/internal/session"
)

// BumpPostViews counts a view once per user session and moves the post's
// rank by the configured bonus.
//
// This is the one deliberate bypass of the propagation layer: views and the
// view-driven rank boost are written as raw column updates for speed, and
// the counter is at-least-once by design, deduplicated only by the
// session's viewed set.
func (e *Engine) BumpPostViews(sess *session.Session, post *models.Post) error {
	if sess == nil || !sess.Authenticated {
		return nil
	}
	if !sess.MarkViewed(post.ID) {
		return nil // already counted for this session
	}

	err := e.db.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumns(map[string]interface{}{
			"views": gorm.Expr("views + 1"),
			"rank":  gorm.Expr("rank + ?", e.viewRankGain),
		}).Error
	if err != nil {
		return err
	}
	post.Views++
	post.Rank += e.viewRankGain
	return nil
}
