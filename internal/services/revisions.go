package services

import (
	"errors"

	"github.com/pmezard/go-difflib/difflib"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// createRevision versions the post if its combined form changed since the
// most recent revision. The first revision of a post diffs against the
// empty string, so a content-bearing creation writes the baseline and
// leaves RevisionCount at one. No-op saves are skipped silently.
func (e *Engine) createRevision(tx *gorm.DB, post *models.Post) error {
	combined := post.Combine()

	prev := ""
	var last models.PostRevision
	err := tx.Where("post_id = ?", post.ID).Order("date DESC, id DESC").First(&last).Error
	switch {
	case err == nil:
		prev = last.Content
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first revision
	default:
		return err
	}

	if combined == prev {
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:       difflib.SplitLines(prev),
		B:       difflib.SplitLines(combined),
		Context: 3,
	})
	if err != nil {
		return err
	}

	rev := models.PostRevision{
		PostID:   post.ID,
		AuthorID: post.EditorID,
		Diff:     diff,
		Content:  combined,
		Date:     post.UpdatedAt,
	}
	if err := tx.Create(&rev).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("revision_count", gorm.Expr("revision_count + 1")).Error; err != nil {
		return err
	}
	post.RevisionCount++

	revisionsWrittenTotal.Inc()
	return nil
}

// Revisions returns a post's history, newest first.
func (e *Engine) Revisions(postID uint) ([]models.PostRevision, error) {
	var revs []models.PostRevision
	err := e.db.Where("post_id = ?", postID).Order("date DESC, id DESC").Find(&revs).Error
	return revs, err
}

// RenderRevision produces display HTML for a revision snapshot. Revision
// HTML is not cached in the store; history is viewed rarely.
func (e *Engine) RenderRevision(rev *models.PostRevision) string {
	return e.markup.Render(rev.Content)
}
