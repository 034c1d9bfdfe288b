package services

import (
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// The scoring engine applies and reverses the effect of votes and awards on
// post score/rank, user reputation and badge tallies. Direction +1 applies
// the effect, -1 undoes it; the two are exact inverses.
//
// All counter updates are expressed as increments relative to stored state
// (never blind overwrites) so concurrent actors cannot lose updates.

// postScoreChange shifts a post's score by amount and its rank by rankGain,
// then propagates to the root's full_score and (upward only) rank.
func (e *Engine) postScoreChange(tx *gorm.DB, post *models.Post, amount int, rankGain float64) error {
	cols := map[string]interface{}{
		"score": gorm.Expr("score + ?", amount),
	}
	if rankGain != 0 {
		cols["rank"] = gorm.Expr("rank + ?", rankGain)
	}
	if post.IsRoot() {
		// A root's full score tracks its own score directly.
		cols["full_score"] = gorm.Expr("full_score + ?", amount)
	}
	if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).UpdateColumns(cols).Error; err != nil {
		return err
	}
	// Refresh so callers and the root comparison see the new values.
	if err := tx.First(post, post.ID).Error; err != nil {
		return err
	}

	if post.IsRoot() {
		return nil
	}

	// A different root also needs updating.
	if err := tx.Model(&models.Post{}).Where("id = ?", post.RootID).
		UpdateColumn("full_score", gorm.Expr("full_score + ?", amount)).Error; err != nil {
		return err
	}
	if rankGain > 0 {
		// The root rank only ever rises to meet a descendant's rank.
		if err := tx.Model(&models.Post{}).
			Where("id = ? AND rank < ?", post.RootID, post.Rank).
			UpdateColumn("rank", post.Rank).Error; err != nil {
			return err
		}
	}
	return nil
}

// userScoreChange shifts a user's reputation.
func (e *Engine) userScoreChange(tx *gorm.DB, userID uint, amount int) error {
	return tx.Model(&models.Profile{}).Where("user_id = ?", userID).
		UpdateColumn("score", gorm.Expr("score + ?", amount)).Error
}

// applyVote applies (dir=+1) or reverses (dir=-1) the effect of a vote.
func (e *Engine) applyVote(tx *gorm.DB, vote *models.Vote, dir int) error {
	post := &models.Post{}
	if err := tx.First(post, vote.PostID).Error; err != nil {
		return err
	}

	switch vote.Type {
	case models.VoteUp:
		if err := e.postScoreChange(tx, post, dir, float64(dir)*e.voteRankGain); err != nil {
			return err
		}
		return e.userScoreChange(tx, post.AuthorID, dir)

	case models.VoteDown:
		// Down-votes move the score only: no rank change, no reputation.
		return e.postScoreChange(tx, post, -dir, 0)

	case models.VoteAccept:
		accepted := dir == 1
		return tx.Model(&models.Post{}).
			Where("id IN ?", []uint{post.ID, post.RootID}).
			UpdateColumn("accepted", accepted).Error

	case models.VoteBookmark:
		// Bookmarks carry no scoring effect.
		return nil
	}
	return nil
}

// applyAward applies (dir=+1) or reverses (dir=-1) a badge award: the
// user's tier tally and the badge's grant count move together.
func (e *Engine) applyAward(tx *gorm.DB, award *models.Award, dir int) error {
	badge := &models.Badge{}
	if err := tx.First(badge, award.BadgeID).Error; err != nil {
		return err
	}

	var column string
	switch badge.Type {
	case models.BadgeBronze:
		column = "bronze_badges"
	case models.BadgeSilver:
		column = "silver_badges"
	case models.BadgeGold:
		column = "gold_badges"
	}
	if err := tx.Model(&models.Profile{}).Where("user_id = ?", award.UserID).
		UpdateColumn(column, gorm.Expr(column+" + ?", dir)).Error; err != nil {
		return err
	}
	return tx.Model(&models.Badge{}).Where("id = ?", badge.ID).
		UpdateColumn("count", gorm.Expr("count + ?", dir)).Error
}

// applyPost adjusts the parent's denormalized answer/comment counters when
// a post enters (dir=+1) or leaves (dir=-1) the store.
func (e *Engine) applyPost(tx *gorm.DB, post *models.Post, dir int) error {
	if post.TopLevel() {
		return nil
	}
	var column string
	switch post.Type {
	case models.PostAnswer:
		column = "answer_count"
	case models.PostComment:
		column = "comment_count"
	default:
		return nil
	}
	return tx.Model(&models.Post{}).Where("id = ?", post.ParentID).
		UpdateColumn(column, gorm.Expr(column+" + ?", dir)).Error
}
