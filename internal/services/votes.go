package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// InsertVote applies a vote by actor on a post. Casting an existing vote
// type again removes it (toggle); casting a type with an opposing class
// removes the opposing vote first.
//
// Duplicate submissions racing past the read are collapsed defensively:
// every same-type vote found is removed in one action. The unique index on
// (author, post, type) rejects the duplicates the read cannot see.
func (e *Engine) InsertVote(actor *models.User, postID uint, voteType models.VoteType) (*models.Vote, string, error) {
	var (
		out *models.Vote
		msg string
	)

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Vote
		if err := tx.Where("author_id = ? AND post_id = ? AND type = ?",
			actor.ID, postID, voteType).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			for i := range existing {
				if err := e.deleteVote(tx, &existing[i]); err != nil {
					return err
				}
			}
			out = &existing[0]
			msg = fmt.Sprintf("%s removed", voteType)
			return nil
		}

		// Remove opposing votes before applying this one.
		if opposing, ok := models.OpposingVotes[voteType]; ok {
			var clashing []models.Vote
			if err := tx.Where("author_id = ? AND post_id = ? AND type = ?",
				actor.ID, postID, opposing).Find(&clashing).Error; err != nil {
				return err
			}
			for i := range clashing {
				if err := e.deleteVote(tx, &clashing[i]); err != nil {
					return err
				}
			}
		}

		vote := &models.Vote{
			AuthorID:  actor.ID,
			PostID:    postID,
			Type:      voteType,
			CreatedAt: e.clock(),
		}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		if err := e.applyVote(tx, vote, +1); err != nil {
			return err
		}
		out = vote
		msg = fmt.Sprintf("%s added", voteType)
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	if out.ID != 0 {
		votesAppliedTotal.Inc()
	}
	e.log.Info("vote",
		zap.Uint("user", actor.ID), zap.Uint("post", postID), zap.String("result", msg))
	return out, msg, nil
}

// DeleteVote removes a vote and reverses its effect.
func (e *Engine) DeleteVote(voteID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var vote models.Vote
		if err := tx.First(&vote, voteID).Error; err != nil {
			return err
		}
		return e.deleteVote(tx, &vote)
	})
}

// deleteVote is the single unapply path for votes: the row goes away and
// the scoring effect is reversed in the same transaction.
func (e *Engine) deleteVote(tx *gorm.DB, vote *models.Vote) error {
	if err := tx.Delete(&models.Vote{}, vote.ID).Error; err != nil {
		return err
	}
	if err := e.applyVote(tx, vote, -1); err != nil {
		return err
	}
	vote.ID = 0
	votesRemovedTotal.Inc()
	return nil
}
