package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// Result reports the outcome of a moderation action. Authorization
// failures are ordinary outcomes with a human readable reason, not errors;
// the calling layer decides how to surface them.
type Result struct {
	OK      bool
	Message string
}

func refused(format string, args ...interface{}) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

// ModeratePost drives the post status machine (open, closed, deleted).
//
// Reopening needs moderator rights. When an author deletes their own post
// and nothing else hangs off it, the post is removed outright together with
// its votes, revisions and tag associations, leaving no tombstone and
// sending no note. Every other transition flips the status and notifies
// the author (the actor keeps a read copy when the two differ).
func (e *Engine) ModeratePost(actor *models.User, postID uint, status models.PostStatus) (Result, error) {
	var res Result

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}

		if status == models.PostOpen && !actor.Profile.CanModerate() {
			res = refused("user %d is not a moderator", actor.ID)
			return nil
		}
		if !e.auth.AuthorizePostEdit(actor, &post, false) {
			res = refused("user %d may not moderate post %d", actor.ID, post.ID)
			return nil
		}

		var children int64
		if err := tx.Model(&models.Post{}).
			Where("parent_id = ? AND id <> ?", post.ID, post.ID).
			Count(&children).Error; err != nil {
			return err
		}

		// Authors may remove their own post without a trace as long as
		// nothing else depends on it.
		if status == models.PostDeleted && children == 0 && actor.ID == post.AuthorID {
			var votes []models.Vote
			if err := tx.Where("post_id = ?", post.ID).Find(&votes).Error; err != nil {
				return err
			}
			for i := range votes {
				if err := e.deleteVote(tx, &votes[i]); err != nil {
					return err
				}
			}
			if err := e.clearTags(tx, &post); err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostRevision{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Post{}, post.ID).Error; err != nil {
				return err
			}
			if err := e.applyPost(tx, &post, -1); err != nil {
				return err
			}
			res = Result{OK: true, Message: fmt.Sprintf("%s removed", post.Type)}
			return nil
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("status", status).Error; err != nil {
			return err
		}
		post.Status = status

		root := &post
		if !post.IsRoot() {
			root = &models.Post{}
			if err := tx.First(root, post.RootID).Error; err != nil {
				return err
			}
		}
		_, err := e.sendNote(tx, NoteRequest{
			SenderID: actor.ID,
			TargetID: post.AuthorID,
			Content:  postModeratorActionText(actor, &post),
			Type:     models.NoteModerator,
			Unread:   true,
			URL:      postURL(&post, root),
			Both:     true,
		})
		if err != nil {
			return err
		}
		res = Result{OK: true, Message: fmt.Sprintf("post status set to %s", status)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if res.OK {
		moderationActionsTotal.Inc()
		e.log.Info("post moderated",
			zap.Uint("actor", actor.ID), zap.Uint("post", postID),
			zap.String("status", status.String()))
	} else {
		e.log.Warn("post moderation refused",
			zap.Uint("actor", actor.ID), zap.Uint("post", postID),
			zap.String("reason", res.Message))
	}
	return res, nil
}

// ModerateUser flips a user's account status (active, suspended) and tells
// them about it.
func (e *Engine) ModerateUser(actor *models.User, target *models.User, status models.UserStatus) (Result, error) {
	if !actor.Profile.CanModerate() {
		res := refused("user %d is not a moderator", actor.ID)
		e.log.Warn("user moderation refused",
			zap.Uint("actor", actor.ID), zap.Uint("target", target.ID),
			zap.String("reason", res.Message))
		return res, nil
	}
	if !e.auth.AuthorizeUserEdit(actor, target, false) {
		res := refused("user %d is not authorized to moderate user %d", actor.ID, target.ID)
		e.log.Warn("user moderation refused",
			zap.Uint("actor", actor.ID), zap.Uint("target", target.ID),
			zap.String("reason", res.Message))
		return res, nil
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", target.ID).
			UpdateColumn("status", status).Error; err != nil {
			return err
		}
		target.Profile.Status = status

		_, err := e.sendNote(tx, NoteRequest{
			SenderID: actor.ID,
			TargetID: target.ID,
			Content:  userModeratorActionText(actor, status),
			Type:     models.NoteModerator,
			Unread:   true,
			URL:      fmt.Sprintf("/user/show/%d/", target.ID),
			Both:     true,
		})
		return err
	})
	if err != nil {
		return Result{}, err
	}

	moderationActionsTotal.Inc()
	e.log.Info("user moderated",
		zap.Uint("actor", actor.ID), zap.Uint("target", target.ID),
		zap.String("status", status.String()))
	return Result{OK: true, Message: fmt.Sprintf("user status set to %s", status)}, nil
}
