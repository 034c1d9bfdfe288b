package services

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// CreatePost persists a new post and fires its derived updates in order:
// parent counters, tag counts, creation notifications, the baseline
// revision, and (after commit) search indexing. Each fires exactly once.
func (e *Engine) CreatePost(post *models.Post) error {
	if err := e.verifyPost(post); err != nil {
		return err
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := e.preparePost(tx, post); err != nil {
			return err
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if post.TopLevel() {
			// Top-level posts are their own root and parent; the id only
			// exists after the insert.
			post.RootID, post.ParentID = post.ID, post.ID
			if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
				UpdateColumns(map[string]interface{}{
					"root_id":   post.ID,
					"parent_id": post.ID,
				}).Error; err != nil {
				return err
			}
		}

		if err := e.applyPost(tx, post, +1); err != nil {
			return err
		}
		if err := e.setTags(tx, post); err != nil {
			return err
		}
		if post.Content != "" {
			if err := e.postCreateNotification(tx, post); err != nil {
				return err
			}
			// Comments are never versioned; only their creation is notable.
			if post.Type != models.PostComment {
				if err := e.createRevision(tx, post); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	postsCreatedTotal.Inc()
	e.log.Info("post created",
		zap.Uint("post", post.ID), zap.Uint("author", post.AuthorID),
		zap.String("type", post.Type.String()))
	e.indexPost(post, true)
	return nil
}

// ImportPost inserts a post during bulk import. Imported entities are
// assumed pre-applied: no counters move, no notifications or revisions are
// generated. Tag associations are still recorded, and since freshly created
// tags start at count zero the usage counts come out right.
func (e *Engine) ImportPost(post *models.Post) error {
	if err := e.verifyPost(post); err != nil {
		return err
	}
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := e.preparePost(tx, post); err != nil {
			return err
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if post.TopLevel() {
			post.RootID, post.ParentID = post.ID, post.ID
			if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
				UpdateColumns(map[string]interface{}{
					"root_id":   post.ID,
					"parent_id": post.ID,
				}).Error; err != nil {
				return err
			}
		}
		return e.setTags(tx, post)
	})
}

// UpdatePost saves an edit by editor: re-renders the content, re-derives
// tags, and versions the change when the combined form actually moved.
func (e *Engine) UpdatePost(editor *models.User, post *models.Post) error {
	if !e.auth.AuthorizePostEdit(editor, post, false) {
		return fmt.Errorf("user %d may not edit post %d: %w", editor.ID, post.ID, ErrNotAuthorized)
	}

	post.EditorID = editor.ID
	post.UpdatedAt = e.clock()
	post.HTML = e.markup.Render(strings.TrimSpace(post.Content))
	if post.Title != "" {
		post.Slug = slug.Make(post.Title)
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		// Only content fields are written here; score, rank and the
		// counters have no path around the propagation layer.
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"content":    post.Content,
				"html":       post.HTML,
				"title":      post.Title,
				"slug":       post.Slug,
				"tag_val":    post.TagVal,
				"url":        post.URL,
				"editor_id":  post.EditorID,
				"updated_at": post.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		if err := e.setTags(tx, post); err != nil {
			return err
		}
		if post.Type != models.PostComment {
			if err := e.createRevision(tx, post); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	postsEditedTotal.Inc()
	e.indexPost(post, false)
	return nil
}

// verifyPost holds the construction-time invariants. Violations indicate a
// programming error in the caller and reject the post outright.
func (e *Engine) verifyPost(post *models.Post) error {
	if !post.Type.Valid() {
		return fmt.Errorf("post type %d: %w", post.Type, ErrInvalidPostType)
	}
	if post.AuthorID == 0 {
		return fmt.Errorf("services: post requires an author")
	}
	if !post.TopLevel() && (post.RootID == 0 || post.ParentID == 0) {
		return ErrOrphanPost
	}

	if post.EditorID == 0 {
		post.EditorID = post.AuthorID
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = e.clock()
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	// Rank starts as the creation timestamp; votes and views move it.
	if post.Rank == 0 {
		post.Rank = float64(post.CreatedAt.Unix())
	}
	post.HTML = e.markup.Render(strings.TrimSpace(post.Content))
	return nil
}

// preparePost resolves the thread invariants that need the store: the root
// must be a one-hop top-level root and the parent must live in that thread.
// Untitled replies inherit a title derived from the parent.
func (e *Engine) preparePost(tx *gorm.DB, post *models.Post) error {
	if !post.TopLevel() {
		var root models.Post
		if err := tx.First(&root, post.RootID).Error; err != nil {
			return fmt.Errorf("services: load root %d: %w", post.RootID, err)
		}
		if !root.IsRoot() || !root.TopLevel() {
			return fmt.Errorf("post %d root %d is not a top-level root: %w",
				post.ID, root.ID, ErrOrphanPost)
		}
		var parent models.Post
		if err := tx.First(&parent, post.ParentID).Error; err != nil {
			return fmt.Errorf("services: load parent %d: %w", post.ParentID, err)
		}
		if parent.ID != root.ID && parent.RootID != root.ID {
			return fmt.Errorf("post %d parent %d outside thread %d: %w",
				post.ID, parent.ID, root.ID, ErrOrphanPost)
		}
		if post.Title == "" {
			post.Title = fmt.Sprintf("%s: %s", strings.ToUpper(post.Type.String()[:1]), parent.Title)
		}
	}
	if post.Title != "" {
		post.Slug = slug.Make(post.Title)
	}
	return nil
}
