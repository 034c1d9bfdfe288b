package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// Tag usage counts are materialized: every association add increments the
// tag, every remove decrements it, and clearing a post captures the set
// before the rows disappear. This is the only path that writes Tag.Count.

// setTags re-derives the post's tag associations from its canonical tag
// string. Content-only post types carry no tags.
func (e *Engine) setTags(tx *gorm.DB, post *models.Post) error {
	if post.Type.ContentOnly() {
		return nil
	}
	if err := e.clearTags(tx, post); err != nil {
		return err
	}
	for _, name := range post.TagNames() {
		tag, err := e.getOrCreateTag(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Create(&models.PostTag{PostID: post.ID, TagID: tag.ID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Tag{}).Where("id = ?", tag.ID).
			UpdateColumn("count", gorm.Expr("count + 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

// clearTags removes all associations of the post, decrementing each tag.
// The tag ids are collected first, while the join rows still exist.
func (e *Engine) clearTags(tx *gorm.DB, post *models.Post) error {
	var tagIDs []uint
	if err := tx.Model(&models.PostTag{}).Where("post_id = ?", post.ID).
		Pluck("tag_id", &tagIDs).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
		return err
	}
	return tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).
		UpdateColumn("count", gorm.Expr("count - 1")).Error
}

// getOrCreateTag returns the tag by name, creating it on first use. A newly
// created tag always starts at count zero, whatever the caller supplied,
// so bulk imports cannot double count.
func (e *Engine) getOrCreateTag(tx *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	tag = models.Tag{Name: name, Count: 0}
	if err := tx.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag registers a tag row outside any post association, count forced
// to zero.
func (e *Engine) CreateTag(name string) (*models.Tag, error) {
	var out *models.Tag
	err := e.db.Transaction(func(tx *gorm.DB) error {
		tag, err := e.getOrCreateTag(tx, name)
		out = tag
		return err
	})
	return out, err
}
