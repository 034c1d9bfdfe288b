package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// NoteRequest describes one notification to dispatch.
type NoteRequest struct {
	SenderID uint
	TargetID uint
	Content  string
	Type     models.NoteType
	Unread   bool
	URL      string
	Date     time.Time

	// Both also leaves an always-read copy with the sender, so an actor
	// retains a record of an action they performed.
	Both bool
}

// SendNote creates a note for the target inside its own transaction.
func (e *Engine) SendNote(req NoteRequest) (*models.Note, error) {
	var out *models.Note
	err := e.db.Transaction(func(tx *gorm.DB) error {
		note, err := e.sendNote(tx, req)
		out = note
		return err
	})
	return out, err
}

// sendNote persists the note(s) and keeps the target's unread counter in
// sync: an unread note increments it at creation, and only reading or
// deleting the note moves it back.
func (e *Engine) sendNote(tx *gorm.DB, req NoteRequest) (*models.Note, error) {
	date := req.Date
	if date.IsZero() {
		date = e.clock()
	}
	url := req.URL
	if len(url) > models.NoteURLMax {
		url = url[:models.NoteURLMax]
	}

	note := models.Note{
		SenderID: req.SenderID,
		TargetID: req.TargetID,
		Content:  req.Content,
		HTML:     e.markup.Render(req.Content),
		Type:     req.Type,
		Unread:   req.Unread,
		Date:     date,
		URL:      url,
	}
	if err := tx.Create(&note).Error; err != nil {
		return nil, err
	}
	notesSentTotal.Inc()
	if note.Unread {
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", note.TargetID).
			UpdateColumn("new_messages", gorm.Expr("new_messages + 1")).Error; err != nil {
			return nil, err
		}
	}

	if req.Both && req.SenderID != req.TargetID {
		receipt := models.Note{
			SenderID: req.SenderID,
			TargetID: req.SenderID,
			Content:  req.Content,
			HTML:     note.HTML,
			Type:     req.Type,
			Unread:   false,
			Date:     date,
			URL:      url,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return nil, err
		}
		notesSentTotal.Inc()
	}
	return &note, nil
}

// postCreateNotification notifies everyone related to the thread that a
// post was created: the root author plus the author of every post under the
// root, deduplicated. The author's own note is born read.
func (e *Engine) postCreateNotification(tx *gorm.DB, post *models.Post) error {
	root := post
	if !post.IsRoot() {
		root = &models.Post{}
		if err := tx.First(root, post.RootID).Error; err != nil {
			return err
		}
	}

	targets := []uint{root.AuthorID}
	var authorIDs []uint
	if err := tx.Model(&models.Post{}).Distinct("author_id").
		Where("root_id = ?", root.ID).Pluck("author_id", &authorIDs).Error; err != nil {
		return err
	}
	seen := map[uint]bool{root.AuthorID: true}
	for _, id := range authorIDs {
		if !seen[id] {
			seen[id] = true
			targets = append(targets, id)
		}
	}

	var author models.User
	if err := tx.First(&author, post.AuthorID).Error; err != nil {
		return err
	}
	text := postActionText(&author, post)
	url := postURL(post, root)

	for _, target := range targets {
		_, err := e.sendNote(tx, NoteRequest{
			SenderID: post.AuthorID,
			TargetID: target,
			Content:  text,
			Type:     models.NoteUser,
			Unread:   target != post.AuthorID, // self-notifications are pre-read
			Date:     post.CreatedAt,
			URL:      url,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// MarkNoteRead flips an unread note and releases its unread counter hold.
func (e *Engine) MarkNoteRead(noteID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, noteID).Error; err != nil {
			return err
		}
		if !note.Unread {
			return nil
		}
		if err := tx.Model(&models.Note{}).Where("id = ?", note.ID).
			UpdateColumn("unread", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("user_id = ? AND new_messages > 0", note.TargetID).
			UpdateColumn("new_messages", gorm.Expr("new_messages - 1")).Error
	})
}

// MarkAllNotesRead clears a user's unread notes and counter together.
func (e *Engine) MarkAllNotesRead(userID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Note{}).
			Where("target_id = ? AND unread", userID).
			UpdateColumn("unread", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).Where("user_id = ?", userID).
			UpdateColumn("new_messages", 0).Error
	})
}

// DeleteNote removes a note; an unread one also releases the counter.
func (e *Engine) DeleteNote(noteID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&models.Note{}, note.ID).Error; err != nil {
			return err
		}
		if !note.Unread {
			return nil
		}
		return tx.Model(&models.Profile{}).
			Where("user_id = ? AND new_messages > 0", note.TargetID).
			UpdateColumn("new_messages", gorm.Expr("new_messages - 1")).Error
	})
}

// postURL is the canonical location of a post within its thread. External
// links (blog posts) win over the thread location.
func postURL(post, root *models.Post) string {
	if post.URL != "" {
		return post.URL
	}
	if post.TopLevel() {
		return fmt.Sprintf("/post/show/%d/%s/", root.ID, root.Slug)
	}
	return fmt.Sprintf("/post/show/%d/%s/#%d", root.ID, root.Slug, post.ID)
}
