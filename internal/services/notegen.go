package services

import (
	"fmt"

	"github.com/alahijani/biostar-central/internal/models"
)

// Note text generation. Content goes through the markup sanitizer on
// dispatch, so plain markdown is fine here.

func postActionText(author *models.User, post *models.Post) string {
	return fmt.Sprintf("%s wrote a new %s: %s", author.Username, post.Type, post.DisplayTitle())
}

func postModeratorActionText(actor *models.User, post *models.Post) string {
	return fmt.Sprintf("moderator %s set the status of your %s to *%s*", actor.Username, post.Type, post.Status)
}

func userModeratorActionText(actor *models.User, status models.UserStatus) string {
	return fmt.Sprintf("moderator %s set your account status to *%s*", actor.Username, status)
}
