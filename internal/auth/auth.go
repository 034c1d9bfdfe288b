// Package auth decides whether an actor may mutate a post or another user.
// The engine consults it before every moderation or edit; it never mutates
// anything itself.
package auth

import (
	"github.com/alahijani/biostar-central/internal/models"
)

// Authorizer gates edit and moderation mutations. Actors are expected to
// carry a loaded profile. The strict flag narrows the check to ownership
// plus admin rights, dropping the moderator allowance.
type Authorizer interface {
	AuthorizePostEdit(actor *models.User, post *models.Post, strict bool) bool
	AuthorizeUserEdit(actor *models.User, target *models.User, strict bool) bool
}

// Rules is the default policy.
type Rules struct{}

func NewRules() Rules { return Rules{} }

func (Rules) AuthorizePostEdit(actor *models.User, post *models.Post, strict bool) bool {
	if actor == nil || post == nil {
		return false
	}
	prof := &actor.Profile
	if prof.Suspended() {
		return false
	}
	if prof.IsAdmin() {
		return true
	}
	if actor.ID == post.AuthorID {
		return true
	}
	if strict {
		return false
	}
	return prof.IsModerator()
}

func (Rules) AuthorizeUserEdit(actor *models.User, target *models.User, strict bool) bool {
	if actor == nil || target == nil {
		return false
	}
	prof := &actor.Profile
	if prof.Suspended() {
		return false
	}
	if actor.ID == target.ID {
		return true
	}
	if prof.IsAdmin() {
		// Admins may not be moderated by anyone but themselves.
		return !target.Profile.IsAdmin()
	}
	if strict {
		return false
	}
	// Moderators may act on regular users only.
	return prof.IsModerator() && !target.Profile.CanModerate()
}
