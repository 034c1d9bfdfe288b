package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/markup"
	"github.com/alahijani/biostar-central/internal/models"
)

// CreateUser persists a user together with its profile; the two always
// exist as a pair. The profile gets a fresh opaque id and a LastVisited far
// in the past so that the new-post counters start from a clean slate.
func (e *Engine) CreateUser(user *models.User) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		display := strings.TrimSpace(markup.StripTags(user.Username))
		if display == "" {
			display = "Biostar User"
		}
		profile := models.Profile{
			UserID:      user.ID,
			DisplayName: display,
			UUID:        uuid.NewString(),
			LastVisited: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		profile.AboutMeHTML = e.markup.Render(profile.AboutMe)
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
}

// UpdateProfile saves profile edits, regenerating the rendered about-me.
func (e *Engine) UpdateProfile(profile *models.Profile) error {
	profile.AboutMeHTML = e.markup.Render(profile.AboutMe)
	return e.db.Save(profile).Error
}

// DeleteUser removes a user and the owned profile.
func (e *Engine) DeleteUser(userID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}

// Visit stamps the profile's last visited time.
func (e *Engine) Visit(userID uint) error {
	return e.db.Model(&models.Profile{}).Where("user_id = ?", userID).
		UpdateColumn("last_visited", e.clock()).Error
}
