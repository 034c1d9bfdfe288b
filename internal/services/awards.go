package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/models"
)

// GrantAward gives a badge to a user and applies the effect: the matching
// tier tally on the profile and the badge's grant count both move by one.
// Unique badges may be earned only once; a repeat grant fails with
// ErrAlreadyAwarded and changes nothing.
func (e *Engine) GrantAward(badgeID, userID uint) (*models.Award, error) {
	var out *models.Award

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var badge models.Badge
		if err := tx.First(&badge, badgeID).Error; err != nil {
			return err
		}
		if badge.Unique {
			var held int64
			if err := tx.Model(&models.Award{}).
				Where("badge_id = ? AND user_id = ?", badgeID, userID).
				Count(&held).Error; err != nil {
				return err
			}
			if held > 0 {
				return ErrAlreadyAwarded
			}
		}

		award := &models.Award{
			BadgeID: badgeID,
			UserID:  userID,
			Date:    e.clock(),
		}
		if err := tx.Create(award).Error; err != nil {
			return err
		}
		if err := e.applyAward(tx, award, +1); err != nil {
			return err
		}
		out = award
		return nil
	})
	if err != nil {
		return nil, err
	}

	awardsGrantedTotal.Inc()
	e.log.Info("badge awarded",
		zap.Uint("badge", badgeID), zap.Uint("user", userID))
	return out, nil
}

// RevokeAward deletes an award and reverses its effect exactly.
func (e *Engine) RevokeAward(awardID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var award models.Award
		if err := tx.First(&award, awardID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Award{}, award.ID).Error; err != nil {
			return err
		}
		return e.applyAward(tx, &award, -1)
	})
}
