package services

import (
	"github.com/VictoriaMetrics/metrics"
)

// Operation counters, exposed through the default metrics set.
var (
	postsCreatedTotal      = metrics.NewCounter(`biostar_posts_created_total`)
	postsEditedTotal       = metrics.NewCounter(`biostar_posts_edited_total`)
	votesAppliedTotal      = metrics.NewCounter(`biostar_votes_applied_total`)
	votesRemovedTotal      = metrics.NewCounter(`biostar_votes_removed_total`)
	awardsGrantedTotal     = metrics.NewCounter(`biostar_awards_granted_total`)
	notesSentTotal         = metrics.NewCounter(`biostar_notes_sent_total`)
	revisionsWrittenTotal  = metrics.NewCounter(`biostar_revisions_written_total`)
	moderationActionsTotal = metrics.NewCounter(`biostar_moderation_actions_total`)
)
