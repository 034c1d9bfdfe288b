// Package search defines the indexing collaborator. Indexing happens after
// a post transaction commits and is fire-and-forget: failures are logged by
// the caller, never propagated into the post transaction.
package search

import (
	"github.com/alahijani/biostar-central/internal/models"
)

// Indexer receives finalized posts for full-text indexing.
type Indexer interface {
	Update(post *models.Post, created bool) error
}

// Noop is the default indexer used when content indexing is disabled or no
// search backend is wired in.
type Noop struct{}

func (Noop) Update(*models.Post, bool) error { return nil }
