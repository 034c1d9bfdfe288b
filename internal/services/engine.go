// Package services implements the consistency engine of the forum: every
// mutation of posts, votes, awards, tags and notes goes through the Engine,
// which fires the derived updates (score, rank, reputation, counters,
// revisions, notifications) exactly once per state transition, in order,
// inside the same transaction as the triggering write.
package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/auth"
	"github.com/alahijani/biostar-central/internal/markup"
	"github.com/alahijani/biostar-central/internal/models"
	"github.com/alahijani/biostar-central/internal/search"
)

var (
	// ErrMissingDatabase is returned by New when no DB handle is supplied.
	ErrMissingDatabase = errors.New("services: database handle is required")

	// ErrOrphanPost marks a non-top-level post constructed without a root
	// or parent. This is a programming error, not user input, so it is
	// rejected instead of repaired.
	ErrOrphanPost = errors.New("services: non-top-level post must have root and parent")

	// ErrInvalidPostType marks a type outside the closed post type set.
	ErrInvalidPostType = errors.New("services: invalid post type")

	// ErrNotAuthorized is returned by edit operations when the authorization
	// collaborator rejects the actor.
	ErrNotAuthorized = errors.New("services: not authorized")

	// ErrAlreadyAwarded is returned when granting a unique badge twice.
	ErrAlreadyAwarded = errors.New("services: unique badge already awarded")
)

// Config carries the engine dependencies. Only DB is mandatory.
type Config struct {
	DB     *gorm.DB
	Clock  func() time.Time
	Logger *zap.Logger

	Markup markup.Renderer
	Auth   auth.Authorizer
	Search search.Indexer

	// VoteRankHours is the rank weight of one up-vote in hours; the rank
	// delta per up-vote is 3600 * VoteRankHours. Zero means unset and
	// selects the default of 1; a weight of exactly zero is not
	// expressible.
	VoteRankHours float64

	// ViewRankBonus is the rank delta per counted view. Zero means unset
	// and selects the default of 3600; a bonus of exactly zero is not
	// expressible.
	ViewRankBonus float64

	// ContentIndexing enables the post-commit search indexer callback.
	ContentIndexing bool
}

// Engine binds the entity store to the scoring, moderation, revision,
// notification and tag components.
type Engine struct {
	db     *gorm.DB
	clock  func() time.Time
	log    *zap.Logger
	markup markup.Renderer
	auth   auth.Authorizer
	search search.Indexer

	voteRankGain float64
	viewRankGain float64
	indexing     bool
}

func New(cfg Config) (*Engine, error) {
	if cfg.DB == nil {
		return nil, ErrMissingDatabase
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var renderer markup.Renderer = markup.NewGoldmark()
	if cfg.Markup != nil {
		renderer = cfg.Markup
	}
	var authorizer auth.Authorizer = auth.NewRules()
	if cfg.Auth != nil {
		authorizer = cfg.Auth
	}
	var indexer search.Indexer = search.Noop{}
	if cfg.Search != nil {
		indexer = cfg.Search
	}

	hours := cfg.VoteRankHours
	if hours == 0 {
		hours = 1
	}
	viewGain := cfg.ViewRankBonus
	if viewGain == 0 {
		viewGain = 3600
	}

	return &Engine{
		db:           cfg.DB,
		clock:        clock,
		log:          logger,
		markup:       renderer,
		auth:         authorizer,
		search:       indexer,
		voteRankGain: 3600 * hours,
		viewRankGain: viewGain,
		indexing:     cfg.ContentIndexing,
	}, nil
}

// DB exposes the underlying handle for read-only queries by callers.
func (e *Engine) DB() *gorm.DB { return e.db }

// GetUser loads a user with its profile.
func (e *Engine) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := e.db.Preload("Profile").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPost loads a post by id.
func (e *Engine) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := e.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// indexPost hands the finalized post to the search collaborator. Called
// after the owning transaction commits; failures are logged and dropped.
func (e *Engine) indexPost(post *models.Post, created bool) {
	if !e.indexing {
		return
	}
	if err := e.search.Update(post, created); err != nil {
		e.log.Warn("search index update failed",
			zap.Uint("post", post.ID), zap.Error(err))
	}
}
