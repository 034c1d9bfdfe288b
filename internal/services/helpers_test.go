package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alahijani/biostar-central/internal/db"
	"github.com/alahijani/biostar-central/internal/models"
)

// newTestEngine builds an engine over a fresh in-memory sqlite database.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	engine, err := New(Config{DB: gdb})
	require.NoError(t, err)
	return engine
}

func newUser(t *testing.T, e *Engine, name string) *models.User {
	t.Helper()
	user := &models.User{
		Username: name,
		Email:    fmt.Sprintf("%s@example.org", name),
	}
	require.NoError(t, e.CreateUser(user))
	return user
}

func newModerator(t *testing.T, e *Engine, name string) *models.User {
	t.Helper()
	user := newUser(t, e, name)
	require.NoError(t, e.db.Model(&models.Profile{}).
		Where("user_id = ?", user.ID).
		UpdateColumn("type", models.UserModerator).Error)
	user.Profile.Type = models.UserModerator
	return user
}

func newQuestion(t *testing.T, e *Engine, author *models.User, title, content, tags string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID: author.ID,
		Type:     models.PostQuestion,
		Title:    title,
		Content:  content,
		TagVal:   tags,
	}
	require.NoError(t, e.CreatePost(post))
	return post
}

func newAnswer(t *testing.T, e *Engine, author *models.User, root *models.Post, content string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID: author.ID,
		Type:     models.PostAnswer,
		RootID:   root.ID,
		ParentID: root.ID,
		Content:  content,
	}
	require.NoError(t, e.CreatePost(post))
	return post
}

func newComment(t *testing.T, e *Engine, author *models.User, root, parent *models.Post, content string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID: author.ID,
		Type:     models.PostComment,
		RootID:   root.ID,
		ParentID: parent.ID,
		Content:  content,
	}
	require.NoError(t, e.CreatePost(post))
	return post
}

func reloadPost(t *testing.T, e *Engine, id uint) *models.Post {
	t.Helper()
	post, err := e.GetPost(id)
	require.NoError(t, err)
	return post
}

func reloadProfile(t *testing.T, e *Engine, userID uint) *models.Profile {
	t.Helper()
	var profile models.Profile
	require.NoError(t, e.db.Where("user_id = ?", userID).First(&profile).Error)
	return &profile
}

func notesFor(t *testing.T, e *Engine, userID uint) []models.Note {
	t.Helper()
	var notes []models.Note
	require.NoError(t, e.db.Where("target_id = ?", userID).Order("id").Find(&notes).Error)
	return notes
}

func countVotes(t *testing.T, e *Engine, postID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Vote{}).Where("post_id = ?", postID).Count(&n).Error)
	return n
}

func tagByName(t *testing.T, e *Engine, name string) *models.Tag {
	t.Helper()
	var tag models.Tag
	require.NoError(t, e.db.Where("name = ?", name).First(&tag).Error)
	return &tag
}

// fixedClock returns a clock that advances by step on every call, keeping
// ranks deterministic.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}
