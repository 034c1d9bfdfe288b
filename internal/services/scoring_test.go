package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alahijani/biostar-central/internal/models"
)

func TestUpVoteAndToggleRestoreState(t *testing.T) {
	e := newTestEngine(t)
	asker := newUser(t, e, "alice")
	answerer := newUser(t, e, "bob")
	voter := newUser(t, e, "carol")

	question := newQuestion(t, e, asker, "How do enzymes fold?", "details", "protein folding")
	answer := newAnswer(t, e, answerer, question, "They fold like this.")

	beforeScore := answer.Score
	beforeRank := answer.Rank
	beforeRep := reloadProfile(t, e, answerer.ID).Score

	_, msg, err := e.InsertVote(voter, answer.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, "up vote added", msg)

	answer = reloadPost(t, e, answer.ID)
	question = reloadPost(t, e, question.ID)
	assert.Equal(t, beforeScore+1, answer.Score)
	assert.InDelta(t, beforeRank+3600, answer.Rank, 1e-6)
	assert.Equal(t, beforeRep+1, reloadProfile(t, e, answerer.ID).Score)
	assert.Equal(t, 1, question.FullScore)
	assert.InDelta(t, answer.Rank, question.Rank, 1e-6, "root rank rises to the answer's rank")

	// Casting the same vote again toggles it off and undoes the effect.
	_, msg, err = e.InsertVote(voter, answer.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, "up vote removed", msg)

	answer = reloadPost(t, e, answer.ID)
	assert.Equal(t, beforeScore, answer.Score)
	assert.InDelta(t, beforeRank, answer.Rank, 1e-6)
	assert.Equal(t, beforeRep, reloadProfile(t, e, answerer.ID).Score)
	assert.Equal(t, 0, reloadPost(t, e, question.ID).FullScore)
	assert.EqualValues(t, 0, countVotes(t, e, answer.ID))
}

func TestDownVoteMovesScoreOnly(t *testing.T) {
	e := newTestEngine(t)
	asker := newUser(t, e, "alice")
	voter := newUser(t, e, "bob")

	question := newQuestion(t, e, asker, "Down vote me", "content", "")
	beforeRank := question.Rank

	_, _, err := e.InsertVote(voter, question.ID, models.VoteDown)
	require.NoError(t, err)

	question = reloadPost(t, e, question.ID)
	assert.Equal(t, -1, question.Score)
	assert.Equal(t, -1, question.FullScore)
	assert.InDelta(t, beforeRank, question.Rank, 1e-6, "down votes never move rank")
	assert.Equal(t, 0, reloadProfile(t, e, asker.ID).Score, "down votes never move reputation")
}

func TestOpposingVoteIsReplaced(t *testing.T) {
	e := newTestEngine(t)
	asker := newUser(t, e, "alice")
	answerer := newUser(t, e, "bob")
	voter := newUser(t, e, "carol")

	question := newQuestion(t, e, asker, "Flip flop", "content", "")
	answer := newAnswer(t, e, answerer, question, "answer text")

	_, _, err := e.InsertVote(voter, answer.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, reloadPost(t, e, answer.ID).Score)

	// Up-vote clears the down-vote first, then applies: net effect is the
	// reversal of the down plus the up.
	_, msg, err := e.InsertVote(voter, answer.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, "up vote added", msg)

	answer = reloadPost(t, e, answer.ID)
	assert.Equal(t, 1, answer.Score)
	assert.Equal(t, 1, reloadProfile(t, e, answerer.ID).Score)
	assert.EqualValues(t, 1, countVotes(t, e, answer.ID))
	assert.Equal(t, 1, reloadPost(t, e, question.ID).FullScore)
}

func TestAcceptVoteMarksAnswerAndRoot(t *testing.T) {
	e := newTestEngine(t)
	asker := newUser(t, e, "alice")
	answerer := newUser(t, e, "bob")

	question := newQuestion(t, e, asker, "Accept me", "content", "")
	answer := newAnswer(t, e, answerer, question, "the good answer")

	_, _, err := e.InsertVote(asker, answer.ID, models.VoteAccept)
	require.NoError(t, err)
	assert.True(t, reloadPost(t, e, answer.ID).Accepted)
	assert.True(t, reloadPost(t, e, question.ID).Accepted)

	// Toggling the accept off clears both flags.
	_, _, err = e.InsertVote(asker, answer.ID, models.VoteAccept)
	require.NoError(t, err)
	assert.False(t, reloadPost(t, e, answer.ID).Accepted)
	assert.False(t, reloadPost(t, e, question.ID).Accepted)
}

func TestBookmarkHasNoScoringEffect(t *testing.T) {
	e := newTestEngine(t)
	asker := newUser(t, e, "alice")
	voter := newUser(t, e, "bob")

	question := newQuestion(t, e, asker, "Bookmark me", "content", "")
	beforeRank := question.Rank

	_, _, err := e.InsertVote(voter, question.ID, models.VoteBookmark)
	require.NoError(t, err)

	question = reloadPost(t, e, question.ID)
	assert.Equal(t, 0, question.Score)
	assert.InDelta(t, beforeRank, question.Rank, 1e-6)
	assert.EqualValues(t, 1, countVotes(t, e, question.ID))
}

func TestRepeatedInsertCollapsesDuplicates(t *testing.T) {
	e := newTestEngine(t)
	asker := newUser(t, e, "alice")
	voter := newUser(t, e, "bob")

	question := newQuestion(t, e, asker, "Spam the button", "content", "")

	_, _, err := e.InsertVote(voter, question.ID, models.VoteUp)
	require.NoError(t, err)
	_, _, err = e.InsertVote(voter, question.ID, models.VoteUp)
	require.NoError(t, err)
	_, msg, err := e.InsertVote(voter, question.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, "up vote added", msg)

	// Odd number of casts leaves exactly one vote and one unit of score.
	assert.EqualValues(t, 1, countVotes(t, e, question.ID))
	assert.Equal(t, 1, reloadPost(t, e, question.ID).Score)
}

func TestVoteRankHoursConfigurable(t *testing.T) {
	base := newTestEngine(t)
	e, err := New(Config{DB: base.db, VoteRankHours: 2})
	require.NoError(t, err)

	asker := newUser(t, e, "alice")
	voter := newUser(t, e, "bob")
	question := newQuestion(t, e, asker, "Heavier votes", "content", "")
	beforeRank := question.Rank

	_, _, err = e.InsertVote(voter, question.ID, models.VoteUp)
	require.NoError(t, err)
	assert.InDelta(t, beforeRank+2*3600, reloadPost(t, e, question.ID).Rank, 1e-6)
}
