package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alahijani/biostar-central/internal/models"
)

func TestThreadFanOutNotifiesEveryParticipantOnce(t *testing.T) {
	e := newTestEngine(t)
	alice := newUser(t, e, "alice")
	bob := newUser(t, e, "bob")
	carol := newUser(t, e, "carol")

	question := newQuestion(t, e, alice, "Busy thread", "content", "")
	answer := newAnswer(t, e, bob, question, "bob's answer")
	newComment(t, e, bob, question, answer, "bob again")
	newComment(t, e, carol, question, answer, "carol joins")

	// carol's comment reaches alice, bob and carol herself, one note each.
	aliceNotes := notesFor(t, e, alice.ID)
	require.Len(t, aliceNotes, 4) // own question + answer + two comments
	assert.Contains(t, aliceNotes[3].Content, "carol")

	bobNotes := notesFor(t, e, bob.ID)
	require.Len(t, bobNotes, 3) // own answer + own comment + carol's comment
	assert.True(t, bobNotes[2].Unread)

	carolNotes := notesFor(t, e, carol.ID)
	require.Len(t, carolNotes, 1)
	assert.False(t, carolNotes[0].Unread, "own activity arrives pre-read")

	assert.Equal(t, 3, reloadProfile(t, e, alice.ID).NewMessages)
	assert.Equal(t, 1, reloadProfile(t, e, bob.ID).NewMessages)
	assert.Equal(t, 0, reloadProfile(t, e, carol.ID).NewMessages)
}

func TestNoteURLPointsIntoThread(t *testing.T) {
	e := newTestEngine(t)
	alice := newUser(t, e, "alice")
	bob := newUser(t, e, "bob")

	question := newQuestion(t, e, alice, "Where am I", "content", "")
	answer := newAnswer(t, e, bob, question, "over here")

	notes := notesFor(t, e, alice.ID)
	require.Len(t, notes, 2)
	assert.Equal(t, postURL(question, question), notes[0].URL)
	assert.Contains(t, notes[1].URL, "#")
	assert.Equal(t, postURL(answer, reloadPost(t, e, question.ID)), notes[1].URL)
}

func TestSendNoteBothLeavesReceiptWithSender(t *testing.T) {
	e := newTestEngine(t)
	sender := newUser(t, e, "sender")
	target := newUser(t, e, "target")

	_, err := e.SendNote(NoteRequest{
		SenderID: sender.ID,
		TargetID: target.ID,
		Content:  "please review",
		Type:     models.NoteModerator,
		Unread:   true,
		Both:     true,
	})
	require.NoError(t, err)

	targetNotes := notesFor(t, e, target.ID)
	require.Len(t, targetNotes, 1)
	assert.True(t, targetNotes[0].Unread)
	assert.Equal(t, 1, reloadProfile(t, e, target.ID).NewMessages)

	senderNotes := notesFor(t, e, sender.ID)
	require.Len(t, senderNotes, 1)
	assert.False(t, senderNotes[0].Unread)
	assert.Equal(t, 0, reloadProfile(t, e, sender.ID).NewMessages)
}

func TestSendNoteToSelfSkipsReceipt(t *testing.T) {
	e := newTestEngine(t)
	user := newUser(t, e, "loner")

	_, err := e.SendNote(NoteRequest{
		SenderID: user.ID,
		TargetID: user.ID,
		Content:  "note to self",
		Type:     models.NoteUser,
		Both:     true,
	})
	require.NoError(t, err)
	assert.Len(t, notesFor(t, e, user.ID), 1)
}

func TestPreReadNoteIsStoredRead(t *testing.T) {
	e := newTestEngine(t)
	user := newUser(t, e, "loner")

	note, err := e.SendNote(NoteRequest{
		SenderID: user.ID,
		TargetID: user.ID,
		Content:  "already seen",
		Type:     models.NoteUser,
	})
	require.NoError(t, err)

	// The read state must survive the insert; a column default would
	// silently flip it back to unread.
	var stored models.Note
	require.NoError(t, e.db.First(&stored, note.ID).Error)
	assert.False(t, stored.Unread)
	assert.Equal(t, "old", stored.StatusLabel())
	assert.Equal(t, 0, reloadProfile(t, e, user.ID).NewMessages)
}

func TestOverlongURLIsTruncated(t *testing.T) {
	e := newTestEngine(t)
	user := newUser(t, e, "user")

	long := "/" + strings.Repeat("x", 300)
	note, err := e.SendNote(NoteRequest{
		SenderID: user.ID,
		TargetID: user.ID,
		Content:  "where",
		Type:     models.NoteUser,
		URL:      long,
	})
	require.NoError(t, err)
	assert.Len(t, note.URL, models.NoteURLMax)
}

func TestNoteContentIsRendered(t *testing.T) {
	e := newTestEngine(t)
	user := newUser(t, e, "user")

	note, err := e.SendNote(NoteRequest{
		SenderID: user.ID,
		TargetID: user.ID,
		Content:  "*emphasis*",
		Type:     models.NoteUser,
	})
	require.NoError(t, err)
	assert.Contains(t, note.HTML, "<em>emphasis</em>")
}

func TestMarkNoteReadReleasesCounterOnce(t *testing.T) {
	e := newTestEngine(t)
	sender := newUser(t, e, "sender")
	target := newUser(t, e, "target")

	note, err := e.SendNote(NoteRequest{
		SenderID: sender.ID,
		TargetID: target.ID,
		Content:  "ping",
		Type:     models.NoteUser,
		Unread:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reloadProfile(t, e, target.ID).NewMessages)

	require.NoError(t, e.MarkNoteRead(note.ID))
	assert.Equal(t, 0, reloadProfile(t, e, target.ID).NewMessages)

	// Re-reading an already-read note does not go negative.
	require.NoError(t, e.MarkNoteRead(note.ID))
	assert.Equal(t, 0, reloadProfile(t, e, target.ID).NewMessages)
}

func TestMarkAllNotesRead(t *testing.T) {
	e := newTestEngine(t)
	sender := newUser(t, e, "sender")
	target := newUser(t, e, "target")

	for _, text := range []string{"one", "two", "three"} {
		_, err := e.SendNote(NoteRequest{
			SenderID: sender.ID,
			TargetID: target.ID,
			Content:  text,
			Type:     models.NoteUser,
			Unread:   true,
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, reloadProfile(t, e, target.ID).NewMessages)

	require.NoError(t, e.MarkAllNotesRead(target.ID))
	assert.Equal(t, 0, reloadProfile(t, e, target.ID).NewMessages)
	for _, note := range notesFor(t, e, target.ID) {
		assert.False(t, note.Unread)
	}
}

func TestDeleteNoteKeepsCounterInSync(t *testing.T) {
	e := newTestEngine(t)
	sender := newUser(t, e, "sender")
	target := newUser(t, e, "target")

	unread, err := e.SendNote(NoteRequest{
		SenderID: sender.ID,
		TargetID: target.ID,
		Content:  "unread",
		Type:     models.NoteUser,
		Unread:   true,
	})
	require.NoError(t, err)
	read, err := e.SendNote(NoteRequest{
		SenderID: sender.ID,
		TargetID: target.ID,
		Content:  "read",
		Type:     models.NoteUser,
	})
	require.NoError(t, err)

	require.NoError(t, e.DeleteNote(read.ID))
	assert.Equal(t, 1, reloadProfile(t, e, target.ID).NewMessages)

	require.NoError(t, e.DeleteNote(unread.ID))
	assert.Equal(t, 0, reloadProfile(t, e, target.ID).NewMessages)
	assert.Empty(t, notesFor(t, e, target.ID))

	// Deleting a missing note is not an error.
	require.NoError(t, e.DeleteNote(unread.ID))
}
