package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = prev })
}

func TestNewNote(t *testing.T) {
	fixClock(t, time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local))

	n := NewNote("groceries", "milk\neggs")

	assert.Equal(t, "groceries", n.Title)
	assert.Equal(t, "milk\neggs", n.Content)
	assert.Equal(t, "2024-03-09 14:05:07", n.Timestamp)

	id, err := uuid.Parse(n.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNewNoteIDsAreUnique(t *testing.T) {
	a := NewNote("a", "")
	b := NewNote("a", "")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNoteRevise(t *testing.T) {
	fixClock(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	orig := NewNote("old", "body")

	fixClock(t, time.Date(2024, 1, 2, 8, 30, 0, 0, time.Local))
	got := orig.Revise("new", "text")

	assert.Equal(t, orig.ID, got.ID, "revise keeps the id")
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "text", got.Content)
	assert.Equal(t, "2024-01-02 08:30:00", got.Timestamp)
	assert.Equal(t, "old", orig.Title, "revise does not mutate the receiver")
}

func TestNoteSameText(t *testing.T) {
	n := Note{Title: "t", Content: "c"}
	assert.True(t, n.SameText("t", "c"))
	assert.False(t, n.SameText("t", "c2"))
	assert.False(t, n.SameText("T", "c"))
}
