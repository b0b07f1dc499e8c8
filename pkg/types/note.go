package types

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the local-time layout written to Note.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Note is one user-authored record. Notes are addressed by position in the
// ordered sequence; ID only guards against a position drifting between read
// and write.
type Note struct {
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"ts"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// nowFunc is overridden in tests that need a fixed clock.
var nowFunc = time.Now

// Now returns the current local time formatted with TimestampLayout.
func Now() string {
	return nowFunc().Format(TimestampLayout)
}

// NewNote builds a note with a fresh UUID v7 and the current timestamp.
func NewNote(title, content string) Note {
	return Note{
		ID:        newID(),
		Timestamp: Now(),
		Title:     title,
		Content:   content,
	}
}

// SameText reports whether the note already holds title and content.
func (n Note) SameText(title, content string) bool {
	return n.Title == title && n.Content == content
}

// Revise returns a copy of n with new text and a refreshed timestamp.
// The ID is preserved.
func (n Note) Revise(title, content string) Note {
	n.Title = title
	n.Content = content
	n.Timestamp = Now()
	return n
}

// newID returns a UUID v7, falling back to v4 if the clock source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
