// Package api serves the note log and settings over loopback HTTP for the
// desktop window. Paths carry 1-based note numbers, the same ones the
// command line prints.
package api

import (
	"sync"

	"github.com/mesh-intelligence/floaty/internal/session"
	"github.com/mesh-intelligence/floaty/pkg/types"
)

// SettingsStore loads and saves the settings document.
type SettingsStore interface {
	Load() types.Settings
	Save(doc types.Settings) error
}

// Service serializes access to one Session and the settings store. HTTP
// handlers run concurrently; a Session expects a single owner.
type Service struct {
	mu       sync.Mutex
	sess     *session.Session
	settings SettingsStore
}

// NewService wraps sess and settings for the handlers.
func NewService(sess *session.Session, settings SettingsStore) *Service {
	return &Service{sess: sess, settings: settings}
}

// ListNotes returns the ordered sequence.
func (s *Service) ListNotes() ([]types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.List()
}

// CreateNote appends a note and returns it with its 0-based position.
func (s *Service) CreateNote(title, content string) (types.Note, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.sess.Append(title, content)
	if err != nil {
		return types.Note{}, 0, err
	}
	notes, err := s.sess.List()
	if err != nil {
		return n, 0, err
	}
	return n, len(notes) - 1, nil
}

// UpdateNote edits the note at 0-based index. A nil field keeps its current
// value. deleted reports that both fields ended up empty and the note was
// removed. On success the returned position is where the note now sits.
func (s *Service) UpdateNote(index int, title, content *string) (n types.Note, pos int, deleted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.sess.Get(index)
	if err != nil {
		return types.Note{}, 0, false, err
	}
	newTitle, newContent := cur.Title, cur.Content
	if title != nil {
		newTitle = *title
	}
	if content != nil {
		newContent = *content
	}
	if err := s.sess.Edit(index, newTitle, newContent); err != nil {
		return types.Note{}, 0, false, err
	}
	if newTitle == "" && newContent == "" {
		return types.Note{}, 0, true, nil
	}

	notes, err := s.sess.List()
	if err != nil {
		return types.Note{}, 0, false, err
	}
	if cur.ID != "" {
		for i, candidate := range notes {
			if candidate.ID == cur.ID {
				return candidate, i, false, nil
			}
		}
	}
	if index < len(notes) {
		return notes[index], index, false, nil
	}
	return types.Note{}, 0, false, types.ErrStaleIndex
}

// DeleteNote removes the note at 0-based index.
func (s *Service) DeleteNote(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Delete(index)
}

// Settings returns the current settings document.
func (s *Service) Settings() types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Load()
}

// SaveSettings validates and replaces the settings document.
func (s *Service) SaveSettings(doc types.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Save(doc)
}
