// Package session holds the in-memory view of the note log used by the
// interactive shell and the HTTP surface. A Session is owned by one caller;
// only the change watcher touches it from another goroutine, and only
// through an atomic flag.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/mesh-intelligence/floaty/internal/jsonl"
	"github.com/mesh-intelligence/floaty/pkg/types"
)

// NoteLog is the durable store a Session reads through.
type NoteLog interface {
	Path() string
	Append(n types.Note) error
	Load() ([]types.Note, error)
	RewriteAll(notes []types.Note) error
}

// Session caches the ordered note sequence. It is Unloaded until the first
// read and returns to Unloaded on Invalidate. While loaded, notes equals the
// last sequence read from or written to the log.
type Session struct {
	log    NoteLog
	logger *slog.Logger

	notes  []types.Note
	loaded bool

	// stale is set by Watch when the log changes on disk.
	stale atomic.Bool
	// lastWrite is the log's file info right after our own last write, so
	// watcher events caused by this session can be told apart.
	lastWrite os.FileInfo
}

// New returns an unloaded session over log. A nil logger uses slog.Default().
func New(log NoteLog, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{log: log, logger: logger}
}

// Loaded reports whether the cache currently holds the sequence.
func (s *Session) Loaded() bool {
	return s.loaded
}

// EnsureLoaded reads the log if the cache is unloaded.
func (s *Session) EnsureLoaded() error {
	s.syncStale()
	if s.loaded {
		return nil
	}
	notes, err := s.log.Load()
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	s.notes = notes
	s.loaded = true
	s.logger.Debug("session: loaded notes", slog.Int("count", len(notes)))
	return nil
}

// Invalidate drops the cached sequence. The next read reloads from disk.
func (s *Session) Invalidate() {
	s.notes = nil
	s.loaded = false
}

// Reload discards the cache and reads the log again.
func (s *Session) Reload() error {
	s.Invalidate()
	return s.EnsureLoaded()
}

// List returns a copy of the ordered sequence.
func (s *Session) List() ([]types.Note, error) {
	if err := s.EnsureLoaded(); err != nil {
		return nil, err
	}
	out := make([]types.Note, len(s.notes))
	copy(out, s.notes)
	return out, nil
}

// Get returns the note at 0-based index.
func (s *Session) Get(index int) (types.Note, error) {
	if err := s.EnsureLoaded(); err != nil {
		return types.Note{}, err
	}
	if index < 0 || index >= len(s.notes) {
		return types.Note{}, fmt.Errorf("%w: %d (have %d notes)", types.ErrIndexOutOfRange, index, len(s.notes))
	}
	return s.notes[index], nil
}

// Append stores a new note. A loaded cache gets the note on its tail without
// rereading the log; an unloaded cache stays unloaded. A failed append
// leaves the cache unloaded.
func (s *Session) Append(title, content string) (types.Note, error) {
	s.syncStale()
	n := types.NewNote(title, content)
	if err := s.log.Append(n); err != nil {
		// The line may have reached the file before the failure.
		s.Invalidate()
		return types.Note{}, err
	}
	if s.loaded {
		s.notes = append(s.notes, n)
	}
	s.recordWrite()
	return n, nil
}

// Edit applies an edit to the note at 0-based index. See jsonl.ApplyEdit for
// the empty-edit and unchanged-edit rules.
func (s *Session) Edit(index int, title, content string) error {
	idx, err := s.resolve(index)
	if err != nil {
		return err
	}
	next, changed, err := jsonl.ApplyEdit(s.notes, idx, title, content)
	if err != nil || !changed {
		return err
	}
	return s.commit(next)
}

// Delete removes the note at 0-based index.
func (s *Session) Delete(index int) error {
	idx, err := s.resolve(index)
	if err != nil {
		return err
	}
	next, err := jsonl.ApplyDelete(s.notes, idx)
	if err != nil {
		return err
	}
	return s.commit(next)
}

// Clear empties the log and invalidates the cache.
func (s *Session) Clear() error {
	err := s.log.RewriteAll(nil)
	s.Invalidate()
	if err != nil {
		return err
	}
	s.recordWrite()
	return nil
}

// commit rewrites the log with next and installs it as the cache. A failed
// rewrite leaves the cache unloaded.
func (s *Session) commit(next []types.Note) error {
	if err := s.log.RewriteAll(next); err != nil {
		s.Invalidate()
		return err
	}
	s.notes = next
	s.loaded = true
	s.recordWrite()
	return nil
}

// resolve maps a caller's index to a position in the fresh cache. If the
// log changed on disk since the caller last saw it, the note is followed by
// ID; a note that no longer exists yields ErrStaleIndex.
func (s *Session) resolve(index int) (int, error) {
	var wantID string
	if s.loaded && index >= 0 && index < len(s.notes) {
		wantID = s.notes[index].ID
	}
	if err := s.EnsureLoaded(); err != nil {
		return 0, err
	}
	if wantID == "" || (index < len(s.notes) && s.notes[index].ID == wantID) {
		return index, nil
	}
	for i, n := range s.notes {
		if n.ID == wantID {
			s.logger.Debug("session: note moved on disk",
				slog.Int("from", index), slog.Int("to", i))
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", types.ErrStaleIndex, index)
}

// syncStale invalidates the cache if the watcher saw a change that was not
// our own write.
func (s *Session) syncStale() {
	if !s.stale.Swap(false) {
		return
	}
	if s.lastWrite != nil {
		if info, err := os.Stat(s.log.Path()); err == nil &&
			os.SameFile(info, s.lastWrite) &&
			info.ModTime().Equal(s.lastWrite.ModTime()) &&
			info.Size() == s.lastWrite.Size() {
			return
		}
	}
	s.logger.Debug("session: notes changed on disk, invalidating")
	s.Invalidate()
}

func (s *Session) recordWrite() {
	info, err := os.Stat(s.log.Path())
	if err != nil {
		s.lastWrite = nil
		return
	}
	s.lastWrite = info
}

// Watch marks the session stale whenever the log file is created, written,
// replaced, or removed, until ctx is cancelled. It watches the parent
// directory because rewrites replace the file by rename.
func (s *Session) Watch(ctx context.Context) error {
	path := filepath.Clean(s.log.Path())
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("watch: create data dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.logger.Debug("session: watching notes", slog.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.stale.Store(true)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("session: watcher error", slog.String("error", err.Error()))
		}
	}
}

// MarkStale forces the next operation to recheck the log on disk.
func (s *Session) MarkStale() {
	s.stale.Store(true)
}
