package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/floaty/internal/jsonl"
	"github.com/mesh-intelligence/floaty/pkg/types"
)

// countingLog wraps a real store and counts loads; failRewrite makes the
// next RewriteAll fail.
type countingLog struct {
	*jsonl.Store
	loads       int
	failRewrite bool
	// failAfterAppend writes the note, then reports a failure, the way a
	// write followed by a failed fsync does.
	failAfterAppend bool
}

func (c *countingLog) Append(n types.Note) error {
	if c.failAfterAppend {
		c.failAfterAppend = false
		if err := c.Store.Append(n); err != nil {
			return err
		}
		return errors.New("sync: input/output error")
	}
	return c.Store.Append(n)
}

func (c *countingLog) Load() ([]types.Note, error) {
	c.loads++
	return c.Store.Load()
}

func (c *countingLog) RewriteAll(notes []types.Note) error {
	if c.failRewrite {
		c.failRewrite = false
		return errors.New("disk full")
	}
	return c.Store.RewriteAll(notes)
}

func newTestSession(t *testing.T) (*Session, *countingLog) {
	t.Helper()
	log := &countingLog{Store: jsonl.NewStore(filepath.Join(t.TempDir(), jsonl.NotesFileName))}
	return New(log, nil), log
}

func titlesOf(t *testing.T, s *Session) []string {
	t.Helper()
	notes, err := s.List()
	require.NoError(t, err)
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestSessionStartsUnloaded(t *testing.T) {
	s, log := newTestSession(t)
	assert.False(t, s.Loaded())
	assert.Zero(t, log.loads)
}

func TestEnsureLoadedLoadsOnce(t *testing.T) {
	s, log := newTestSession(t)

	require.NoError(t, s.EnsureLoaded())
	require.NoError(t, s.EnsureLoaded())
	_, err := s.List()
	require.NoError(t, err)

	assert.True(t, s.Loaded())
	assert.Equal(t, 1, log.loads)
}

func TestInvalidateForcesReload(t *testing.T) {
	s, log := newTestSession(t)
	require.NoError(t, s.EnsureLoaded())

	s.Invalidate()
	assert.False(t, s.Loaded())

	require.NoError(t, s.EnsureLoaded())
	assert.Equal(t, 2, log.loads)
}

func TestAppendMergesIntoLoadedCache(t *testing.T) {
	s, log := newTestSession(t)
	require.NoError(t, s.EnsureLoaded())

	_, err := s.Append("A", "x")
	require.NoError(t, err)
	_, err = s.Append("B", "y")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, titlesOf(t, s))
	assert.Equal(t, 1, log.loads, "append must not reread the log")

	fromDisk, err := log.Store.Load()
	require.NoError(t, err)
	cached, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, fromDisk, cached)
}

func TestAppendLeavesUnloadedCacheUnloaded(t *testing.T) {
	s, log := newTestSession(t)

	n, err := s.Append("A", "x")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, s.Loaded())
	assert.Zero(t, log.loads)

	assert.Equal(t, []string{"A"}, titlesOf(t, s))
	assert.Equal(t, 1, log.loads)
}

func TestFailedAppendInvalidatesCache(t *testing.T) {
	s, log := newTestSession(t)
	_, err := s.Append("a", "")
	require.NoError(t, err)
	require.NoError(t, s.EnsureLoaded())

	log.failAfterAppend = true
	_, err = s.Append("b", "")
	require.Error(t, err)
	assert.False(t, s.Loaded())

	// A later rewrite works from what is on disk and keeps "b".
	require.NoError(t, s.Delete(0))
	assert.Equal(t, []string{"b"}, titlesOf(t, s))
	fromDisk, err := log.Store.Load()
	require.NoError(t, err)
	require.Len(t, fromDisk, 1)
	assert.Equal(t, "b", fromDisk[0].Title)
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Append("A", "x")
	require.NoError(t, err)

	notes, err := s.List()
	require.NoError(t, err)
	notes[0].Title = "mutated"

	assert.Equal(t, []string{"A"}, titlesOf(t, s))
}

func TestEditKeepsCacheFresh(t *testing.T) {
	s, log := newTestSession(t)
	_, err := s.Append("A", "x")
	require.NoError(t, err)
	_, err = s.Append("B", "y")
	require.NoError(t, err)
	require.NoError(t, s.EnsureLoaded())
	loads := log.loads

	require.NoError(t, s.Edit(1, "B2", "y2"))

	assert.Equal(t, []string{"A", "B2"}, titlesOf(t, s))
	assert.Equal(t, loads, log.loads)
	fromDisk, err := log.Store.Load()
	require.NoError(t, err)
	cached, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, fromDisk, cached)
}

func TestEditUnchangedSkipsRewrite(t *testing.T) {
	s, log := newTestSession(t)
	_, err := s.Append("A", "x")
	require.NoError(t, err)
	before, err := s.Get(0)
	require.NoError(t, err)

	log.failRewrite = true
	require.NoError(t, s.Edit(0, "A", "x"), "no rewrite means the injected failure is never hit")

	after, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditEmptyDeletes(t *testing.T) {
	s, _ := newTestSession(t)
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Append(title, "")
		require.NoError(t, err)
	}

	require.NoError(t, s.Edit(0, "", ""))

	assert.Equal(t, []string{"b", "c"}, titlesOf(t, s))
}

func TestDeleteAndOutOfRange(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Append("a", "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(1), types.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Edit(-1, "x", ""), types.ErrIndexOutOfRange)
	_, err = s.Get(3)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)

	require.NoError(t, s.Delete(0))
	assert.Empty(t, titlesOf(t, s))
}

func TestFailedRewriteInvalidatesCache(t *testing.T) {
	s, log := newTestSession(t)
	_, err := s.Append("a", "")
	require.NoError(t, err)
	require.NoError(t, s.EnsureLoaded())

	log.failRewrite = true
	err = s.Delete(0)
	require.Error(t, err)

	assert.False(t, s.Loaded())
	assert.Equal(t, []string{"a"}, titlesOf(t, s), "reload shows what is actually on disk")
}

func TestClearInvalidates(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Append("a", "")
	require.NoError(t, err)
	require.NoError(t, s.EnsureLoaded())

	require.NoError(t, s.Clear())

	assert.False(t, s.Loaded())
	assert.Empty(t, titlesOf(t, s))
}

func TestExternalChangeIsPickedUp(t *testing.T) {
	s, log := newTestSession(t)
	_, err := s.Append("a", "")
	require.NoError(t, err)
	require.NoError(t, s.EnsureLoaded())

	other := jsonl.NewStore(log.Path())
	require.NoError(t, other.Append(types.NewNote("external", "")))
	s.MarkStale()

	assert.Equal(t, []string{"a", "external"}, titlesOf(t, s))
}

func TestOwnWriteDoesNotInvalidate(t *testing.T) {
	s, log := newTestSession(t)
	require.NoError(t, s.EnsureLoaded())
	_, err := s.Append("a", "")
	require.NoError(t, err)

	s.MarkStale()
	_, err = s.List()
	require.NoError(t, err)

	assert.Equal(t, 1, log.loads)
}

func TestEditFollowsNoteMovedOnDisk(t *testing.T) {
	s, log := newTestSession(t)
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Append(title, "")
		require.NoError(t, err)
	}
	require.NoError(t, s.EnsureLoaded())

	// Another process deletes "a"; the caller still thinks "c" is at 2.
	other := jsonl.NewStore(log.Path())
	require.NoError(t, other.Delete(0))
	s.MarkStale()

	require.NoError(t, s.Edit(2, "C", "edited"))

	assert.Equal(t, []string{"b", "C"}, titlesOf(t, s))
}

func TestEditOfNoteRemovedOnDiskIsStale(t *testing.T) {
	s, log := newTestSession(t)
	for _, title := range []string{"a", "b"} {
		_, err := s.Append(title, "")
		require.NoError(t, err)
	}
	require.NoError(t, s.EnsureLoaded())

	other := jsonl.NewStore(log.Path())
	require.NoError(t, other.Delete(1))
	s.MarkStale()

	err := s.Delete(1)
	assert.ErrorIs(t, err, types.ErrStaleIndex)
	assert.Equal(t, []string{"a"}, titlesOf(t, s))
}

func TestWatchMarksStaleOnExternalWrite(t *testing.T) {
	s, log := newTestSession(t)
	require.NoError(t, s.EnsureLoaded())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	other := jsonl.NewStore(log.Path())
	assert.Eventually(t, func() bool {
		// Keep writing until the watcher is up and reports the change.
		_ = other.Append(types.NewNote("external", ""))
		return s.stale.Load()
	}, 5*time.Second, 50*time.Millisecond)

	notes, err := s.List()
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Equal(t, "external", notes[0].Title)
}
