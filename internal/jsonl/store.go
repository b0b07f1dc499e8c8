package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

// NotesFileName is the canonical note log name inside the data directory.
const NotesFileName = "notes.jsonl"

// fsops holds file operations that tests replace to simulate failures.
var fsops = struct {
	rename func(oldpath, newpath string) error
}{
	rename: os.Rename,
}

// Store owns one note log file. It assumes a single writer per path; there
// is no locking between processes.
type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a store for the log at path. The file and its directory
// are created lazily by the first write.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the canonical log path.
func (s *Store) Path() string {
	return s.path
}

// Append writes n as the new tail of the log and syncs it. Earlier lines are
// never rewritten. If a previous crash left a partial last line, a newline is
// written first so the new note starts on its own line.
func (s *Store) Append(n types.Note) error {
	line, err := Encode(n)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		writeErrorsTotal.Inc()
		return fmt.Errorf("creating data dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		writeErrorsTotal.Inc()
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	torn, err := endsMidLine(f)
	if err != nil {
		writeErrorsTotal.Inc()
		return fmt.Errorf("checking tail of %s: %w", s.path, err)
	}

	buf := make([]byte, 0, len(line)+2)
	if torn {
		buf = append(buf, '\n')
	}
	buf = append(buf, line...)
	buf = append(buf, '\n')

	if _, err := f.Write(buf); err != nil {
		writeErrorsTotal.Inc()
		return fmt.Errorf("appending note: %w", err)
	}
	if err := f.Sync(); err != nil {
		writeErrorsTotal.Inc()
		return fmt.Errorf("syncing %s: %w", s.path, err)
	}
	appendsTotal.Inc()
	return nil
}

// endsMidLine reports whether f is non-empty and its last byte is not '\n'.
func endsMidLine(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// Load returns every decodable note in file order. A missing file yields an
// empty sequence. Malformed lines are logged and skipped.
func (s *Store) Load() ([]types.Note, error) {
	notes, _, err := s.LoadReport()
	return notes, err
}

// LoadReport is Load plus the decode errors for the lines that were skipped.
func (s *Store) LoadReport() ([]types.Note, []*DecodeError, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []types.Note{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()
	loadsTotal.Inc()

	notes := []types.Note{}
	var bad []*DecodeError
	r := bufio.NewReader(f)
	for lineNo := 1; ; lineNo++ {
		line, readErr := r.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, nil, fmt.Errorf("reading %s: %w", s.path, readErr)
		}
		if len(bytes.TrimSpace(line)) > 0 {
			n, err := Decode(line)
			if err != nil {
				var de *DecodeError
				if errors.As(err, &de) {
					de.Line = lineNo
					bad = append(bad, de)
				}
				decodeFailuresTotal.Inc()
				s.logger.Warn("skipping bad note line",
					slog.String("path", s.path),
					slog.Int("line", lineNo),
					slog.String("error", err.Error()))
			} else {
				notes = append(notes, n)
			}
		}
		if readErr == io.EOF {
			break
		}
	}
	return notes, bad, nil
}

// RewriteAll replaces the log with notes using the temp-file, fsync, rename
// pattern. Readers see either the old file or the new one, never a partial
// write. On failure before the rename the canonical file is untouched.
func (s *Store) RewriteAll(notes []types.Note) (err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			writeErrorsTotal.Inc()
			return
		}
		rewritesTotal.Inc()
		rewriteDuration.UpdateDuration(start)
	}()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+NotesFileName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, n := range notes {
		line, err := Encode(n)
		if err != nil {
			return err
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("writing note: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := fsops.rename(tmpName, s.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true
	return nil
}

// Clear empties the store.
func (s *Store) Clear() error {
	return s.RewriteAll(nil)
}

// Edit replaces the note at 0-based index with new text and a fresh
// timestamp. Empty title and content delete the note; unchanged text is a
// no-op that does not touch the file.
func (s *Store) Edit(index int, title, content string) error {
	notes, err := s.Load()
	if err != nil {
		return err
	}
	next, changed, err := ApplyEdit(notes, index, title, content)
	if err != nil || !changed {
		return err
	}
	return s.RewriteAll(next)
}

// Delete removes the note at 0-based index.
func (s *Store) Delete(index int) error {
	notes, err := s.Load()
	if err != nil {
		return err
	}
	next, err := ApplyDelete(notes, index)
	if err != nil {
		return err
	}
	return s.RewriteAll(next)
}
