// Package settings persists the single settings document. Saves overwrite
// the file in place; a torn write can only lose settings, never notes, so
// this store skips the temp-file rename used by the note log.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

// FileName is the settings document name inside the config directory.
const FileName = "settings.yaml"

// Store reads and writes one settings file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a store for the document at path. A nil logger uses
// slog.Default().
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored document. A missing file yields the defaults
// without creating anything. An unreadable, unparseable, or invalid file
// also yields the defaults and is logged at warn level.
func (s *Store) Load() types.Settings {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.DefaultSettings()
	}
	if err != nil {
		s.warn("reading settings", err)
		return types.DefaultSettings()
	}

	doc := types.DefaultSettings()
	if err := yaml.Unmarshal(data, &doc); err != nil {
		s.warn("parsing settings", err)
		return types.DefaultSettings()
	}
	if err := doc.Validate(); err != nil {
		s.warn("validating settings", err)
		return types.DefaultSettings()
	}
	return doc
}

// Save validates doc and overwrites the settings file with it.
func (s *Store) Save(doc types.Settings) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s *Store) warn(msg string, err error) {
	s.logger.Warn(msg+"; using defaults",
		slog.String("path", s.path),
		slog.String("error", err.Error()))
}
