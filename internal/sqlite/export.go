package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/floaty/pkg/floaty"
	"github.com/mesh-intelligence/floaty/pkg/types"
)

// Export writes notes to a new SQLite database at path, replacing any
// previous snapshot. The database is built beside path and renamed into
// place, so a failed export leaves an earlier snapshot intact.
// Positions are 1-based, matching the command surface.
func Export(ctx context.Context, path string, notes []types.Note) (err error) {
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	db, err := sql.Open("sqlite", tmpPath)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
			os.Remove(tmpPath)
		}
	}()

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if err := insertNotes(ctx, db, notes); err != nil {
		return err
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming snapshot: %w", err)
	}
	return nil
}

// insertNotes loads all notes and the meta rows in one transaction.
func insertNotes(ctx context.Context, db *sql.DB, notes []types.Note) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO notes (position, id, ts, title, content) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range notes {
		var id any
		if n.ID != "" {
			id = n.ID
		}
		if _, err := stmt.ExecContext(ctx, i+1, id, n.Timestamp, n.Title, n.Content); err != nil {
			return fmt.Errorf("inserting note %d: %w", i+1, err)
		}
	}

	meta := map[string]string{
		"version":    floaty.Version,
		"note_count": strconv.Itoa(len(notes)),
		"exported":   types.Now(),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("inserting meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}
