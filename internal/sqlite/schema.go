// Package sqlite writes read-only SQLite snapshots of the note log for
// external tools. The JSONL log stays the source of truth; a snapshot is
// never read back.
package sqlite

// Snapshot DDL.
const (
	createNotes = `CREATE TABLE notes (
    position INTEGER PRIMARY KEY,
    id TEXT,
    ts TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL
);`

	createNotesTitleIndex = `CREATE INDEX idx_notes_title ON notes(title);`

	createMeta = `CREATE TABLE meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createNotes,
	createNotesTitleIndex,
	createMeta,
}
