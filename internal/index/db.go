package index

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    mod_time INTEGER NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    hash TEXT NOT NULL DEFAULT ''
);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    title, content, tags, headings,
    content='', contentless_delete=1,
    tokenize='porter unicode61 remove_diacritics 2'
);

CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS document_tags (
    document_id INTEGER REFERENCES documents(id) ON DELETE CASCADE,
    tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (document_id, tag_id)
);

CREATE TABLE IF NOT EXISTS headings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    text TEXT NOT NULL,
    line INTEGER NOT NULL
);

CREATE TRIGGER IF NOT EXISTS documents_fts_delete AFTER DELETE ON documents BEGIN
    DELETE FROM documents_fts WHERE rowid = old.id;
END;
`

// ErrNewerSchema is returned when the database was written by a newer
// version of the index.
var ErrNewerSchema = errors.New("index schema is newer than this build")

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	return open(path + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*DB, error) {
	return open(":memory:?_pragma=foreign_keys(on)")
}

func open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A second pooled connection to :memory: would see an empty database.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("migrate db: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// UpsertDocument inserts or updates a document and returns its ID.
func (db *DB) UpsertDocument(path, title, hash string, modTime, size int64) (int64, error) {
	var id int64
	err := db.conn.QueryRow(`
		INSERT INTO documents (path, title, mod_time, size, hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			mod_time = excluded.mod_time,
			size = excluded.size,
			hash = excluded.hash
		RETURNING id
	`, path, title, modTime, size, hash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert %s: %w", path, err)
	}
	return id, nil
}

// UpdateFTS replaces the full-text entry for a document.
func (db *DB) UpdateFTS(docID int64, title, content, tags, headings string) error {
	if _, err := db.conn.Exec("DELETE FROM documents_fts WHERE rowid = ?", docID); err != nil {
		return err
	}
	_, err := db.conn.Exec("INSERT INTO documents_fts(rowid, title, content, tags, headings) VALUES(?, ?, ?, ?, ?)",
		docID, title, content, tags, headings)
	return err
}

// SetTags replaces the tags of a document.
func (db *DB) SetTags(docID int64, tags []string) error {
	if _, err := db.conn.Exec("DELETE FROM document_tags WHERE document_id = ?", docID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for _, name := range tags {
		if _, err := db.conn.Exec("INSERT OR IGNORE INTO tags (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}
		if _, err := db.conn.Exec(`
			INSERT OR IGNORE INTO document_tags (document_id, tag_id)
			SELECT ?, id FROM tags WHERE name = ?
		`, docID, name); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

// InsertHeading adds a heading record.
func (db *DB) InsertHeading(docID int64, level int, text string, line int) error {
	_, err := db.conn.Exec("INSERT INTO headings (document_id, level, text, line) VALUES (?, ?, ?, ?)",
		docID, level, text, line)
	return err
}

// ClearHeadings removes all headings for a document.
func (db *DB) ClearHeadings(docID int64) error {
	_, err := db.conn.Exec("DELETE FROM headings WHERE document_id = ?", docID)
	return err
}

// DocumentHash returns the stored hash for a document path, or "" when the
// document is not indexed.
func (db *DB) DocumentHash(path string) (string, error) {
	var hash string
	err := db.conn.QueryRow("SELECT hash FROM documents WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// DeleteDocument removes a document and all its related data.
func (db *DB) DeleteDocument(path string) error {
	_, err := db.conn.Exec("DELETE FROM documents WHERE path = ?", path)
	return err
}

// Paths returns the paths of every indexed document.
func (db *DB) Paths() ([]string, error) {
	rows, err := db.conn.Query("SELECT path FROM documents ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Count returns the number of indexed documents.
func (db *DB) Count() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT count(*) FROM documents").Scan(&n)
	return n, err
}

func (db *DB) migrate() error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("version %d: %w", version, ErrNewerSchema)
	}

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if version < schemaVersion {
		if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}
