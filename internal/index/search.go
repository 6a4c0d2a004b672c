package index

import (
	"database/sql"
	"strings"
)

// SearchResult represents a single search result.
type SearchResult struct {
	ID    int64
	Path  string
	Title string
	Rank  float64
}

// HeadingResult represents a heading in a document.
type HeadingResult struct {
	DocumentID   int64
	DocumentPath string
	Level        int
	Text         string
	Line         int
}

// Title matches weigh most, then tags and headings, then body text.
const rankExpr = "bm25(documents_fts, 10.0, 1.0, 4.0, 2.0)"

// Search performs a full-text search across documents. Each free word of
// query is matched as a prefix, so partially typed input still finds results;
// tag:name terms keep only documents carrying that tag.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	words, tags := ParseQuery(query)
	if len(words) == 0 && len(tags) == 0 {
		return nil, nil
	}

	var (
		q    strings.Builder
		args []any
	)
	if len(words) > 0 {
		q.WriteString(`SELECT d.id, d.path, d.title, ` + rankExpr + ` AS score
			FROM documents_fts
			JOIN documents d ON d.id = documents_fts.rowid
			WHERE documents_fts MATCH ?`)
		args = append(args, ftsQuery(words))
	} else {
		q.WriteString(`SELECT d.id, d.path, d.title, 0 AS score FROM documents d WHERE 1 = 1`)
	}
	for _, tag := range tags {
		q.WriteString(` AND d.id IN (
			SELECT dt.document_id FROM document_tags dt
			JOIN tags t ON t.id = dt.tag_id
			WHERE t.name = ? COLLATE NOCASE)`)
		args = append(args, tag)
	}
	q.WriteString(` ORDER BY score, d.path LIMIT ?`)
	args = append(args, limit)

	rows, err := db.conn.Query(q.String(), args...)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

// ParseQuery splits a search query into free words and tag:name filters.
func ParseQuery(query string) (words, tags []string) {
	for _, f := range strings.Fields(query) {
		if tag, ok := strings.CutPrefix(f, "tag:"); ok {
			if tag != "" {
				tags = append(tags, tag)
			}
			continue
		}
		words = append(words, f)
	}
	return words, tags
}

// SearchFiles searches document titles and paths.
func (db *DB) SearchFiles(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, path, title, 0 as rank
		FROM documents
		WHERE path LIKE ? OR title LIKE ?
		ORDER BY path
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

// ListAll returns all documents, sorted by path.
func (db *DB) ListAll(limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := db.conn.Query(`
		SELECT id, path, title, 0 as rank
		FROM documents
		ORDER BY path
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

// Headings returns the headings of the document at path in line order.
func (db *DB) Headings(path string) ([]HeadingResult, error) {
	rows, err := db.conn.Query(`
		SELECT h.document_id, d.path, h.level, h.text, h.line
		FROM headings h
		JOIN documents d ON d.id = h.document_id
		WHERE d.path = ?
		ORDER BY h.line
	`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []HeadingResult
	for rows.Next() {
		var r HeadingResult
		if err := rows.Scan(&r.DocumentID, &r.DocumentPath, &r.Level, &r.Text, &r.Line); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Path, &r.Title, &r.Rank); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// ftsQuery turns words into an FTS5 query of quoted prefix terms so that
// punctuation in user input is never parsed as query syntax.
func ftsQuery(words []string) string {
	terms := make([]string, len(words))
	for i, word := range words {
		terms[i] = `"` + strings.ReplaceAll(word, `"`, `""`) + `"*`
	}
	return strings.Join(terms, " ")
}
