package index

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/chatnary/chatnary/internal/library"
	"github.com/chatnary/chatnary/internal/markdown"
)

// Stats summarizes one IndexAll run.
type Stats struct {
	Indexed   int
	Unchanged int
	Removed   int
}

// Indexer manages the document indexing pipeline.
type Indexer struct {
	db     *DB
	parser *markdown.Parser
	lib    *library.Library
	logger *log.Logger
}

func NewIndexer(db *DB, lib *library.Library, logger *log.Logger) *Indexer {
	return &Indexer{
		db:     db,
		parser: markdown.NewParser(),
		lib:    lib,
		logger: logger,
	}
}

// IndexAll indexes every document in the library and drops index entries
// for documents that no longer exist.
func (idx *Indexer) IndexAll() (Stats, error) {
	var stats Stats

	docs, err := idx.lib.List()
	if err != nil {
		return stats, err
	}

	present := make(map[string]bool, len(docs))
	for _, d := range docs {
		present[d.Path] = true
		changed, err := idx.IndexFile(idx.lib.Abs(d.Path))
		if err != nil {
			return stats, err
		}
		if changed {
			stats.Indexed++
		} else {
			stats.Unchanged++
		}
	}

	paths, err := idx.db.Paths()
	if err != nil {
		return stats, fmt.Errorf("list indexed paths: %w", err)
	}
	for _, p := range paths {
		if present[p] {
			continue
		}
		if err := idx.db.DeleteDocument(p); err != nil {
			return stats, fmt.Errorf("remove %s: %w", p, err)
		}
		stats.Removed++
	}

	idx.logger.Info("index complete", "indexed", stats.Indexed, "unchanged", stats.Unchanged, "removed", stats.Removed)
	return stats, nil
}

// IndexFile indexes a single document. It reports false when the content
// hash matches the stored one and nothing was written.
func (idx *Indexer) IndexFile(absPath string) (bool, error) {
	relPath, err := idx.lib.Rel(absPath)
	if err != nil {
		return false, err
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", relPath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", relPath, err)
	}

	hash := fmt.Sprintf("%x", sha256.Sum256(content))
	existing, err := idx.db.DocumentHash(relPath)
	if err != nil {
		return false, fmt.Errorf("read hash %s: %w", relPath, err)
	}
	if hash == existing {
		return false, nil
	}

	title := titleFromPath(relPath)
	body := string(content)
	var (
		headings []markdown.Heading
		tags     []string
	)
	if library.IsMarkdown(relPath) {
		parsed := idx.parser.Parse(content)
		if t := parsed.Title(); t != "" {
			title = t
		}
		body = parsed.Plain
		headings = parsed.Headings
		tags = parsed.Tags()
	}

	docID, err := idx.db.UpsertDocument(relPath, title, hash, info.ModTime().Unix(), info.Size())
	if err != nil {
		return false, err
	}

	headingTexts := make([]string, len(headings))
	for i, h := range headings {
		headingTexts[i] = h.Text
	}
	if err := idx.db.UpdateFTS(docID, title, body, strings.Join(tags, " "), strings.Join(headingTexts, " ")); err != nil {
		return false, fmt.Errorf("update FTS: %w", err)
	}

	if err := idx.db.SetTags(docID, tags); err != nil {
		return false, err
	}

	if err := idx.db.ClearHeadings(docID); err != nil {
		return false, fmt.Errorf("clear headings: %w", err)
	}
	for _, h := range headings {
		if err := idx.db.InsertHeading(docID, h.Level, h.Text, h.Line); err != nil {
			return false, fmt.Errorf("insert heading %q: %w", h.Text, err)
		}
	}

	idx.logger.Debug("indexed", "path", relPath, "headings", len(headings))
	return true, nil
}

// RemoveFile removes a document from the index.
func (idx *Indexer) RemoveFile(absPath string) error {
	relPath, err := idx.lib.Rel(absPath)
	if err != nil {
		return err
	}
	idx.logger.Debug("removed", "path", relPath)
	return idx.db.DeleteDocument(relPath)
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return name
}
