package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Document is one file in the library.
type Document struct {
	Name    string
	Path    string // slash-separated, relative to the library root
	Size    int64
	ModTime time.Time
}

// Library is a directory of markdown and text documents.
type Library struct {
	Root string
}

func New(root string) *Library {
	return &Library{Root: root}
}

// IsDocument reports whether name has a supported document extension.
func IsDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".txt":
		return true
	}
	return false
}

// IsMarkdown reports whether the document should be rendered as markdown.
func IsMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// List returns every document in the library sorted by path. Hidden files
// and directories are skipped.
func (l *Library) List() ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == l.Root {
				return err
			}
			return nil // skip unreadable entries
		}
		if path == l.Root {
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsDocument(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return nil
		}

		docs = append(docs, Document{
			Name:    d.Name(),
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs, nil
}

// Abs returns the absolute path of a library-relative document path.
func (l *Library) Abs(relPath string) string {
	return filepath.Join(l.Root, filepath.FromSlash(relPath))
}

// Rel converts an absolute path inside the library to a relative one.
func (l *Library) Rel(absPath string) (string, error) {
	rel, err := filepath.Rel(l.Root, absPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the library", absPath)
	}
	return filepath.ToSlash(rel), nil
}

// Read returns the contents of a document.
func (l *Library) Read(relPath string) ([]byte, error) {
	data, err := os.ReadFile(l.Abs(relPath))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return data, nil
}
