package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Import copies the file at src into the library root under a slugified
// name and returns its relative path. Existing documents are never
// overwritten; a numeric suffix is added instead.
func (l *Library) Import(src string) (string, error) {
	base := filepath.Base(src)
	if !IsDocument(base) {
		return "", fmt.Errorf("%s: unsupported document type", base)
	}

	ext := strings.ToLower(filepath.Ext(base))
	stem := Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "document"
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(l.Root, 0755); err != nil {
		return "", fmt.Errorf("create library: %w", err)
	}

	name := stem + ext
	for i := 1; ; i++ {
		out, err := os.OpenFile(filepath.Join(l.Root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			name = fmt.Sprintf("%s-%d%s", stem, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := io.Copy(out, in); err != nil {
			_ = out.Close()
			return "", fmt.Errorf("copy %s: %w", name, err)
		}
		if err := out.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", name, err)
		}
		return name, nil
	}
}

// Remove deletes a document from the library. Paths outside the root and
// files that are not documents are refused.
func (l *Library) Remove(relPath string) error {
	abs := l.Abs(relPath)
	if _, err := l.Rel(abs); err != nil {
		return err
	}
	if !IsDocument(abs) {
		return fmt.Errorf("%s: not a document", relPath)
	}
	return os.Remove(abs)
}

// Slugify converts a title to a file-name friendly slug.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var buf strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			buf.WriteRune(r)
		}
	}

	result := buf.String()
	// Clean up multiple consecutive hyphens
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	return strings.Trim(result, "-")
}
