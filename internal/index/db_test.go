package index

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenMemory(t *testing.T) {
	db := openMemory(t)

	id, err := db.UpsertDocument("test.md", "Test", "abc123", 1000, 42)
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	if err := db.UpdateFTS(id, "Test", "Hello world content", "tag1 tag2", "Heading 1"); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("world", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Path != "test.md" {
		t.Errorf("path: got %q, want %q", results[0].Path, "test.md")
	}
}

func TestUpsertDocument_SameID(t *testing.T) {
	db := openMemory(t)

	first, err := db.UpsertDocument("a.md", "A", "h1", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.UpsertDocument("a.md", "A2", "h2", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("id changed on update: %d -> %d", first, second)
	}

	hash, err := db.DocumentHash("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if hash != "h2" {
		t.Errorf("hash = %q, want h2", hash)
	}
	if hash, _ := db.DocumentHash("missing.md"); hash != "" {
		t.Errorf("missing hash = %q", hash)
	}
}

func TestSearch_PrefixAndSyntax(t *testing.T) {
	db := openMemory(t)

	id, _ := db.UpsertDocument("a.md", "Layout", "h", 1, 1)
	if err := db.UpdateFTS(id, "Layout", "resizable panels with drag handles", "", ""); err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"resiz", "drag hand", `"drag`, "drag-hand"} {
		results, err := db.Search(q, 10)
		if err != nil {
			t.Errorf("Search(%q): %v", q, err)
			continue
		}
		if len(results) != 1 {
			t.Errorf("Search(%q): got %d results, want 1", q, len(results))
		}
	}

	results, err := db.Search("   ", 10)
	if err != nil || results != nil {
		t.Errorf("blank query: %v, %v", results, err)
	}
}

func TestSearch_TagFilterAndRanking(t *testing.T) {
	db := openMemory(t)

	a, _ := db.UpsertDocument("a.md", "Panels", "h", 1, 1)
	_ = db.UpdateFTS(a, "Panels", "how resizing works", "ui", "")
	_ = db.SetTags(a, []string{"ui"})
	b, _ := db.UpsertDocument("b.md", "Storage", "h", 1, 1)
	_ = db.UpdateFTS(b, "Storage", "panels of the index page", "db", "")
	_ = db.SetTags(b, []string{"db"})

	results, err := db.Search("panels", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Path != "a.md" {
		t.Fatalf("title match should rank first: %+v", results)
	}

	results, err = db.Search("panels tag:DB", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != "b.md" {
		t.Errorf("tag filter: %+v", results)
	}

	results, err = db.Search("tag:ui", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != "a.md" {
		t.Errorf("tag only: %+v", results)
	}
}

func TestParseQuery(t *testing.T) {
	words, tags := ParseQuery("drag tag:ui  handle tag:")
	if strings.Join(words, ",") != "drag,handle" {
		t.Errorf("words = %v", words)
	}
	if strings.Join(tags, ",") != "ui" {
		t.Errorf("tags = %v", tags)
	}
}

func TestDeleteDocument_RemovesFTS(t *testing.T) {
	db := openMemory(t)

	id, _ := db.UpsertDocument("a.md", "A", "h", 1, 1)
	_ = db.UpdateFTS(id, "A", "ephemeral", "", "")
	_ = db.InsertHeading(id, 1, "Top", 1)

	if err := db.DeleteDocument("a.md"); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("ephemeral", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results after delete, got %d", len(results))
	}
	headings, _ := db.Headings("a.md")
	if len(headings) != 0 {
		t.Errorf("expected headings to cascade, got %d", len(headings))
	}
}

func TestSearchFiles(t *testing.T) {
	db := openMemory(t)

	_, _ = db.UpsertDocument("guides/setup.md", "Setup", "a", 1000, 10)
	_, _ = db.UpsertDocument("inbox/doc.md", "Quick Doc", "b", 1000, 10)

	results, err := db.SearchFiles("guides", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	all, err := db.ListAll(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Path != "guides/setup.md" {
		t.Errorf("ListAll = %+v", all)
	}
}

func TestHeadings(t *testing.T) {
	db := openMemory(t)

	id, _ := db.UpsertDocument("a.md", "A", "h", 1, 1)
	_ = db.InsertHeading(id, 2, "Second", 9)
	_ = db.InsertHeading(id, 1, "First", 1)

	headings, err := db.Headings("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(headings) != 2 || headings[0].Text != "First" || headings[1].Level != 2 {
		t.Errorf("Headings = %+v", headings)
	}

	if err := db.ClearHeadings(id); err != nil {
		t.Fatal(err)
	}
	headings, _ = db.Headings("a.md")
	if len(headings) != 0 {
		t.Errorf("expected no headings, got %d", len(headings))
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.UpsertDocument("a.md", "A", "h", 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestOpen_NewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.conn.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	if _, err := Open(path); !errors.Is(err, ErrNewerSchema) {
		t.Errorf("expected ErrNewerSchema, got %v", err)
	}
}
