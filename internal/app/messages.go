package app

import (
	"github.com/chatnary/chatnary/internal/index"
	"github.com/chatnary/chatnary/internal/library"
	"github.com/chatnary/chatnary/internal/markdown"
)

// fatalErrorMsg is sent when a background subsystem encounters an
// unrecoverable error. The app quits and reports it through Err.
type fatalErrorMsg struct{ err error }

// documentsListedMsg carries a fresh listing of the library.
type documentsListedMsg struct {
	docs []library.Document
	err  error
}

// documentLoadedMsg carries a document read from disk.
type documentLoadedMsg struct {
	path     string
	content  []byte
	headings []markdown.Heading
	heading  string // scroll here once displayed
	err      error
}

// indexInitDoneMsg signals the initial index pass is complete.
type indexInitDoneMsg struct {
	stats index.Stats
	err   error
}

// documentChangedMsg is sent by the watcher after a document was re-indexed.
type documentChangedMsg struct {
	path string
}
