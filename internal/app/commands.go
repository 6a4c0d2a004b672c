package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatnary/chatnary/internal/index"
	"github.com/chatnary/chatnary/internal/library"
	"github.com/chatnary/chatnary/internal/markdown"
	"github.com/chatnary/chatnary/internal/panel"
)

// listDocuments reads the library listing off the UI goroutine.
func (a *App) listDocuments() tea.Cmd {
	lib := a.lib
	return func() tea.Msg {
		docs, err := lib.List()
		return documentsListedMsg{docs: docs, err: err}
	}
}

// loadDocument reads and parses path, asking the viewer to scroll to heading
// once it is displayed.
func (a *App) loadDocument(path, heading string) tea.Cmd {
	lib := a.lib
	return func() tea.Msg {
		content, err := lib.Read(path)
		if err != nil {
			return documentLoadedMsg{path: path, err: err}
		}
		var headings []markdown.Heading
		if library.IsMarkdown(path) {
			headings = markdown.NewParser().Parse(content).Headings
		}
		return documentLoadedMsg{path: path, content: content, headings: headings, heading: heading}
	}
}

// initIndex runs the initial index pass in the background.
func (a *App) initIndex() tea.Cmd {
	indexer := a.indexer
	if indexer == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := indexer.IndexAll()
		return indexInitDoneMsg{stats: stats, err: err}
	}
}

// startWatcher begins re-indexing on file changes. Watcher callbacks run on
// timer goroutines and reach the UI through the events channel.
func (a *App) startWatcher() error {
	w, err := index.NewWatcher(a.indexer, a.cfg.LibraryPath, a.logger, func(path string) {
		a.send(documentChangedMsg{path: path})
	}, func(err error) {
		a.send(fatalErrorMsg{err: err})
	})
	if err != nil {
		return fmt.Errorf("watcher init: %w", err)
	}
	a.watcher = w
	go w.Start()
	return nil
}

func (a *App) send(msg tea.Msg) {
	select {
	case a.events <- msg:
	case <-a.done:
	}
}

// waitForEvent delivers the next background event as a message.
func (a *App) waitForEvent() tea.Cmd {
	events, done := a.events, a.done
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-done:
			return nil
		}
	}
}

// searchDocuments returns finder items for a query. Full-text matches come
// first; when there are none the query is matched against paths and titles.
func (a *App) searchDocuments(query string) []panel.FinderItem {
	if a.db == nil {
		return nil
	}
	if strings.TrimSpace(query) == "" {
		return a.listIndexed()
	}

	results, err := a.db.Search(query, 50)
	if err != nil {
		a.logger.Debug("search", "query", query, "err", err)
	}
	if err != nil || len(results) == 0 {
		results, err = a.db.SearchFiles(query, 50)
		if err != nil {
			a.logger.Warn("search files", "query", query, "err", err)
			return nil
		}
	}

	items := make([]panel.FinderItem, len(results))
	for i, r := range results {
		items[i] = panel.FinderItem{
			Title:   r.Title,
			Path:    r.Path,
			Heading: a.matchHeading(r.Path, query),
		}
	}
	return items
}

// listIndexed offers every indexed document, by path, before anything is typed.
func (a *App) listIndexed() []panel.FinderItem {
	results, err := a.db.ListAll(200)
	if err != nil {
		a.logger.Warn("list index", "err", err)
		return nil
	}
	items := make([]panel.FinderItem, len(results))
	for i, r := range results {
		items[i] = panel.FinderItem{Title: r.Title, Path: r.Path}
	}
	return items
}

// matchHeading returns the first heading of path containing any query word.
func (a *App) matchHeading(path, query string) string {
	headings, err := a.db.Headings(path)
	if err != nil {
		return ""
	}
	words, _ := index.ParseQuery(query)
	for _, h := range headings {
		text := strings.ToLower(h.Text)
		for _, w := range words {
			if strings.Contains(text, strings.ToLower(w)) {
				return h.Text
			}
		}
	}
	return ""
}
